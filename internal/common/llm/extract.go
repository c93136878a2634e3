// internal/common/llm/extract.go
package llm

import (
	"errors"
	"regexp"
	"strings"
)

var (
	codeBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	jsonSpanRe  = regexp.MustCompile(`(?s)\{.*\}`)
)

// ErrNoJSONPayload is returned when the completion text contains nothing
// that looks like a JSON object.
var ErrNoJSONPayload = errors.New("no JSON object found in completion output")

// ExtractJSONObject pulls a JSON object out of free-form completion text.
// Models wrap payloads in fenced code blocks or surround them with prose, so
// a fenced block wins, otherwise the widest top-level {...} span is taken.
// The result is still untrusted; callers must parse and validate it.
func ExtractJSONObject(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrNoJSONPayload
	}

	if m := codeBlockRe.FindStringSubmatch(content); m != nil {
		return m[1], nil
	}
	if m := jsonSpanRe.FindString(content); m != "" {
		return m, nil
	}
	return "", ErrNoJSONPayload
}

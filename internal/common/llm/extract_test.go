// internal/common/llm/extract_test.go
package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
		wantErr  bool
	}{
		{
			name:     "bare JSON object",
			content:  `{"category":"desk"}`,
			expected: `{"category":"desk"}`,
		},
		{
			name:     "fenced json block",
			content:  "```json\n{\"category\":\"desk\"}\n```",
			expected: `{"category":"desk"}`,
		},
		{
			name:     "fenced block without language tag",
			content:  "```\n{\"category\":\"desk\"}\n```",
			expected: `{"category":"desk"}`,
		},
		{
			name:     "prose around the payload",
			content:  "Sure, here is the analysis you asked for:\n{\"category\":\"desk\"}\nHope this helps!",
			expected: `{"category":"desk"}`,
		},
		{
			name:     "fenced block wins over surrounding prose",
			content:  "Here you go:\n```json\n{\"a\":1}\n```\ndone",
			expected: `{"a":1}`,
		},
		{
			name:     "nested object kept intact",
			content:  `{"value_assessment":{"best_value_id":1}}`,
			expected: `{"value_assessment":{"best_value_id":1}}`,
		},
		{
			name:    "no JSON at all",
			content: "I could not produce a recommendation.",
			wantErr: true,
		},
		{
			name:    "empty content",
			content: "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.content)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoJSONPayload)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

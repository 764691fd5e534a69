package hook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailureReason(t *testing.T) {
	tests := []struct {
		name    string
		result  map[string]any
		failed  bool
		partial string
	}{
		{
			"explicit error flag",
			map[string]any{"isError": true, "error": "connection refused"},
			true, "Error flag: connection refused",
		},
		{
			"error flag without message",
			map[string]any{"isError": true},
			true, "Unknown error",
		},
		{
			"missing content",
			map[string]any{"status": "maybe"},
			true, "Empty content",
		},
		{
			"empty content list",
			map[string]any{"content": []any{}},
			true, "Empty content",
		},
		{
			"error text in content",
			map[string]any{"content": []any{map[string]any{"text": "Request FAILED upstream"}}},
			true, "Error in response",
		},
		{
			"timeout marker",
			map[string]any{"content": []any{map[string]any{"text": "ok"}}, "note": "socket timeout"},
			true, "Timeout detected",
		},
		{
			"healthy result",
			map[string]any{"content": []any{map[string]any{"text": `{"LPN":"123456"}`}}},
			false, "",
		},
		{
			"nil result",
			nil,
			true, "Empty content",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failed, reason := FailureReason(tt.result)
			assert.Equal(t, tt.failed, failed)
			if tt.partial != "" {
				assert.Contains(t, reason, tt.partial)
			}
		})
	}
}

func TestIsErrorResult(t *testing.T) {
	assert.True(t, IsErrorResult(map[string]any{"isError": true}))
	assert.False(t, IsErrorResult(map[string]any{"isError": false}))
	assert.False(t, IsErrorResult(map[string]any{"content": []any{}}))
}

package hook

import (
	"fmt"
	"strings"
)

// FailureReason inspects a tool result and reports whether it represents a
// failed API call. Failures show up three ways: an explicit isError flag,
// an empty content payload, or error text inside the content blocks.
func FailureReason(result map[string]any) (bool, string) {
	if result == nil {
		return true, "Empty content returned"
	}

	if isErr, ok := result["isError"].(bool); ok && isErr {
		msg := "Unknown error"
		if e, ok := result["error"].(string); ok && e != "" {
			msg = e
		}
		return true, "Error flag: " + msg
	}

	content, present := result["content"]
	if !present || content == nil {
		return true, "Empty content returned"
	}
	if list, ok := content.([]any); ok {
		if len(list) == 0 {
			return true, "Empty content returned"
		}
		for _, item := range list {
			block, ok := item.(map[string]any)
			if !ok {
				continue
			}
			text, ok := block["text"].(string)
			if !ok {
				continue
			}
			lower := strings.ToLower(text)
			if strings.Contains(lower, "error") || strings.Contains(lower, "failed") {
				snippet := text
				if len(snippet) > 100 {
					snippet = snippet[:100]
				}
				return true, "Error in response: " + snippet
			}
		}
	}

	if strings.Contains(strings.ToLower(fmt.Sprintf("%v", result)), "timeout") {
		return true, "Timeout detected"
	}
	return false, ""
}

// IsErrorResult reports the explicit isError flag alone, for hooks that
// only skip on declared errors (caching, exports).
func IsErrorResult(result map[string]any) bool {
	isErr, ok := result["isError"].(bool)
	return ok && isErr
}

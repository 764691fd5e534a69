package hook

import "errors"

// Sentinel errors for the hook package. Using sentinels instead of ad-hoc
// fmt.Errorf allows callers to match with errors.Is for reliable error handling.
var (
	// ErrEmptyInput is returned when stdin carried no envelope at all.
	ErrEmptyInput = errors.New("empty hook input")
)

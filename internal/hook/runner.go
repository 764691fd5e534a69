package hook

import (
	"fmt"
	"io"
)

// Filter is a single hook concern: transform a request envelope into a
// response envelope. Returning an error is allowed for convenience; the
// runner folds it into the output rather than failing the process.
type Filter func(in *Input) (*Output, error)

// Run executes a filter under the fail-safe contract. Whatever happens —
// unreadable stdin, a filter error, even a panic — Run writes a well-formed
// envelope to stdout and returns nil so the hook process exits 0.
//
// errKey names the metadata flag reported when the filter could not run
// (e.g. "validation": "error" for the LPN validator).
func Run(stdin io.Reader, stdout io.Writer, errKey string, filter Filter) error {
	out := runSafely(stdin, errKey, filter)
	if out == nil {
		out = NewOutput()
	}
	if err := WriteOutput(stdout, out); err != nil {
		// Last resort: stdout itself is broken. Emit the minimal envelope;
		// if that fails too there is nothing further to report.
		fmt.Fprintln(stdout, `{"continue":true}`)
	}
	return nil
}

// runSafely invokes the filter with panic and error capture.
func runSafely(stdin io.Reader, errKey string, filter Filter) (out *Output) {
	defer func() {
		if r := recover(); r != nil {
			out = NewOutput().
				Set(errKey, "error").
				Set("error", fmt.Sprintf("hook panic: %v", r))
		}
	}()

	in, err := ReadInput(stdin)
	if err != nil {
		return NewOutput().
			Set(errKey, "error").
			Set("error", err.Error())
	}

	out, err = filter(in)
	if err != nil {
		o := NewOutput().
			Set(errKey, "error").
			Set("error", err.Error())
		return o
	}
	return out
}

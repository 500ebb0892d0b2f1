package cli

import (
	"fmt"
	"io"
)

// writeOutput writes formatted output to w, wrapping any write failure
// with enough context to diagnose a full disk or closed pipe.
func writeOutput(w io.Writer, format string, args ...interface{}) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("cli: writing output: %w", err)
	}
	return nil
}

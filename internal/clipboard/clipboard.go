// Package clipboard wraps the host clipboard for the vaultcli "copy a
// secret out, then forget it" flow: a value is placed on the clipboard and
// wiped again once its caller-chosen time-to-live elapses, provided nothing
// else has overwritten it in the meantime.
package clipboard

import (
	"fmt"
	"time"

	hostclip "github.com/atotto/clipboard"
)

// CopyWithTimeout places text on the system clipboard and schedules it to
// be cleared after ttl, but only if the clipboard still holds exactly text
// at that point — a later copy (by vaultcli or any other program) is left
// alone.
func CopyWithTimeout(text string, ttl time.Duration) error {
	if err := hostclip.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: copying text failed: %w", err)
	}

	go clearAfter(text, ttl)
	return nil
}

func clearAfter(text string, ttl time.Duration) {
	time.Sleep(ttl)
	if current, err := hostclip.ReadAll(); err == nil && current == text {
		_ = hostclip.WriteAll("")
	}
}

// IsAvailable reports whether the host clipboard can be read at all. Some
// headless environments have no clipboard backend; callers use this to
// decide whether to offer --copy flags rather than fail at copy time.
func IsAvailable() bool {
	_, err := hostclip.ReadAll()
	return err == nil
}

// Clear empties the clipboard unconditionally.
func Clear() error {
	if err := hostclip.WriteAll(""); err != nil {
		return fmt.Errorf("clipboard: clearing failed: %w", err)
	}
	return nil
}

package cli

import (
	"fmt"
	"os"

	"github.com/credvault/credvault/vaulterr"
)

// Exit codes. ExitLocked and ExitMissingAppKey give scripts driving
// vaultcli a way to distinguish "needs a passphrase" from "really
// broken" without parsing error text.
const (
	ExitOK             = 0
	ExitError          = 1
	ExitInvalidInput   = 2
	ExitLocked         = 3
	ExitMissingAppKey  = 4
)

// exitCodeFor maps a vaulterr.Reason to the process exit code vaultcli
// reports for it. Reasons without a dedicated code fall back to
// ExitError.
func exitCodeFor(err error) int {
	reason, ok := vaulterr.Of(err)
	if !ok {
		return ExitError
	}
	switch reason {
	case vaulterr.ReasonLocked:
		return ExitLocked
	case vaulterr.ReasonMissingAppKey:
		return ExitMissingAppKey
	case vaulterr.ReasonInvalid:
		return ExitInvalidInput
	default:
		return ExitError
	}
}

// die prints err to stderr and exits with the code matching its reason.
func die(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(exitCodeFor(err))
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	vault "github.com/credvault/credvault"
)

var rebaseCmd = &cobra.Command{
	Use:   "rebase",
	Short: "Rotate the master passphrase without re-encrypting records",
	Long: `Rebase unlocks the vault with the current passphrase, then
re-wraps the existing key bundle under a new passphrase. Record blobs
are never touched: they stay encrypted under the same unchanged
record-encryption key.

Example:
  vaultcli rebase`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRebase(cmd)
	},
}

func runRebase(cmd *cobra.Command) error {
	ctx := cmd.Context()
	d, err := openUnlocked(ctx)
	if err != nil {
		return err
	}
	defer d.Close(ctx)

	fmt.Println("Set a new master passphrase.")
	newPassphrase, err := PromptPasswordConfirm("Enter new passphrase: ")
	if err != nil {
		return err
	}
	if len(newPassphrase) < 8 {
		return fmt.Errorf("passphrase is too short (minimum 8 characters)")
	}

	if err := d.Initialize(ctx, vault.InitializeOptions{Passphrase: &newPassphrase, Rebase: true}); err != nil {
		return err
	}

	fmt.Println("Master passphrase rotated. Unlock with the new passphrase from now on.")
	return nil
}

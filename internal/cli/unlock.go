package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Verify the master passphrase against the vault",
	Long: `Unlock resolves the application key (from --passphrase or an
interactive prompt) and unwraps the vault's key blob to confirm it is
correct, then locks and closes again. Because vaultcli is a one-shot
process, the vault does not stay unlocked between separate invocations
— pass --passphrase to any command that needs one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := openUnlocked(ctx)
		if err != nil {
			return err
		}
		defer d.Close(ctx)
		fmt.Println("Vault unlocked successfully")
		return nil
	},
}

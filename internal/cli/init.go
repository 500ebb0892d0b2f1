package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new vault",
	Long: `Initialize a new vault at --vault with a master passphrase.

Example:
  vaultcli init
  vaultcli init --vault /path/to/vault.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(cmd)
	},
}

func runInit(cmd *cobra.Command) error {
	ctx := cmd.Context()

	d, err := openDatastore(ctx)
	if err != nil {
		return err
	}
	defer d.Close(ctx)

	pass := passphrase
	if pass == "" {
		fmt.Println("Choose a master passphrase. This will be used to encrypt your vault.")
		var err error
		pass, err = PromptPasswordConfirm("Enter master passphrase: ")
		if err != nil {
			return err
		}
	}
	if len(pass) < 8 {
		return fmt.Errorf("passphrase is too short (minimum 8 characters)")
	}

	if err := d.Initialize(ctx, initOptsFor(pass)); err != nil {
		return err
	}

	fmt.Printf("Vault created at %s. Use 'vaultcli unlock' to verify your passphrase.\n", vaultPath)
	return nil
}

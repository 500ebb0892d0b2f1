package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vaultcli",
	Short: "A secure, local-only credential vault",
	Long: `vaultcli drives an encrypted, local credential vault: AES-256-GCM
records under a master application key derived with Argon2id, with a
history journal of every change to a record's entry. Nothing ever leaves the
local backing store.`,
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadHostConfig(); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

// Execute runs the vaultcli command tree. On failure it prints the error
// and exits the process with the code matching the error's vaulterr.Reason,
// so scripts driving vaultcli can distinguish "needs a passphrase" from
// "really broken" without parsing error text.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		die(err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.config/vaultcli/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&vaultPath, "vault", "", "vault database path")
	rootCmd.PersistentFlags().StringVar(&passphrase, "passphrase", "", "master passphrase (omit to be prompted)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose (debug) logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(rebaseCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(passgenCmd)
}

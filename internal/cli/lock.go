package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Report the vault's lifecycle state",
	Long: `Prepare the vault and print whether it is uninitialized, locked,
or unlocked. Since vaultcli is a one-shot process, a freshly-opened
vault is always Locked (or Uninitialized) — this exists mainly so
scripts can check state without attempting an unlock.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := openDatastore(ctx)
		if err != nil {
			return err
		}
		defer d.Close(ctx)

		state, err := d.State(ctx)
		if err != nil {
			return err
		}
		fmt.Println(state)
		return nil
	},
}

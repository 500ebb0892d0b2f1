package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a record from the vault",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDelete(cmd, args[0])
	},
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteYes, "yes", false, "skip the confirmation prompt")
}

func runDelete(cmd *cobra.Command, id string) error {
	ctx := cmd.Context()
	d, err := openUnlocked(ctx)
	if err != nil {
		return err
	}
	defer d.Close(ctx)

	if !deleteYes {
		confirmed, err := PromptConfirm(fmt.Sprintf("Delete record %s?", id), false)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Cancelled")
			return nil
		}
	}

	r, err := d.Remove(ctx, id)
	if err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("no such record: %s", id)
	}

	fmt.Printf("Deleted entry %q (id %s)\n", r.Title, r.ID)
	return nil
}

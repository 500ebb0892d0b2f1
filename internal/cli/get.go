package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/credvault/credvault/internal/clipboard"
)

var getCopy bool

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single record by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGet(cmd, args[0])
	},
}

func init() {
	getCmd.Flags().BoolVar(&getCopy, "copy", false, "copy the password field to the clipboard instead of showing the record")
}

func runGet(cmd *cobra.Command, id string) error {
	ctx := cmd.Context()
	d, err := openUnlocked(ctx)
	if err != nil {
		return err
	}
	defer d.Close(ctx)

	r, err := d.Get(ctx, id)
	if err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("no such record: %s", id)
	}

	if getCopy {
		password, _ := r.Entry["password"].(string)
		if password == "" {
			return fmt.Errorf("record %s has no password field to copy", id)
		}
		ttl := 30 * time.Second
		if hostCfg != nil && hostCfg.ClipboardTTL > 0 {
			ttl = hostCfg.ClipboardTTL
		}
		if err := clipboard.CopyWithTimeout(password, ttl); err != nil {
			return err
		}
		fmt.Printf("Password copied to clipboard (clears in %s)\n", ttl)
		return nil
	}

	out := cmd.OutOrStdout()
	_ = writeOutput(out, "ID:       %s\n", r.ID)
	_ = writeOutput(out, "Title:    %s\n", r.Title)
	_ = writeOutput(out, "Origins:  %v\n", r.Origins)
	_ = writeOutput(out, "Tags:     %v\n", r.Tags)
	_ = writeOutput(out, "Created:  %s\n", r.Created.Format(time.RFC3339))
	_ = writeOutput(out, "Modified: %s\n", r.Modified.Format(time.RFC3339))
	for k, v := range r.Entry {
		if k == "password" {
			continue
		}
		_ = writeOutput(out, "  entry.%s: %v\n", k, v)
	}
	return writeOutput(out, "  entry.password: (use --copy to retrieve)\n")
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	vault "github.com/credvault/credvault"
)

var (
	updateTitle    string
	updateUsername string
	updatePassword bool
	updateURL      string
	updateTags     []string
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of an existing record",
	Long: `Update replaces the title, entry, origins and tags of the record
identified by id wholesale — unset flags fall back to the record's
current values, except the password, which is only prompted for when
--set-password is given.

Example:
  vaultcli update 3fae... --set-password
  vaultcli update 3fae... --title "GitHub (personal)"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUpdate(cmd, args[0])
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateTitle, "title", "", "new title (defaults to the current one)")
	updateCmd.Flags().StringVar(&updateUsername, "username", "", "new username (defaults to the current one)")
	updateCmd.Flags().BoolVar(&updatePassword, "set-password", false, "prompt for a new password")
	updateCmd.Flags().StringVar(&updateURL, "url", "", "new origin URL (defaults to the current one)")
	updateCmd.Flags().StringSliceVar(&updateTags, "tags", nil, "new comma-separated tags (defaults to current tags)")
}

func runUpdate(cmd *cobra.Command, id string) error {
	ctx := cmd.Context()
	d, err := openUnlocked(ctx)
	if err != nil {
		return err
	}
	defer d.Close(ctx)

	existing, err := d.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("no such record: %s", id)
	}

	title := existing.Title
	if cmd.Flags().Changed("title") {
		title = updateTitle
	}

	entry := existing.Entry
	if cmd.Flags().Changed("username") {
		entry["username"] = updateUsername
	}
	if updatePassword {
		password, err := PromptPassword("Enter new password: ")
		if err != nil {
			return err
		}
		entry["password"] = password
	}

	origins := existing.Origins
	if cmd.Flags().Changed("url") {
		origins = []string{updateURL}
	}

	tags := existing.Tags
	if cmd.Flags().Changed("tags") {
		tags = updateTags
	}

	r, err := d.Update(ctx, vault.RecordUpdate{
		ID:      id,
		Title:   title,
		Entry:   entry,
		Origins: origins,
		Tags:    tags,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Updated entry %q (id %s)\n", r.Title, r.ID)
	return nil
}

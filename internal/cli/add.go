package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	vault "github.com/credvault/credvault"
)

var (
	addUsername string
	addURL      string
	addTags     []string
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new login entry to the vault",
	Long: `Add a new login-kind entry to the vault, prompting for the
password interactively.

Example:
  vaultcli add "GitHub" --username me@example.com --url https://github.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdd(cmd, args[0])
	},
}

func init() {
	addCmd.Flags().StringVar(&addUsername, "username", "", "username for the login entry")
	addCmd.Flags().StringVar(&addURL, "url", "", "origin URL associated with the entry")
	addCmd.Flags().StringSliceVar(&addTags, "tags", nil, "comma-separated tags")
}

func runAdd(cmd *cobra.Command, title string) error {
	ctx := cmd.Context()
	d, err := openUnlocked(ctx)
	if err != nil {
		return err
	}
	defer d.Close(ctx)

	password, err := PromptPassword("Enter password: ")
	if err != nil {
		return err
	}

	var origins []string
	if addURL != "" {
		origins = []string{addURL}
	}

	r, err := d.Add(ctx, vault.NewRecord{
		Title: title,
		Entry: map[string]interface{}{
			"kind":     "login",
			"username": addUsername,
			"password": password,
		},
		Origins: origins,
		Tags:    addTags,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added entry %q (id %s)\n", r.Title, r.ID)
	return nil
}

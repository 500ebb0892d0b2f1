package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show vault path and lifecycle state",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd)
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
}

type statusInfo struct {
	VaultPath string `json:"vault_path"`
	State     string `json:"state"`
}

func runStatus(cmd *cobra.Command) error {
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

	info := statusInfo{VaultPath: vaultPath, State: state.String()}
	out := cmd.OutOrStdout()
	if statusJSON {
		enc, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		return writeOutput(out, "%s\n", string(enc))
	}

	_ = writeOutput(out, "Vault:  %s\n", info.VaultPath)
	return writeOutput(out, "State:  %s\n", info.State)
}

package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every record in the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd)
	},
}

func runList(cmd *cobra.Command) error {
	ctx := cmd.Context()
	d, err := openUnlocked(ctx)
	if err != nil {
		return err
	}
	defer d.Close(ctx)

	records, err := d.List(ctx)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return records[ids[i]].Title < records[ids[j]].Title
	})

	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tORIGINS\tTAGS")
	for _, id := range ids {
		r := records[id]
		fmt.Fprintf(tw, "%s\t%s\t%v\t%v\n", r.ID, r.Title, r.Origins, r.Tags)
	}
	return tw.Flush()
}

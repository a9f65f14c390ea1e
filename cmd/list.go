package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hmans/library/internal/ui"
)

var (
	listJSON bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the catalogue grouped by author",
	Long: `Lists every author followed by the books that reference them.

Books whose authorId matches no author are listed under "(unknown author)".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tree := ui.BuildTree(core.Snapshot())
		out := cmd.OutOrStdout()

		if listJSON {
			data, err := json.MarshalIndent(tree.ToJSON(), "", "  ")
			if err != nil {
				return fmt.Errorf("encoding catalog: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		if len(tree.Authors) == 0 && len(tree.Orphans) == 0 {
			fmt.Fprintln(out, ui.Muted.Render("The catalogue is empty."))
			return nil
		}

		fmt.Fprint(out, ui.RenderTree(tree))
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(listCmd)
}

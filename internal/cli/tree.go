package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var treeRefresh bool

var treeCmd = &cobra.Command{
	Use:   "tree <datasetkey>",
	Short: "Print the remote file tree of a dataset",
	Long: `Print the file tree of a dataset as published by the archive service.

Files are shown as "name | size | filekey"; the file keys are what 'list'
and 'download' accept with --keys.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = eng.Close() }()

		listing, err := eng.Listing(cmd.Context(), args[0], treeRefresh)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]string{"datasetKey": args[0], "listing": listing})
		}

		fmt.Fprintln(stdout, listing)
		return nil
	},
}

func init() {
	treeCmd.Flags().BoolVar(&treeRefresh, "refresh", false, "Refetch the listing instead of using the cache")
}

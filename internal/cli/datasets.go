package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	datasetsTree    bool
	datasetsRefresh bool
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets [query]",
	Short: "List or search the dataset catalogue",
	Long: `List the datasets published on the archive service.

If [query] is given, only datasets whose name contains it (case-insensitive)
or whose key contains it are shown. With --tree the file tree of every match
is printed as well.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = eng.Close() }()

		ctx := cmd.Context()

		query := ""
		if len(args) > 0 {
			query = args[0]
		}

		datasets, err := eng.Datasets(ctx, query)
		if err != nil {
			return err
		}

		if jsonOutput && !datasetsTree {
			return outputJSON(datasets)
		}

		if len(datasets) == 0 {
			PrintSection("Datasets")
			PrintEmptyState("No datasets found")
			return nil
		}

		if !datasetsTree {
			PrintSection("Datasets")
			rows := make([][]string, 0, len(datasets))
			for _, d := range datasets {
				rows = append(rows, []string{d.Key, d.Name})
			}
			PrintTable([]string{"Key", "Name"}, rows)
			fmt.Fprintln(stdout)
			PrintInfo(PrintCount(len(datasets), "dataset", "datasets"))
			return nil
		}

		type datasetTree struct {
			Key     string `json:"key"`
			Name    string `json:"name"`
			Listing string `json:"listing"`
		}
		trees := make([]datasetTree, 0, len(datasets))
		for _, d := range datasets {
			listing, err := eng.Listing(ctx, d.Key, datasetsRefresh)
			if err != nil {
				return err
			}
			trees = append(trees, datasetTree{Key: d.Key, Name: d.Name, Listing: listing})
		}

		if jsonOutput {
			return outputJSON(trees)
		}

		for _, tr := range trees {
			PrintSection(fmt.Sprintf("%s  %s", tr.Key, tr.Name))
			fmt.Fprintln(stdout, tr.Listing)
		}
		return nil
	},
}

func init() {
	datasetsCmd.Flags().BoolVar(&datasetsTree, "tree", false, "Print the file tree of each match")
	datasetsCmd.Flags().BoolVar(&datasetsRefresh, "refresh", false, "Refetch listings instead of using the cache")
}

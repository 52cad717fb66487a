package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/aihub/internal/engine"
	"github.com/danieljhkim/aihub/internal/manifest"
)

var (
	listKeys    string
	listRefresh bool
)

var listCmd = &cobra.Command{
	Use:   "list <datasetkey>",
	Short: "List the downloadable files of a dataset",
	Long: `List the files of a dataset with their file keys, listed sizes and paths.

--keys restricts the list to a comma-separated set of file keys ("all" lists
every file). Keys that do not appear in the listing are ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = eng.Close() }()

		result, err := eng.Files(cmd.Context(), engine.ListRequest{
			DatasetKey: args[0],
			Selection:  manifest.ParseSelection(listKeys),
			Refresh:    listRefresh,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result.Files)
		}

		PrintSection(fmt.Sprintf("Files of dataset %s", result.DatasetKey))
		if len(result.Files) == 0 {
			PrintEmptyState("No files match the selection")
			return nil
		}

		rows := make([][]string, 0, len(result.Files))
		for _, f := range result.Files {
			rows = append(rows, []string{strconv.Itoa(f.Key), f.Name, f.Size, f.Path})
		}
		PrintTable([]string{"FileKey", "Filename", "Size", "Path"}, rows)
		fmt.Fprintln(stdout)
		PrintLabelValue("Total", PrintCount(len(result.Files), "file", "files"))
		PrintLabelValue("Listed size", manifest.FormatBytes(result.EstimatedBytes))
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listKeys, "keys", "all", `File keys to list, comma-separated, or "all"`)
	listCmd.Flags().BoolVar(&listRefresh, "refresh", false, "Refetch the listing instead of using the cache")
}

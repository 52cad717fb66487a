package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/aihub/internal/manifest"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the listing cache",
	Long:  `Show or drop the dataset listings cached under $AIHUB_ROOT/cache.`,
}

var cacheLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List cached listings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = eng.Close() }()

		entries, err := eng.CacheEntries()
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(entries)
		}

		PrintSection("Cached Listings")
		if len(entries) == 0 {
			PrintEmptyState("Cache is empty")
			return nil
		}

		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{
				e.DatasetKey,
				e.FetchedAt.Local().Format("2006-01-02 15:04:05"),
				e.ExpiresAt.Local().Format("2006-01-02 15:04:05"),
				manifest.FormatBytes(int64(e.Bytes)),
			})
		}
		PrintTable([]string{"Dataset", "Fetched", "Expires", "Size"}, rows)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached listing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = eng.Close() }()

		if err := eng.CacheClear(); err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]bool{"cleared": true})
		}
		PrintSuccess("Listing cache cleared")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheLsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

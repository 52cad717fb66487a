package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/aihub/internal/clock"
	"github.com/danieljhkim/aihub/internal/engine"
	"github.com/danieljhkim/aihub/internal/manifest"
)

var (
	downloadKeys      string
	downloadOverwrite bool
	downloadDryRun    bool
	downloadQuiet     bool
	downloadRefresh   bool
)

var downloadCmd = &cobra.Command{
	Use:   "download <datasetkey>",
	Short: "Download files of a dataset",
	Long: `Download the selected files of a dataset into the download directory.

The files are fetched as one archive, unpacked, and split files (name.part0,
name.part1, ...) are joined back together. Files that already exist, or whose
zip was already extracted next to them, are skipped unless --overwrite is
given; when nothing is left to fetch the service is not contacted.

The API key is taken from --api-key, AIHUB_API_KEY or the config file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = eng.Close() }()

		if !downloadQuiet {
			settings := eng.Settings()
			eng.SetTrackerFactory(engine.BarFactory(os.Stderr, settings.ProgressInterval, &clock.RealClock{}))
		}

		result, err := eng.Download(cmd.Context(), &engine.DownloadRequest{
			DatasetKey: args[0],
			Selection:  manifest.ParseSelection(downloadKeys),
			Overwrite:  downloadOverwrite,
			DryRun:     downloadDryRun,
			Refresh:    downloadRefresh,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		printDownloadResult(result)
		return nil
	},
}

func printDownloadResult(result *engine.DownloadResult) {
	plan := result.Plan

	if len(plan.Skipped) > 0 {
		PrintSubsection("Skipped:")
		items := make([]string, 0, len(plan.Skipped))
		for _, s := range plan.Skipped {
			items = append(items, fmt.Sprintf("%d %s (%s)", s.File.Key, s.File.Path, s.Reason))
		}
		PrintList(items, 1)
		fmt.Fprintln(stdout)
	}

	if result.NoMatch {
		PrintWarning("No listed file matches the selection, nothing to download")
		return
	}

	if result.AlreadyPresent {
		PrintSuccess("All selected files are already present, nothing to download")
		return
	}

	size := manifest.FormatBytes(result.TotalBytes)
	if result.Estimated {
		size = "~" + size
	}

	if result.DryRun {
		PrintSection("Dry Run")
		PrintInfo(fmt.Sprintf("Would download %s (%s) into %s",
			PrintCount(len(plan.Fetch), "file", "files"), size, plan.DestDir))
		items := make([]string, 0, len(plan.Fetch))
		for _, f := range plan.Fetch {
			items = append(items, fmt.Sprintf("%d %s | %s", f.Key, f.Path, f.Size))
		}
		PrintList(items, 1)
		return
	}

	keys := make([]string, 0, len(result.Requested))
	for _, k := range result.Requested {
		keys = append(keys, strconv.Itoa(k))
	}

	PrintSuccess(fmt.Sprintf("Downloaded %s into %s",
		PrintCount(len(result.Requested), "file", "files"), plan.DestDir))
	PrintLabelValue("File keys", strings.Join(keys, ","))
	PrintLabelValue("Received", fmt.Sprintf("%s of %s", manifest.FormatBytes(result.Written), size))
	if len(result.Merged) > 0 {
		PrintLabelValue("Reassembled", PrintCount(len(result.Merged), "file", "files"))
	}
	if len(result.Files) > 0 {
		PrintSubsection("Files:")
		PrintList(result.Files, 1)
	}
}

func init() {
	downloadCmd.Flags().StringVar(&downloadKeys, "keys", "all", `File keys to download, comma-separated, or "all"`)
	downloadCmd.Flags().String("dir", "", "Download directory (default from config, or the current directory)")
	downloadCmd.Flags().String("api-key", "", "API key for the download endpoint")
	downloadCmd.Flags().BoolVar(&downloadOverwrite, "overwrite", false, "Download files even if they are already present")
	downloadCmd.Flags().BoolVar(&downloadDryRun, "dry-run", false, "Show what would be downloaded without downloading")
	downloadCmd.Flags().BoolVarP(&downloadQuiet, "quiet", "q", false, "Do not draw a progress bar")
	downloadCmd.Flags().BoolVar(&downloadRefresh, "refresh", false, "Refetch the listing instead of using the cache")
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/aihub/internal/archive"
	"github.com/danieljhkim/aihub/internal/engine"
)

var (
	unzipRemoveZip     bool
	unzipSkipRoot      bool
	unzipNoNFC         bool
	unzipForceRecovery bool
)

var unzipCmd = &cobra.Command{
	Use:   "unzip [zip...]",
	Short: "Extract zip archives with Korean file names",
	Long: `Extract zip archives into "<archive>.unzip" directories.

Without arguments every zip below the download directory (--dir) is extracted.
Archives whose directory already exists are left alone. Member names that
were stored in a legacy Korean encoding are recovered; --force-recovery runs
every name through the recovery chain.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = eng.Close() }()

		opts := archive.DefaultOptions()
		opts.RemoveZip = unzipRemoveZip
		opts.SkipRoot = unzipSkipRoot
		opts.NormalizeNFC = !unzipNoNFC
		opts.ForceRecovery = unzipForceRecovery

		results, err := eng.Unzip(&engine.UnzipRequest{Archives: args, Options: opts})
		if err != nil {
			return err
		}

		if jsonOutput {
			if err := outputJSON(results); err != nil {
				return err
			}
			return results.Err()
		}

		if len(results) == 0 {
			PrintEmptyState("No zip archives found")
			return nil
		}

		for _, res := range results {
			switch res.Status {
			case archive.StatusExtracted:
				msg := fmt.Sprintf("%s → %s (%s)", res.Archive, res.Dir, PrintCount(len(res.Files), "file", "files"))
				if res.StrippedRoot != "" {
					msg += fmt.Sprintf(", stripped %s/", res.StrippedRoot)
				}
				PrintSuccess(msg)
			case archive.StatusAlreadyExtracted:
				PrintInfo(fmt.Sprintf("- %s already extracted", res.Archive))
			case archive.StatusMissing:
				PrintWarning(fmt.Sprintf("%s not found", res.Archive))
			default:
				PrintError(fmt.Sprintf("%s: %s", res.Archive, res.Error))
			}
		}
		return results.Err()
	},
}

func init() {
	unzipCmd.Flags().String("dir", "", "Directory searched for archives when none are given")
	unzipCmd.Flags().BoolVar(&unzipRemoveZip, "remove-zip", false, "Delete each archive after a successful extraction")
	unzipCmd.Flags().BoolVar(&unzipSkipRoot, "skip-root", false, "Strip a single top-level directory shared by all members")
	unzipCmd.Flags().BoolVar(&unzipNoNFC, "no-nfc", false, "Keep member names as stored instead of normalizing to NFC")
	unzipCmd.Flags().BoolVar(&unzipForceRecovery, "force-recovery", false, "Decode every member name through the encoding recovery chain")
}

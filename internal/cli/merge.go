package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/aihub/internal/manifest"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [dir]",
	Short: "Join split part files back together",
	Long: `Find files named "<name>.part<N>" below [dir] (default: the download
directory), concatenate each group in numeric order into <name> and remove
the parts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = eng.Close() }()

		dir := ""
		if len(args) > 0 {
			dir = args[0]
		}

		merged, err := eng.Merge(dir)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(merged)
		}

		if len(merged) == 0 {
			PrintEmptyState("No part files found")
			return nil
		}
		for _, m := range merged {
			PrintSuccess(fmt.Sprintf("%s (%s, %s)", m.Output,
				PrintCount(len(m.Parts), "part", "parts"), manifest.FormatBytes(m.Bytes)))
		}
		return nil
	},
}

package cli

import (
	"github.com/spf13/cobra"
)

var manualCmd = &cobra.Command{
	Use:   "manual",
	Short: "Show the archive service API manual",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = eng.Close() }()

		m, err := eng.Manual(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(m)
		}

		PrintSection(m.Title())
		rows := make([][]string, 0, len(m.Result))
		for _, e := range m.Result {
			rows = append(rows, []string{e.Title, e.English, e.Korean, e.Created})
		}
		PrintTable([]string{"Item", "English", "Korean", "Registered"}, rows)

		for _, e := range m.Result {
			if e.Detail == "" {
				continue
			}
			PrintSubsection(e.Title)
			PrintInfo(e.Detail)
		}
		return nil
	},
}

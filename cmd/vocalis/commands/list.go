package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <recording-id>",
	Short: "List all insights for a recording",
	Long: `List the insights stored for a recording, newest last.

Examples:
  vocalis list --db ./insights rec-42
  vocalis list --db ./insights rec-42 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		insights, closeStore, err := openInsights()
		if err != nil {
			return err
		}
		defer closeStore()

		all, err := insights.List(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if formatOutput == "json" {
			return printJSON(all)
		}
		for _, ins := range all {
			fmt.Printf("%s  %s  %s  %d features\n",
				ins.ID, ins.CreatedAt.Format("2006-01-02T15:04:05Z"), ins.Status, len(ins.Features))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&dbDir, "db", "", "insight store directory")
	rootCmd.AddCommand(listCmd)
}

package commands

import (
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <recording-id> <insight-id>",
	Short: "Fetch one stored insight",
	Long: `Fetch a single insight of a recording by id.

Examples:
  vocalis get --db ./insights rec-42 0c9d7c1e-...
  vocalis get --db ./insights rec-42 0c9d7c1e-... --format json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		insights, closeStore, err := openInsights()
		if err != nil {
			return err
		}
		defer closeStore()

		ins, err := insights.Get(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return printResult(ins)
	},
}

func init() {
	getCmd.Flags().StringVar(&dbDir, "db", "", "insight store directory")
	rootCmd.AddCommand(getCmd)
}

package cli

import (
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Resolve ReccoBeats IDs for the stored library",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd, false)
		if err != nil {
			return err
		}
		defer env.close()

		_, _, err = env.organizer.MatchAnalysisIDs(cmd.Context())
		return err
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
}

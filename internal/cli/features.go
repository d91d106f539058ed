package cli

import (
	"github.com/spf13/cobra"
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Fetch audio features for every matched track",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd, false)
		if err != nil {
			return err
		}
		defer env.close()

		_, err = env.organizer.EnrichFeatures(cmd.Context())
		return err
	},
}

func init() {
	rootCmd.AddCommand(featuresCmd)
}

package cli

import (
	"github.com/spf13/cobra"
)

var flagDryRun bool

var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "Classify the library and create one playlist per bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd, !flagDryRun)
		if err != nil {
			return err
		}
		defer env.close()

		_, err = env.organizer.Organize(cmd.Context(), flagDryRun)
		return err
	},
}

func init() {
	organizeCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "classify and report without touching Spotify")
	rootCmd.AddCommand(organizeCmd)
}

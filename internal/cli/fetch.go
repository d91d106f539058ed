package cli

import (
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the saved-track library with artist genres",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd, true)
		if err != nil {
			return err
		}
		defer env.close()

		_, err = env.organizer.FetchLibrary(cmd.Context())
		return err
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

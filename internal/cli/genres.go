package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/netosnos/spotify-track-organizer/internal/console"
)

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List every genre tag in the stored library with track counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd, false)
		if err != nil {
			return err
		}
		defer env.close()

		counts, err := env.organizer.GenreReport(cmd.Context())
		if err != nil {
			return err
		}

		genres := make([]string, 0, len(counts))
		for g := range counts {
			genres = append(genres, g)
		}
		// most common first, name as tie-break
		sort.Slice(genres, func(i, j int) bool {
			if counts[genres[i]] != counts[genres[j]] {
				return counts[genres[i]] > counts[genres[j]]
			}
			return genres[i] < genres[j]
		})

		console.Headerf(cmd.OutOrStdout(), "%d distinct genres", len(genres))
		for _, g := range genres {
			fmt.Fprintf(cmd.OutOrStdout(), "%4d  %s\n", counts[g], g)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(genresCmd)
}

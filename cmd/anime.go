package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var detailsCmd = &cobra.Command{
	Use:   "details <slug>",
	Short: "Show full metadata for an anime",
	Long:  `Show full metadata for an anime. The slug is the ID-suffixed path segment, e.g. "naruto-677".`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := newProvider().Details(args[0])
		if err != nil {
			return fmt.Errorf("getting details: %w", err)
		}
		return emit(info, "details-"+args[0]+".json")
	},
}

var episodesCmd = &cobra.Command{
	Use:   "episodes <slug>",
	Short: "List an anime's episodes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		episodes, err := newProvider().Episodes(args[0])
		if err != nil {
			return fmt.Errorf("getting episodes: %w", err)
		}
		if len(episodes) == 0 {
			fmt.Println("No episodes found.")
			return nil
		}
		return emit(episodes, "episodes-"+args[0]+".json")
	},
}

func init() {
	rootCmd.AddCommand(detailsCmd)
	rootCmd.AddCommand(episodesCmd)
}

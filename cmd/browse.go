package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Shalin-Shah-2002/Hianime-API/internal/provider"
)

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Show the homepage trending carousel",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := newProvider().Trending()
		if err != nil {
			return fmt.Errorf("getting trending: %w", err)
		}
		if len(results) == 0 {
			fmt.Println("No trending anime found.")
			return nil
		}
		return emitResults(results, "trending")
	},
}

var browseCmd = &cobra.Command{
	Use:   "browse <listing>",
	Short: "Browse a catalog listing",
	Long: `Browse a paginated catalog listing. Listings:
most-popular, top-airing, recently-updated, completed, subbed-anime,
dubbed-anime, movie, tv, ova, ona, special.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		listing, err := provider.ParseListing(args[0])
		if err != nil {
			return err
		}

		results, err := newProvider().List(listing, flagPage)
		if err != nil {
			return fmt.Errorf("browsing %s: %w", listing, err)
		}
		if len(results) == 0 {
			fmt.Println("No results found.")
			return nil
		}
		return emitResults(results, "browse-"+string(listing))
	},
}

var genreCmd = &cobra.Command{
	Use:   "genre <slug>",
	Short: "Browse anime by genre",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := newProvider().ByGenre(args[0], flagPage)
		if err != nil {
			return fmt.Errorf("browsing genre %s: %w", args[0], err)
		}
		if len(results) == 0 {
			fmt.Println("No results found.")
			return nil
		}
		return emitResults(results, "genre-"+args[0])
	},
}

var producerCmd = &cobra.Command{
	Use:   "producer <slug>",
	Short: "Browse anime by studio or producer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := newProvider().ByProducer(args[0], flagPage)
		if err != nil {
			return fmt.Errorf("browsing producer %s: %w", args[0], err)
		}
		if len(results) == 0 {
			fmt.Println("No results found.")
			return nil
		}
		return emitResults(results, "producer-"+args[0])
	},
}

var azCmd = &cobra.Command{
	Use:   "az [letter]",
	Short: "Browse the A-Z index, optionally for one letter",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		letter := ""
		if len(args) == 1 {
			letter = args[0]
		}

		results, err := newProvider().AZList(letter, flagPage)
		if err != nil {
			return fmt.Errorf("browsing az-list: %w", err)
		}
		if len(results) == 0 {
			fmt.Println("No results found.")
			return nil
		}
		return emitResults(results, "az-list")
	},
}

func init() {
	rootCmd.AddCommand(trendingCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(genreCmd)
	rootCmd.AddCommand(producerCmd)
	rootCmd.AddCommand(azCmd)
}

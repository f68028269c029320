package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Shalin-Shah-2002/Hianime-API/internal/provider"
)

var (
	flagFilterType   string
	flagFilterStatus string
	flagFilterRated  string
	flagFilterScore  int
	flagFilterSeason string
	flagFilterLang   string
	flagFilterGenres string
	flagFilterSort   string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search anime by title",
	Args:  cobra.MinimumNArgs(1),
	RunE:  searchRun,
}

func searchRun(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	results, err := newProvider().Search(query, flagPage)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	return emitResults(results, "search")
}

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Browse anime with advanced filters",
	RunE:  filterRun,
}

func filterRun(cmd *cobra.Command, args []string) error {
	opts := provider.FilterOptions{
		Type:     flagFilterType,
		Status:   flagFilterStatus,
		Rated:    flagFilterRated,
		Score:    flagFilterScore,
		Season:   flagFilterSeason,
		Language: flagFilterLang,
		Sort:     flagFilterSort,
	}
	if flagFilterGenres != "" {
		opts.Genres = strings.Split(flagFilterGenres, ",")
	}

	results, err := newProvider().Filter(opts, flagPage)
	if err != nil {
		return fmt.Errorf("filtering: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	return emitResults(results, "filter")
}

func init() {
	filterCmd.Flags().StringVar(&flagFilterType, "media-type", "", "movie | tv | ova | ona | special | music")
	filterCmd.Flags().StringVar(&flagFilterStatus, "status", "", "finished | airing | upcoming")
	filterCmd.Flags().StringVar(&flagFilterRated, "rated", "", "g | pg | pg-13 | r | r+ | rx")
	filterCmd.Flags().IntVar(&flagFilterScore, "score", 0, "Minimum score 1-10")
	filterCmd.Flags().StringVar(&flagFilterSeason, "season", "", "spring | summer | fall | winter")
	filterCmd.Flags().StringVar(&flagFilterLang, "lang", "", "sub | dub")
	filterCmd.Flags().StringVar(&flagFilterGenres, "genres", "", "Comma-separated genre slugs")
	filterCmd.Flags().StringVar(&flagFilterSort, "sort", "", "default | recently_added | score | name_az")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(filterCmd)
}

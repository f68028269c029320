package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Shalin-Shah-2002/Hianime-API/internal/mal"
)

var (
	flagMALLimit  int
	flagMALStatus string
	flagMALScore  int
	flagMALEps    int
)

var malCmd = &cobra.Command{
	Use:   "mal",
	Short: "Query and update MyAnimeList",
}

func newMALClient() (*mal.Client, error) {
	clientID := cfg.MALClientIDOrEnv()
	if clientID == "" {
		return nil, fmt.Errorf("no MAL client ID configured (set mal_client_id or MAL_CLIENT_ID)")
	}
	return mal.NewClient(clientID), nil
}

func newAuthedMALClient() (*mal.Client, error) {
	c, err := newMALClient()
	if err != nil {
		return nil, err
	}
	if err := c.Authenticate(); err != nil {
		return nil, fmt.Errorf("run `hianime mal auth` first: %w", err)
	}
	return c, nil
}

var malAuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with MyAnimeList (OAuth2 PKCE)",
	RunE: func(cmd *cobra.Command, args []string) error {
		clientID := cfg.MALClientIDOrEnv()
		if clientID == "" {
			return fmt.Errorf("no MAL client ID configured (set mal_client_id or MAL_CLIENT_ID)")
		}

		verifier, err := mal.GenerateCodeVerifier()
		if err != nil {
			return fmt.Errorf("generating PKCE verifier: %w", err)
		}

		fmt.Println("Open this URL in your browser and authorize the app:")
		fmt.Println()
		fmt.Println("  " + mal.AuthURL(verifier, clientID))
		fmt.Println()
		fmt.Print("Paste the code from the redirect URL: ")

		reader := bufio.NewReader(os.Stdin)
		code, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading code: %w", err)
		}
		code = strings.TrimSpace(code)
		if code == "" {
			return fmt.Errorf("empty authorization code")
		}

		token, err := mal.ExchangeCode(code, verifier, clientID)
		if err != nil {
			return err
		}
		if err := mal.SaveToken(token); err != nil {
			return fmt.Errorf("storing token in keyring: %w", err)
		}

		fmt.Println("Authenticated. Token stored in the system keyring.")
		return nil
	},
}

var malLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored MyAnimeList token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mal.DeleteToken(); err != nil {
			return fmt.Errorf("removing token: %w", err)
		}
		fmt.Println("Token removed.")
		return nil
	},
}

var malSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search MyAnimeList",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newMALClient()
		if err != nil {
			return err
		}
		results, err := c.Search(strings.Join(args, " "), flagMALLimit, 0)
		if err != nil {
			return err
		}
		return emit(results, "mal-search.json")
	},
}

var malRankingCmd = &cobra.Command{
	Use:   "ranking [type]",
	Short: "Show MAL rankings (all, airing, upcoming, tv, movie, bypopularity, ...)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rankingType := "all"
		if len(args) == 1 {
			rankingType = args[0]
		}

		c, err := newMALClient()
		if err != nil {
			return err
		}
		results, err := c.Ranking(rankingType, flagMALLimit)
		if err != nil {
			return err
		}
		return emit(results, "mal-ranking-"+rankingType+".json")
	},
}

var malSeasonalCmd = &cobra.Command{
	Use:   "seasonal <year> <season>",
	Short: "Show seasonal anime (winter, spring, summer, fall)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		year, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid year %q", args[0])
		}

		c, err := newMALClient()
		if err != nil {
			return err
		}
		results, err := c.Seasonal(year, args[1], flagMALLimit)
		if err != nil {
			return err
		}
		return emit(results, fmt.Sprintf("mal-season-%d-%s.json", year, args[1]))
	},
}

var malListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show your anime list",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newAuthedMALClient()
		if err != nil {
			return err
		}
		entries, err := c.AnimeList(flagMALStatus, "", flagMALLimit, 0)
		if err != nil {
			return err
		}
		return emit(entries, "mal-list.json")
	},
}

var malUpdateCmd = &cobra.Command{
	Use:   "update <anime-id>",
	Short: "Update an entry on your anime list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		animeID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid anime ID %q", args[0])
		}

		c, err := newAuthedMALClient()
		if err != nil {
			return err
		}

		update := mal.ListUpdate{Status: flagMALStatus}
		if cmd.Flags().Changed("score") {
			update.Score = &flagMALScore
		}
		if cmd.Flags().Changed("episodes") {
			update.WatchedEpisodes = &flagMALEps
		}

		status, err := c.UpdateListStatus(animeID, update)
		if err != nil {
			return err
		}
		return printJSON(status)
	},
}

var malSuggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Show personalized suggestions",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newAuthedMALClient()
		if err != nil {
			return err
		}
		results, err := c.Suggestions(flagMALLimit)
		if err != nil {
			return err
		}
		return emit(results, "mal-suggestions.json")
	},
}

func init() {
	malCmd.PersistentFlags().IntVar(&flagMALLimit, "limit", 10, "Result limit")
	malListCmd.Flags().StringVar(&flagMALStatus, "status", "", "watching | completed | on_hold | dropped | plan_to_watch")
	malUpdateCmd.Flags().StringVar(&flagMALStatus, "status", "", "watching | completed | on_hold | dropped | plan_to_watch")
	malUpdateCmd.Flags().IntVar(&flagMALScore, "score", 0, "Score 0-10")
	malUpdateCmd.Flags().IntVar(&flagMALEps, "episodes", 0, "Watched episode count")

	malCmd.AddCommand(malAuthCmd)
	malCmd.AddCommand(malLogoutCmd)
	malCmd.AddCommand(malSearchCmd)
	malCmd.AddCommand(malRankingCmd)
	malCmd.AddCommand(malSeasonalCmd)
	malCmd.AddCommand(malListCmd)
	malCmd.AddCommand(malUpdateCmd)
	malCmd.AddCommand(malSuggestCmd)

	rootCmd.AddCommand(malCmd)
}

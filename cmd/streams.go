package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Shalin-Shah-2002/Hianime-API/internal/extract"
	"github.com/Shalin-Shah-2002/Hianime-API/internal/httputil"
	"github.com/Shalin-Shah-2002/Hianime-API/internal/media"
	"github.com/Shalin-Shah-2002/Hianime-API/internal/stream"
	"github.com/Shalin-Shah-2002/Hianime-API/internal/subtitle"
)

var serversCmd = &cobra.Command{
	Use:   "servers <episode-id>",
	Short: "List streaming servers for an episode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		servers, err := newProvider().Servers(args[0])
		if err != nil {
			return fmt.Errorf("getting servers: %w", err)
		}
		if len(servers) == 0 {
			fmt.Println("No servers found.")
			return nil
		}
		return emit(servers, "servers-"+args[0]+".json")
	},
}

var streamsCmd = &cobra.Command{
	Use:   "streams <episode-id>",
	Short: "Resolve playable streaming links for an episode",
	Long: `Resolve every matching server for an episode into playable m3u8 links.
Each source carries the Referer/Origin headers its CDN requires; use the
per-source headers, not the stream-level defaults, when both are present.`,
	Args: cobra.ExactArgs(1),
	RunE: streamsRun,
}

func streamsRun(cmd *cobra.Command, args []string) error {
	serverType, err := media.ParseServerType(cfg.ServerType)
	if err != nil {
		return err
	}

	keys := extract.NewKeyCache(httputil.NewClient(), cfg.KeyURLs,
		time.Duration(cfg.KeyTTLMinutes)*time.Minute)
	resolver := extract.NewMegaCloudClient(httputil.NewClient(), keys)
	agg := stream.New(newProvider(), resolver)

	result, err := agg.Streams(args[0], serverType)
	if err != nil {
		return fmt.Errorf("resolving streams: %w", err)
	}

	if flagLanguage != "" {
		for i := range result.Streams {
			result.Streams[i].Tracks = subtitle.Filter(result.Streams[i].Tracks, cfg.SubsLanguage)
		}
	}

	return emit(result, "streams-"+args[0]+".json")
}

func init() {
	rootCmd.AddCommand(serversCmd)
	rootCmd.AddCommand(streamsCmd)
}

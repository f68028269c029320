// Package stream turns an episode ID into player-ready streaming links by
// fanning out over the episode's servers and resolving each one's embed.
package stream

import (
	"fmt"

	"github.com/Shalin-Shah-2002/Hianime-API/internal/extract"
	"github.com/Shalin-Shah-2002/Hianime-API/internal/httputil"
	"github.com/Shalin-Shah-2002/Hianime-API/internal/logger"
	"github.com/Shalin-Shah-2002/Hianime-API/internal/media"
)

// ServerSource lists an episode's servers and maps a server to its embed
// URL.
type ServerSource interface {
	Servers(episodeID string) ([]media.VideoServer, error)
	EmbedURL(serverID string) (string, error)
}

// Aggregator resolves every matching server for an episode.
type Aggregator struct {
	source   ServerSource
	resolver extract.Resolver
}

// New creates an aggregator over the given server source and resolver.
func New(source ServerSource, resolver extract.Resolver) *Aggregator {
	return &Aggregator{source: source, resolver: resolver}
}

// Streams resolves all servers of the requested type into playable
// streams. Servers are tried one at a time to keep request pacing polite;
// a server that fails to resolve is logged and dropped, never fatal. An
// episode where every server fails still returns a result, with
// TotalStreams zero and Message set.
func (a *Aggregator) Streams(episodeID string, filter media.ServerType) (*media.StreamResult, error) {
	if err := httputil.ValidateNumericID(episodeID); err != nil {
		return nil, fmt.Errorf("invalid episode ID: %w", err)
	}

	servers, err := a.source.Servers(episodeID)
	if err != nil {
		return nil, fmt.Errorf("listing servers for episode %s: %w", episodeID, err)
	}

	result := &media.StreamResult{
		EpisodeID:  episodeID,
		ServerType: filter,
	}

	for _, srv := range servers {
		if filter != media.All && srv.Type != filter {
			continue
		}

		embedURL, err := a.source.EmbedURL(srv.ID)
		if err != nil {
			logger.Log.Warn("skipping server, no embed URL",
				"server", srv.Name, "type", srv.Type, "error", err)
			continue
		}

		resolved, err := a.resolver.Resolve(embedURL)
		if err != nil {
			logger.Log.Warn("skipping server, resolve failed",
				"server", srv.Name, "type", srv.Type, "error", err)
			continue
		}

		result.Streams = append(result.Streams, media.ServerStreams{
			ServerName: srv.Name,
			ServerType: srv.Type,
			Sources:    resolved.Sources,
			Tracks:     resolved.Tracks,
			Intro:      resolved.Intro,
			Outro:      resolved.Outro,
			Headers:    resolved.Headers,
		})
		logger.Log.Debug("resolved server",
			"server", srv.Name, "sources", len(resolved.Sources))
	}

	result.TotalStreams = len(result.Streams)
	if result.TotalStreams == 0 {
		result.Message = "no servers yielded playable streams"
	}

	return result, nil
}

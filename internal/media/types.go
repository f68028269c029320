// Package media defines shared types for the hianime scraper.
package media

import "fmt"

// ServerType identifies the audio variant a streaming server offers.
type ServerType string

const (
	Sub ServerType = "sub"
	Dub ServerType = "dub"
	Raw ServerType = "raw"

	// All matches every server type when used as a filter.
	All ServerType = "all"
)

// ParseServerType validates a user-supplied server type string.
func ParseServerType(s string) (ServerType, error) {
	switch ServerType(s) {
	case Sub, Dub, Raw, All:
		return ServerType(s), nil
	}
	return "", fmt.Errorf("unknown server type %q (valid: sub, dub, raw, all)", s)
}

// SearchResult represents a single anime card from a search or listing page.
type SearchResult struct {
	ID          string `json:"id"`   // Numeric site ID (e.g., "677")
	Slug        string `json:"slug"` // Full slug (e.g., "naruto-677"), used for details/episodes
	Title       string `json:"title"`
	URL         string `json:"url"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Type        string `json:"type,omitempty"` // TV, Movie, OVA, ONA, Special
	Duration    string `json:"duration,omitempty"`
	EpisodesSub int    `json:"episodes_sub,omitempty"`
	EpisodesDub int    `json:"episodes_dub,omitempty"`
}

// AnimeInfo holds the full metadata parsed from an anime detail page.
type AnimeInfo struct {
	ID            string   `json:"id"`
	Slug          string   `json:"slug"`
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Thumbnail     string   `json:"thumbnail,omitempty"`
	Type          string   `json:"type,omitempty"`
	Duration      string   `json:"duration,omitempty"`
	Rating        string   `json:"rating,omitempty"` // PG-13, 18+, etc.
	Status        string   `json:"status,omitempty"` // Currently Airing, Finished Airing
	EpisodesSub   int      `json:"episodes_sub,omitempty"`
	EpisodesDub   int      `json:"episodes_dub,omitempty"`
	MALScore      float64  `json:"mal_score,omitempty"`
	Synopsis      string   `json:"synopsis,omitempty"`
	JapaneseTitle string   `json:"japanese_title,omitempty"`
	Synonyms      string   `json:"synonyms,omitempty"`
	Aired         string   `json:"aired,omitempty"`
	Premiered     string   `json:"premiered,omitempty"`
	Genres        []string `json:"genres,omitempty"`
	Studios       []string `json:"studios,omitempty"`
	Producers     []string `json:"producers,omitempty"`
}

// Episode represents one entry from the episode-list AJAX endpoint.
type Episode struct {
	Number        int    `json:"number"`
	Title         string `json:"title,omitempty"`
	URL           string `json:"url,omitempty"`
	ID            string `json:"id"` // Episode ID used to fetch servers (e.g., "2142")
	JapaneseTitle string `json:"japanese_title,omitempty"`
	Filler        bool   `json:"filler,omitempty"`
}

// VideoServer is one streaming backend offered for an episode.
// Ephemeral, parsed fresh per request from the servers AJAX endpoint.
type VideoServer struct {
	ID   string     `json:"server_id"`
	Name string     `json:"server_name"`
	Type ServerType `json:"server_type"`
}

// SkipRange marks an intro/outro segment in seconds from episode start.
type SkipRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// StreamSource is a single playable URL with the headers its CDN requires.
// Headers are resolved per source from the source's own URL: one episode's
// mirrors can live on different CDNs with different Referer allow-lists.
type StreamSource struct {
	URL     string            `json:"url"`
	Quality string            `json:"quality"`
	IsM3U8  bool              `json:"is_m3u8"`
	Host    string            `json:"host,omitempty"`
	Headers map[string]string `json:"headers"`
}

// SubtitleTrack is a caption/thumbnail track returned alongside sources.
type SubtitleTrack struct {
	URL     string `json:"url"`
	Label   string `json:"label"`
	Kind    string `json:"kind"`
	Default bool   `json:"default,omitempty"`
}

// ResolvedMedia is the outcome of resolving one embed URL: every source and
// track it serves, plus default playback headers for the embed's origin.
type ResolvedMedia struct {
	Sources []StreamSource    `json:"sources"`
	Tracks  []SubtitleTrack   `json:"tracks,omitempty"`
	Intro   *SkipRange        `json:"intro,omitempty"`
	Outro   *SkipRange        `json:"outro,omitempty"`
	Headers map[string]string `json:"headers"`
}

// ServerStreams is one server's resolved contribution to an aggregate result.
type ServerStreams struct {
	ServerName string            `json:"server_name"`
	ServerType ServerType        `json:"server_type"`
	Sources    []StreamSource    `json:"sources"`
	Tracks     []SubtitleTrack   `json:"subtitles,omitempty"`
	Intro      *SkipRange        `json:"intro,omitempty"`
	Outro      *SkipRange        `json:"outro,omitempty"`
	Headers    map[string]string `json:"headers"`
}

// StreamResult is the player-ready aggregate for one episode. A result with
// TotalStreams == 0 means no server yielded usable sources; that is not an
// error condition, and Message says so explicitly.
type StreamResult struct {
	EpisodeID    string          `json:"episode_id"`
	ServerType   ServerType      `json:"server_type"`
	TotalStreams int             `json:"total_streams"`
	Streams      []ServerStreams `json:"streams"`
	Message      string          `json:"message,omitempty"`
}

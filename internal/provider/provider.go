// Package provider implements scraping of the anime catalog: search,
// listings, detail pages, and the AJAX endpoints for episodes and
// streaming servers.
package provider

import (
	"fmt"

	"github.com/Shalin-Shah-2002/Hianime-API/internal/media"
)

// Provider is the interface the anime site backend must implement.
type Provider interface {
	// Search returns matching results for a keyword, one page at a time.
	Search(keyword string, page int) ([]media.SearchResult, error)

	// Filter returns results for an advanced filter query.
	Filter(opts FilterOptions, page int) ([]media.SearchResult, error)

	// Trending returns the homepage trending list.
	Trending() ([]media.SearchResult, error)

	// List returns one page of a named listing (most-popular, top-airing, ...).
	List(listing Listing, page int) ([]media.SearchResult, error)

	// ByGenre returns anime for a genre slug.
	ByGenre(genre string, page int) ([]media.SearchResult, error)

	// ByProducer returns anime for a producer/studio slug.
	ByProducer(slug string, page int) ([]media.SearchResult, error)

	// AZList returns the alphabetical listing for a letter ("all" for everything).
	AZList(letter string, page int) ([]media.SearchResult, error)

	// Details returns full metadata for an anime slug (e.g., "naruto-677").
	Details(slug string) (*media.AnimeInfo, error)

	// Episodes returns the episode list for an anime slug, sorted by number.
	Episodes(slug string) ([]media.Episode, error)

	// Servers returns the streaming servers available for an episode ID.
	Servers(episodeID string) ([]media.VideoServer, error)

	// EmbedURL returns the iframe embed reference for a server ID.
	EmbedURL(serverID string) (string, error)
}

// Listing names a simple paginated catalog page.
type Listing string

const (
	MostPopular     Listing = "most-popular"
	TopAiring       Listing = "top-airing"
	RecentlyUpdated Listing = "recently-updated"
	Completed       Listing = "completed"
	SubbedAnime     Listing = "subbed-anime"
	DubbedAnime     Listing = "dubbed-anime"
	Movies          Listing = "movie"
	TVSeries        Listing = "tv"
	OVAs            Listing = "ova"
	ONAs            Listing = "ona"
	Specials        Listing = "special"
)

// Listings enumerates every valid catalog listing.
var Listings = []Listing{
	MostPopular, TopAiring, RecentlyUpdated, Completed,
	SubbedAnime, DubbedAnime, Movies, TVSeries, OVAs, ONAs, Specials,
}

// ParseListing validates a user-supplied listing slug.
func ParseListing(s string) (Listing, error) {
	for _, l := range Listings {
		if Listing(s) == l {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown listing %q", s)
}

// FilterOptions mirror the site's /filter query parameters. Zero values are
// omitted from the request.
type FilterOptions struct {
	Type     string   // movie, tv, ova, ona, special, music
	Status   string   // finished, airing, upcoming
	Rated    string   // g, pg, pg-13, r, r+, rx
	Score    int      // minimum MAL score, 1-10
	Season   string   // spring, summer, fall, winter
	Language string   // sub, dub
	Genres   []string // genre slugs, comma-joined
	Sort     string   // default, recently_added, score, ...
}

// Package mal provides a client for the MyAnimeList v2 REST API. Public
// catalog endpoints need only a client ID; list operations need an OAuth2
// token (see auth.go).
package mal

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Shalin-Shah-2002/Hianime-API/internal/httputil"
)

const apiEndpoint = "https://api.myanimelist.net/v2"

const animeFields = "id,title,main_picture,alternative_titles,start_date,end_date," +
	"synopsis,mean,rank,popularity,num_episodes,status,genres,studios,source,rating,media_type"

// Client talks to the MyAnimeList API. The zero token limits it to public
// endpoints.
type Client struct {
	clientID string
	base     string
	http     *http.Client
	token    *Token
}

// NewClient creates a client for the public API using the given client ID.
func NewClient(clientID string) *Client {
	return &Client{
		clientID: clientID,
		base:     apiEndpoint,
		http:     httputil.NewClient(),
	}
}

// NewClientBase creates a client against a caller-supplied endpoint and
// HTTP client. Intended for tests.
func NewClientBase(clientID, base string, httpClient *http.Client) *Client {
	return &Client{clientID: clientID, base: base, http: httpClient}
}

// SetToken attaches an OAuth2 token, enabling the user-list endpoints.
func (c *Client) SetToken(t *Token) {
	c.token = t
}

// Authenticate loads the stored OAuth2 token from the system keyring.
func (c *Client) Authenticate() error {
	token, err := LoadToken()
	if err != nil {
		return fmt.Errorf("mal auth required: %w", err)
	}
	c.token = token
	return nil
}

// Picture is a MAL cover image in two sizes.
type Picture struct {
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

// Named is a MAL id/name pair (genres, studios).
type Named struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// AlternativeTitles holds a title's localized variants.
type AlternativeTitles struct {
	Synonyms []string `json:"synonyms,omitempty"`
	En       string   `json:"en,omitempty"`
	Ja       string   `json:"ja,omitempty"`
}

// Anime is a MAL anime node.
type Anime struct {
	ID                int                `json:"id"`
	Title             string             `json:"title"`
	MainPicture       *Picture           `json:"main_picture,omitempty"`
	AlternativeTitles *AlternativeTitles `json:"alternative_titles,omitempty"`
	StartDate         string             `json:"start_date,omitempty"`
	EndDate           string             `json:"end_date,omitempty"`
	Synopsis          string             `json:"synopsis,omitempty"`
	Mean              float64            `json:"mean,omitempty"`
	Rank              int                `json:"rank,omitempty"`
	Popularity        int                `json:"popularity,omitempty"`
	NumEpisodes       int                `json:"num_episodes,omitempty"`
	Status            string             `json:"status,omitempty"`
	Genres            []Named            `json:"genres,omitempty"`
	Studios           []Named            `json:"studios,omitempty"`
	Source            string             `json:"source,omitempty"`
	Rating            string             `json:"rating,omitempty"`
	MediaType         string             `json:"media_type,omitempty"`
	Background        string             `json:"background,omitempty"`
}

// listEnvelope is the paged wrapper around node lists.
type listEnvelope struct {
	Data []struct {
		Node    Anime `json:"node"`
		Ranking *struct {
			Rank int `json:"rank"`
		} `json:"ranking"`
	} `json:"data"`
}

// Search searches anime by title.
func (c *Client) Search(query string, limit, offset int) ([]Anime, error) {
	if query == "" {
		return nil, fmt.Errorf("empty search query")
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(clampLimit(limit, 100)))
	q.Set("offset", strconv.Itoa(max(offset, 0)))
	q.Set("fields", animeFields)

	body, err := c.get(c.base+"/anime?"+q.Encode(), false)
	if err != nil {
		return nil, fmt.Errorf("searching MAL for %q: %w", query, err)
	}

	return decodeNodes(body)
}

// Details returns full metadata for one anime by MAL ID.
func (c *Client) Details(animeID int) (*Anime, error) {
	if animeID <= 0 {
		return nil, fmt.Errorf("invalid anime ID %d", animeID)
	}

	q := url.Values{}
	q.Set("fields", animeFields+",background")

	body, err := c.get(fmt.Sprintf("%s/anime/%d?%s", c.base, animeID, q.Encode()), false)
	if err != nil {
		return nil, fmt.Errorf("fetching MAL anime %d: %w", animeID, err)
	}

	var anime Anime
	if err := json.Unmarshal(body, &anime); err != nil {
		return nil, fmt.Errorf("parsing anime details: %w", err)
	}
	return &anime, nil
}

// Ranking returns ranked anime. rankingType: all, airing, upcoming, tv,
// ova, movie, special, bypopularity, favorite.
func (c *Client) Ranking(rankingType string, limit int) ([]Anime, error) {
	if rankingType == "" {
		rankingType = "all"
	}

	q := url.Values{}
	q.Set("ranking_type", rankingType)
	q.Set("limit", strconv.Itoa(clampLimit(limit, 500)))
	q.Set("fields", animeFields)

	body, err := c.get(c.base+"/anime/ranking?"+q.Encode(), false)
	if err != nil {
		return nil, fmt.Errorf("fetching MAL ranking %q: %w", rankingType, err)
	}

	return decodeNodes(body)
}

// Seasonal returns anime for a season. season: winter, spring, summer,
// fall.
func (c *Client) Seasonal(year int, season string, limit int) ([]Anime, error) {
	switch season {
	case "winter", "spring", "summer", "fall":
	default:
		return nil, fmt.Errorf("invalid season %q (winter, spring, summer, fall)", season)
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(clampLimit(limit, 500)))
	q.Set("fields", animeFields)

	body, err := c.get(fmt.Sprintf("%s/anime/season/%d/%s?%s", c.base, year, season, q.Encode()), false)
	if err != nil {
		return nil, fmt.Errorf("fetching MAL season %d/%s: %w", year, season, err)
	}

	return decodeNodes(body)
}

// get performs a GET with client-ID or bearer auth depending on authed.
func (c *Client) get(rawURL string, authed bool) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if authed {
		if c.token == nil {
			return nil, fmt.Errorf("not authenticated")
		}
		req.Header.Set("Authorization", "Bearer "+c.token.AccessToken)
	} else {
		if c.clientID == "" {
			return nil, fmt.Errorf("no MAL client ID configured")
		}
		req.Header.Set("X-MAL-CLIENT-ID", c.clientID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("unauthorized (token expired?)")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 200))
	}

	return body, nil
}

func decodeNodes(body []byte) ([]Anime, error) {
	var env listEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	anime := make([]Anime, 0, len(env.Data))
	for _, item := range env.Data {
		node := item.Node
		if item.Ranking != nil {
			node.Rank = item.Ranking.Rank
		}
		anime = append(anime, node)
	}
	return anime, nil
}

func clampLimit(limit, ceil int) int {
	if limit < 1 {
		return 10
	}
	if limit > ceil {
		return ceil
	}
	return limit
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

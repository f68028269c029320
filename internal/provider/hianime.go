package provider

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Shalin-Shah-2002/Hianime-API/internal/httputil"
	"github.com/Shalin-Shah-2002/Hianime-API/internal/logger"
	"github.com/Shalin-Shah-2002/Hianime-API/internal/media"
)

// HiAnime implements Provider for the hianime catalog.
type HiAnime struct {
	base    string // site host, e.g. "hianime.to"
	client  *http.Client
	limiter *httputil.Limiter
}

// NewHiAnime creates a provider for the given site host.
func NewHiAnime(base string) *HiAnime {
	return &HiAnime{
		base:    base,
		client:  httputil.NewClient(),
		limiter: httputil.NewLimiter(1*time.Second, 3*time.Second),
	}
}

// NewHiAnimeClient creates a provider using a caller-supplied HTTP client and
// no rate limiting. Intended for tests and embedding callers that manage
// their own pacing.
func NewHiAnimeClient(base string, client *http.Client) *HiAnime {
	return &HiAnime{base: base, client: client}
}

func (h *HiAnime) baseURL() string {
	return "https://" + h.base
}

// Search returns matching results for a keyword.
func (h *HiAnime) Search(keyword string, page int) ([]media.SearchResult, error) {
	q := url.Values{}
	q.Set("keyword", keyword)
	q.Set("page", strconv.Itoa(pageOrFirst(page)))

	doc, err := h.fetchDocument(h.baseURL() + "/search?" + q.Encode())
	if err != nil {
		return nil, fmt.Errorf("searching for %q: %w", keyword, err)
	}

	results := parseAnimeList(doc, h.baseURL())
	logger.Log.Debug("search complete", "keyword", keyword, "results", len(results))
	return results, nil
}

// Filter returns results for an advanced filter query.
func (h *HiAnime) Filter(opts FilterOptions, page int) ([]media.SearchResult, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(pageOrFirst(page)))
	if opts.Type != "" {
		q.Set("type", opts.Type)
	}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.Rated != "" {
		q.Set("rated", opts.Rated)
	}
	if opts.Score > 0 {
		q.Set("score", strconv.Itoa(opts.Score))
	}
	if opts.Season != "" {
		q.Set("season", opts.Season)
	}
	if opts.Language != "" {
		q.Set("language", opts.Language)
	}
	if len(opts.Genres) > 0 {
		q.Set("genres", strings.Join(opts.Genres, ","))
	}
	if opts.Sort != "" {
		q.Set("sort", opts.Sort)
	}

	doc, err := h.fetchDocument(h.baseURL() + "/filter?" + q.Encode())
	if err != nil {
		return nil, fmt.Errorf("filtering: %w", err)
	}

	return parseAnimeList(doc, h.baseURL()), nil
}

// Trending returns the homepage trending list.
func (h *HiAnime) Trending() ([]media.SearchResult, error) {
	doc, err := h.fetchDocument(h.baseURL() + "/home")
	if err != nil {
		return nil, fmt.Errorf("getting trending: %w", err)
	}

	return parseTrending(doc, h.baseURL()), nil
}

// List returns one page of a named listing.
func (h *HiAnime) List(listing Listing, page int) ([]media.SearchResult, error) {
	doc, err := h.fetchDocument(fmt.Sprintf("%s/%s?page=%d", h.baseURL(), listing, pageOrFirst(page)))
	if err != nil {
		return nil, fmt.Errorf("getting %s listing: %w", listing, err)
	}

	return parseAnimeList(doc, h.baseURL()), nil
}

// ByGenre returns anime for a genre slug.
func (h *HiAnime) ByGenre(genre string, page int) ([]media.SearchResult, error) {
	if err := httputil.ValidateID(genre); err != nil {
		return nil, fmt.Errorf("invalid genre: %w", err)
	}

	doc, err := h.fetchDocument(fmt.Sprintf("%s/genre/%s?page=%d", h.baseURL(), url.PathEscape(genre), pageOrFirst(page)))
	if err != nil {
		return nil, fmt.Errorf("getting genre %s: %w", genre, err)
	}

	return parseAnimeList(doc, h.baseURL()), nil
}

// ByProducer returns anime for a producer/studio slug.
func (h *HiAnime) ByProducer(slug string, page int) ([]media.SearchResult, error) {
	if err := httputil.ValidateID(slug); err != nil {
		return nil, fmt.Errorf("invalid producer: %w", err)
	}

	doc, err := h.fetchDocument(fmt.Sprintf("%s/producer/%s?page=%d", h.baseURL(), url.PathEscape(slug), pageOrFirst(page)))
	if err != nil {
		return nil, fmt.Errorf("getting producer %s: %w", slug, err)
	}

	return parseAnimeList(doc, h.baseURL()), nil
}

// AZList returns the alphabetical listing for a letter, or everything for "all".
func (h *HiAnime) AZList(letter string, page int) ([]media.SearchResult, error) {
	pageURL := h.baseURL() + "/az-list"
	if !strings.EqualFold(letter, "all") && letter != "" {
		pageURL += "/" + url.PathEscape(strings.ToUpper(letter))
	}
	pageURL += fmt.Sprintf("?page=%d", pageOrFirst(page))

	doc, err := h.fetchDocument(pageURL)
	if err != nil {
		return nil, fmt.Errorf("getting az-list: %w", err)
	}

	return parseAnimeList(doc, h.baseURL()), nil
}

// Details returns full metadata for an anime slug.
func (h *HiAnime) Details(slug string) (*media.AnimeInfo, error) {
	if err := httputil.ValidateID(slug); err != nil {
		return nil, fmt.Errorf("invalid anime slug: %w", err)
	}
	if extractAnimeID(slug) == "" {
		return nil, fmt.Errorf("slug %q has no trailing numeric ID (expected e.g. \"naruto-677\")", slug)
	}

	pageURL := h.baseURL() + "/" + url.PathEscape(slug)
	doc, err := h.fetchDocument(pageURL)
	if err != nil {
		return nil, fmt.Errorf("getting details for %s: %w", slug, err)
	}

	return parseAnimeDetails(doc, pageURL), nil
}

// Episodes returns the episode list for an anime slug, sorted by number.
func (h *HiAnime) Episodes(slug string) ([]media.Episode, error) {
	animeID := extractAnimeID(slug)
	if animeID == "" {
		return nil, fmt.Errorf("could not extract anime ID from %q", slug)
	}

	doc, err := h.fetchAJAX(fmt.Sprintf("%s/ajax/v2/episode/list/%s", h.baseURL(), animeID))
	if err != nil {
		return nil, fmt.Errorf("getting episodes for %s: %w", slug, err)
	}

	episodes := parseEpisodes(doc, h.baseURL())
	logger.Log.Debug("episode list fetched", "slug", slug, "episodes", len(episodes))
	return episodes, nil
}

// Servers returns the streaming servers available for an episode ID.
func (h *HiAnime) Servers(episodeID string) ([]media.VideoServer, error) {
	if err := httputil.ValidateNumericID(episodeID); err != nil {
		return nil, fmt.Errorf("invalid episode ID: %w", err)
	}

	doc, err := h.fetchAJAX(fmt.Sprintf("%s/ajax/v2/episode/servers?episodeId=%s", h.baseURL(), url.QueryEscape(episodeID)))
	if err != nil {
		return nil, fmt.Errorf("getting servers for episode %s: %w", episodeID, err)
	}

	servers := parseServers(doc)
	logger.Log.Debug("server list fetched", "episode", episodeID, "servers", len(servers))
	return servers, nil
}

// EmbedURL returns the iframe embed reference for a server ID.
func (h *HiAnime) EmbedURL(serverID string) (string, error) {
	if err := httputil.ValidateNumericID(serverID); err != nil {
		return "", fmt.Errorf("invalid server ID: %w", err)
	}

	h.limiter.Wait()
	body, err := httputil.GetJSON(h.client,
		fmt.Sprintf("%s/ajax/v2/episode/sources?id=%s", h.baseURL(), url.QueryEscape(serverID)),
		h.baseURL()+"/watch/")
	if err != nil {
		return "", fmt.Errorf("getting embed URL for server %s: %w", serverID, err)
	}

	var result struct {
		Link string `json:"link"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parsing embed response: %w", err)
	}

	if result.Link == "" {
		return "", fmt.Errorf("no embed link for server %s", serverID)
	}

	return result.Link, nil
}

// fetchDocument fetches a catalog page and parses it into a goquery Document.
func (h *HiAnime) fetchDocument(pageURL string) (*goquery.Document, error) {
	h.limiter.Wait()

	resp, err := httputil.Get(h.client, pageURL, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	return doc, nil
}

// ajaxEnvelope is the JSON wrapper the /ajax endpoints put around an HTML
// fragment.
type ajaxEnvelope struct {
	Status bool   `json:"status"`
	HTML   string `json:"html"`
	Msg    string `json:"msg"`
}

// fetchAJAX fetches a JSON-wrapped HTML fragment and parses the fragment.
func (h *HiAnime) fetchAJAX(endpoint string) (*goquery.Document, error) {
	h.limiter.Wait()

	body, err := httputil.GetJSON(h.client, endpoint, h.baseURL()+"/watch/")
	if err != nil {
		return nil, err
	}

	var env ajaxEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("parsing AJAX envelope: %w", err)
	}

	if !env.Status {
		if env.Msg != "" {
			return nil, fmt.Errorf("AJAX request rejected: %s", env.Msg)
		}
		return nil, fmt.Errorf("AJAX request rejected")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(env.HTML))
	if err != nil {
		return nil, fmt.Errorf("parsing AJAX fragment: %w", err)
	}

	return doc, nil
}

func pageOrFirst(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

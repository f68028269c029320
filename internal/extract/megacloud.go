package extract

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Shalin-Shah-2002/Hianime-API/internal/httputil"
	"github.com/Shalin-Shah-2002/Hianime-API/internal/logger"
	"github.com/Shalin-Shah-2002/Hianime-API/internal/media"
)

const (
	// siteReferer is required on the embed page request; without it the
	// server returns a decoy page with no client key.
	siteReferer = "https://hianime.to/"

	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"
)

// MegaCloudResolver resolves MegaCloud-family embed URLs into playable
// streams by extracting the per-request client key and calling getSources.
type MegaCloudResolver struct {
	client *http.Client
	keys   *KeyCache
}

// NewMegaCloud creates a resolver with default HTTP client and key cache.
func NewMegaCloud() *MegaCloudResolver {
	client := httputil.NewClient()
	return &MegaCloudResolver{
		client: client,
		keys:   NewKeyCache(client, nil, DefaultKeyTTL),
	}
}

// NewMegaCloudClient creates a resolver using a caller-supplied client and
// key cache.
func NewMegaCloudClient(client *http.Client, keys *KeyCache) *MegaCloudResolver {
	return &MegaCloudResolver{client: client, keys: keys}
}

// sourcesPayload is the JSON from the getSources endpoint. Sources stays
// raw because it is either an array of objects or an encrypted string.
type sourcesPayload struct {
	Sources   json.RawMessage  `json:"sources"`
	Tracks    []wireTrack      `json:"tracks"`
	Encrypted bool             `json:"encrypted"`
	Intro     *media.SkipRange `json:"intro"`
	Outro     *media.SkipRange `json:"outro"`
}

type wireTrack struct {
	File    string `json:"file"`
	URL     string `json:"url"`
	Label   string `json:"label"`
	Kind    string `json:"kind"`
	Default bool   `json:"default"`
}

// wireSource tolerates both naming conventions the endpoint has used.
type wireSource struct {
	File    string `json:"file"`
	URL     string `json:"url"`
	Quality string `json:"quality"`
	Type    string `json:"type"`
}

// Resolve fetches the embed page, extracts the client key, calls
// getSources, decrypts if needed, and maps every source to its playable
// URL with the headers its CDN requires.
func (m *MegaCloudResolver) Resolve(embedURL string) (*media.ResolvedMedia, error) {
	if err := httputil.ValidateURL(embedURL); err != nil {
		return nil, fmt.Errorf("invalid embed URL: %w", err)
	}

	baseURL, prefix, videoID, err := parseEmbedURL(embedURL)
	if err != nil {
		return nil, fmt.Errorf("parsing embed URL: %w", err)
	}

	html, err := m.fetchHTML(embedURL, siteReferer)
	if err != nil {
		return nil, fmt.Errorf("fetching embed page: %w", err)
	}

	clientKey, err := extractClientKey(html)
	if err != nil {
		return nil, fmt.Errorf("extracting client key: %w", err)
	}
	logger.Log.Debug("extracted client key", "prefix", clientKey[:8])

	getSourcesURL := fmt.Sprintf("%s%s/getSources?id=%s&_k=%s",
		baseURL, prefix, url.QueryEscape(videoID), url.QueryEscape(clientKey))

	body, err := m.fetchJSON(getSourcesURL, embedURL)
	if err != nil {
		return nil, fmt.Errorf("fetching sources: %w", err)
	}

	var payload sourcesPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parsing sources response: %w", err)
	}
	if len(payload.Sources) == 0 || string(payload.Sources) == "null" {
		return nil, fmt.Errorf("no sources field in response")
	}

	sources, err := m.decodeSources(payload)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("sources list is empty")
	}

	result := &media.ResolvedMedia{
		Intro: payload.Intro,
		Outro: payload.Outro,
		Headers: map[string]string{
			"Referer":    baseURL + "/",
			"User-Agent": defaultUserAgent,
		},
	}

	for _, src := range sources {
		streamURL := src.URL
		if streamURL == "" {
			streamURL = src.File
		}
		if streamURL == "" {
			continue
		}

		quality := src.Quality
		if quality == "" {
			quality = "auto"
		}

		referer := refererFor(streamURL, embedURL)
		result.Sources = append(result.Sources, media.StreamSource{
			URL:     streamURL,
			Quality: quality,
			IsM3U8:  strings.Contains(streamURL, ".m3u8"),
			Host:    hostOf(streamURL),
			Headers: map[string]string{
				"Referer":    referer,
				"Origin":     strings.TrimSuffix(referer, "/"),
				"User-Agent": defaultUserAgent,
			},
		})
	}

	for _, t := range payload.Tracks {
		trackURL := t.File
		if trackURL == "" {
			trackURL = t.URL
		}
		if trackURL == "" {
			continue
		}

		label := t.Label
		if label == "" {
			label = "Unknown"
		}
		kind := t.Kind
		if kind == "" {
			kind = "captions"
		}

		result.Tracks = append(result.Tracks, media.SubtitleTrack{
			URL:     trackURL,
			Label:   label,
			Kind:    kind,
			Default: t.Default,
		})
	}

	logger.Log.Debug("resolve complete",
		"sources", len(result.Sources), "tracks", len(result.Tracks))
	return result, nil
}

// decodeSources unwraps the sources field, decrypting when the payload is
// encrypted. A string-typed sources value is treated as encrypted even
// without the flag. Decryption failure invalidates the cached passphrase
// since it usually means the key rotated.
func (m *MegaCloudResolver) decodeSources(payload sourcesPayload) ([]wireSource, error) {
	var encrypted string
	if err := json.Unmarshal(payload.Sources, &encrypted); err == nil {
		passphrase, err := m.keys.Get()
		if err != nil {
			return nil, fmt.Errorf("fetching decryption key: %w", err)
		}

		plaintext, err := decryptCryptoJS(encrypted, passphrase)
		if err != nil {
			m.keys.Invalidate()
			return nil, fmt.Errorf("decrypting sources: %w", err)
		}

		var sources []wireSource
		if err := json.Unmarshal([]byte(plaintext), &sources); err != nil {
			m.keys.Invalidate()
			return nil, fmt.Errorf("parsing decrypted sources: %w", err)
		}
		return sources, nil
	}

	if payload.Encrypted {
		return nil, fmt.Errorf("encrypted flag set but sources is not a string")
	}

	var sources []wireSource
	if err := json.Unmarshal(payload.Sources, &sources); err != nil {
		return nil, fmt.Errorf("parsing plaintext sources: %w", err)
	}
	return sources, nil
}

// parseEmbedURL splits an embed URL into origin, path prefix, and video ID.
// Example: https://megacloud.blog/embed-2/v2/e-1/abc123?k=1
// -> ("https://megacloud.blog", "/embed-2/v2/e-1", "abc123")
func parseEmbedURL(embedURL string) (baseURL, prefix, videoID string, err error) {
	u, err := url.Parse(embedURL)
	if err != nil {
		return "", "", "", fmt.Errorf("parsing URL: %w", err)
	}
	if u.Host == "" {
		return "", "", "", fmt.Errorf("no host in %q", embedURL)
	}

	baseURL = u.Scheme + "://" + u.Host

	path := strings.TrimSuffix(u.Path, "/")
	idx := strings.LastIndex(path, "/")
	if idx < 0 || path[idx+1:] == "" {
		return "", "", "", fmt.Errorf("could not extract video ID from %q", embedURL)
	}

	return baseURL, path[:idx], path[idx+1:], nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// fetchHTML fetches the embed page with browser-like headers.
func (m *MegaCloudResolver) fetchHTML(pageURL, referer string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Referer", referer)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5*1024*1024))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	return string(body), nil
}

// fetchJSON calls the getSources endpoint XHR-style, with the embed URL as
// Referer.
func (m *MegaCloudResolver) fetchJSON(apiURL, referer string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Referer", referer)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return body, nil
}

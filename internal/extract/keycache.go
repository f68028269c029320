package extract

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Shalin-Shah-2002/Hianime-API/internal/logger"
)

// defaultKeyURLs are the community-maintained passphrase registries,
// primary first.
var defaultKeyURLs = []string{
	"https://raw.githubusercontent.com/itzzzme/megacloud-keys/main/key.txt",
	"https://raw.githubusercontent.com/itzzzme/megacloud-keys/refs/heads/main/key.txt",
}

// DefaultKeyTTL is how long a fetched passphrase stays fresh.
const DefaultKeyTTL = time.Hour

// minInvalidateAge guards against invalidation storms: a key younger than
// this is assumed fresh even when a decrypt just failed, since the registry
// cannot rotate faster than it is polled.
const minInvalidateAge = time.Minute

// KeyCache caches the AES passphrase used to decrypt MegaCloud sources.
// The passphrase rotates server-side; registries publish the current one.
type KeyCache struct {
	urls  []string
	ttl   time.Duration
	now   func() time.Time
	fetch func(url string) (string, error)

	mu        sync.Mutex
	key       string
	fetchedAt time.Time
}

// NewKeyCache creates a cache fetching from the given registry URLs in
// order. Empty urls falls back to the default registries; ttl <= 0 falls
// back to DefaultKeyTTL.
func NewKeyCache(client *http.Client, urls []string, ttl time.Duration) *KeyCache {
	if len(urls) == 0 {
		urls = defaultKeyURLs
	}
	if ttl <= 0 {
		ttl = DefaultKeyTTL
	}
	return &KeyCache{
		urls:  urls,
		ttl:   ttl,
		now:   time.Now,
		fetch: func(url string) (string, error) { return fetchKey(client, url) },
	}
}

// Get returns the cached passphrase, fetching a fresh one when the cache
// is empty or past its TTL. Registries are tried in order; the first
// non-empty response wins.
func (c *KeyCache) Get() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.key != "" && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.key, nil
	}

	var lastErr error
	for _, u := range c.urls {
		key, err := c.fetch(u)
		if err != nil {
			logger.Log.Debug("key registry fetch failed", "url", u, "error", err)
			lastErr = err
			continue
		}
		logger.Log.Debug("fetched decryption key", "url", u, "length", len(key))
		c.key = key
		c.fetchedAt = c.now()
		return key, nil
	}

	if lastErr != nil {
		return "", fmt.Errorf("fetching decryption key: %w", lastErr)
	}
	return "", fmt.Errorf("no key registry configured")
}

// Invalidate drops the cached passphrase so the next Get refetches.
// Called after a decryption failure, which usually means the passphrase
// rotated. Keys younger than minInvalidateAge are kept.
func (c *KeyCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.key == "" {
		return
	}
	if c.now().Sub(c.fetchedAt) < minInvalidateAge {
		return
	}
	c.key = ""
	c.fetchedAt = time.Time{}
}

// Seed installs a passphrase directly, bypassing the registries.
func (c *KeyCache) Seed(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = key
	c.fetchedAt = c.now()
}

// fetchKey fetches one registry URL and returns the trimmed body.
// Registry URLs come from configuration, not user input, so this does not
// go through the hardened site-request path.
func fetchKey(client *http.Client, url string) (string, error) {
	resp, err := client.Get(url)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	key := strings.TrimSpace(string(body))
	if key == "" {
		return "", fmt.Errorf("registry returned empty key")
	}
	return key, nil
}

package extract

import (
	"net/url"
	"strings"
)

// refererRule maps a CDN hostname fragment to the Referer that CDN's
// allow-list accepts. Order matters: specific families before the generic
// catch-all patterns.
type refererRule struct {
	pattern string
	referer string
}

var refererRules = []refererRule{
	// MegaCloud family
	{"megacloud", "https://megacloud.blog/"},
	{"rapid-cloud", "https://rapid-cloud.co/"},
	{"rabbitstream", "https://rabbitstream.net/"},

	// Vidplay/Vidstream family
	{"vidplay", "https://vidplay.site/"},
	{"vidstream", "https://vidstream.pro/"},
	{"mcloud", "https://mcloud.to/"},

	// FileMoon family
	{"filemoon", "https://filemoon.sx/"},

	// Rotating MegaCloud edge names
	{"sunburst", "https://megacloud.blog/"},
	{"rainveil", "https://megacloud.blog/"},
	{"brstorm", "https://megacloud.blog/"},
	{"binanime", "https://megacloud.blog/"},

	// Generic CDN patterns
	{"cdn.", "https://megacloud.blog/"},
	{"cache", "https://megacloud.blog/"},
	{"hls", "https://megacloud.blog/"},
}

// refererFor picks the Referer a CDN requires for a stream URL. Each rule
// is checked against the stream URL first, then the embed URL. With no
// match the embed URL's own origin is used.
func refererFor(streamURL, embedURL string) string {
	streamLower := strings.ToLower(streamURL)
	embedLower := strings.ToLower(embedURL)

	for _, rule := range refererRules {
		if strings.Contains(streamLower, rule.pattern) || strings.Contains(embedLower, rule.pattern) {
			return rule.referer
		}
	}

	if u, err := url.Parse(embedURL); err == nil && u.Scheme != "" && u.Host != "" {
		return u.Scheme + "://" + u.Host + "/"
	}
	return "https://megacloud.blog/"
}

package extract

import (
	"errors"
	"regexp"
	"strings"
)

// clientKeyLen is the exact length of a valid client key. Matches of any
// other length are rejected and extraction falls through to the next
// pattern.
const clientKeyLen = 48

// ErrKeyNotFound means no obfuscation pattern yielded a valid client key.
var ErrKeyNotFound = errors.New("no client key found in embed HTML")

// The embed server hides the per-request client key using one of several
// obfuscation formats, picked at random per request:
//
//	1: <meta name="_gg_fb" content="{KEY}">
//	2: <!-- _is_th:{KEY} -->
//	3: <script>window._lk_db = {x: "P1", y: "P2", z: "P3"};</script>
//	4: <div data-dpi="{KEY}" ...></div>
//	5: <script nonce="{KEY}">
//	6: <script>window._xy_ws = '{KEY}';</script>
var (
	metaKeyRe    = regexp.MustCompile(`<meta\s+name="_gg_fb"\s+content="([a-zA-Z0-9]+)"`)
	commentKeyRe = regexp.MustCompile(`<!--\s+_is_th:([0-9a-zA-Z]+)\s+-->`)
	lkDBKeyRe    = regexp.MustCompile(`window\._lk_db\s*=\s*\{x:\s*"([a-zA-Z0-9]+)",\s*y:\s*"([a-zA-Z0-9]+)",\s*z:\s*"([a-zA-Z0-9]+)"\}`)
	dpiKeyRe     = regexp.MustCompile(`<div\s+data-dpi="([0-9a-zA-Z]+)"`)
	nonceKeyRe   = regexp.MustCompile(`<script\s+nonce="([0-9a-zA-Z]+)"`)
	xyWSKeyRe    = regexp.MustCompile(`window\._xy_ws\s*=\s*['"]([0-9a-zA-Z]+)['"]`)

	quotedKeyRe = regexp.MustCompile(`"([a-zA-Z0-9]{48})"`)
)

// extractClientKey extracts the 48-character client key from embed page
// HTML. Patterns are tried in a fixed priority order; a match with the
// wrong length does not stop the search.
func extractClientKey(html string) (string, error) {
	singles := []*regexp.Regexp{metaKeyRe, commentKeyRe}
	for _, re := range singles {
		if key := firstGroup(re, html); len(key) == clientKeyLen {
			return key, nil
		}
	}

	// Pattern 3 splits the key into three 16-char parts.
	if m := lkDBKeyRe.FindStringSubmatch(html); m != nil {
		key := m[1] + m[2] + m[3]
		if len(key) == clientKeyLen {
			return key, nil
		}
	}

	for _, re := range []*regexp.Regexp{dpiKeyRe, nonceKeyRe, xyWSKeyRe} {
		if key := firstGroup(re, html); len(key) == clientKeyLen {
			return key, nil
		}
	}

	if key := scanQuotedKey(html); key != "" {
		return key, nil
	}

	return "", ErrKeyNotFound
}

func firstGroup(re *regexp.Regexp, html string) string {
	m := re.FindStringSubmatch(html)
	if m == nil {
		return ""
	}
	return m[1]
}

// scanQuotedKey is the last-resort scan: any quoted 48-char alphanumeric
// run qualifies, unless it already appears in the document head before the
// first script tag (those are asset hashes, not keys).
func scanQuotedKey(html string) string {
	leading, _, _ := strings.Cut(html, "<script")
	for _, m := range quotedKeyRe.FindAllStringSubmatch(html, -1) {
		if !strings.Contains(leading, m[1]) {
			return m[1]
		}
	}
	return ""
}

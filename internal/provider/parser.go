package provider

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Shalin-Shah-2002/Hianime-API/internal/media"
)

var (
	animeIDRe = regexp.MustCompile(`-(\d+)(?:\?|$)`)
	pageNumRe = regexp.MustCompile(`page=(\d+)`)
)

// extractAnimeID pulls the trailing numeric ID from a slug or URL path.
// e.g., "naruto-677" -> "677", "/one-piece-100?ref=search" -> "100".
func extractAnimeID(s string) string {
	m := animeIDRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}

// extractSlug returns the last path segment without query parameters.
// e.g., "/naruto-677?ref=search" -> "naruto-677".
func extractSlug(href string) string {
	parts := strings.Split(href, "/")
	last := parts[len(parts)-1]
	if idx := strings.Index(last, "?"); idx != -1 {
		last = last[:idx]
	}
	return last
}

// cleanText collapses whitespace runs and trims the result.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// parseEpisodeCount pulls the leading number out of an episode-count badge.
// Badges sometimes repeat the number ("220 220").
func parseEpisodeCount(s string) int {
	for _, field := range strings.Fields(s) {
		if n, err := strconv.Atoi(field); err == nil {
			return n
		}
	}
	return 0
}

// absoluteURL joins a relative href onto the site base.
func absoluteURL(base, href string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	return base + href
}

// parseAnimeList extracts anime cards from a search or listing page.
func parseAnimeList(doc *goquery.Document, base string) []media.SearchResult {
	var results []media.SearchResult

	doc.Find(".flw-item").Each(func(_ int, s *goquery.Selection) {
		if r, ok := parseAnimeCard(s, base); ok {
			results = append(results, r)
		}
	})

	return results
}

// parseAnimeCard extracts one .flw-item card.
func parseAnimeCard(s *goquery.Selection, base string) (media.SearchResult, bool) {
	link := s.Find(".film-name a")
	title := cleanText(link.Text())
	href, _ := link.Attr("href")
	if title == "" || href == "" {
		return media.SearchResult{}, false
	}

	result := media.SearchResult{
		Title: title,
		URL:   absoluteURL(base, href),
		ID:    extractAnimeID(href),
		Slug:  extractSlug(href),
	}

	if img := s.Find(".film-poster img"); img.Length() > 0 {
		// Lazy-loaded posters keep the real URL in data-src.
		result.Thumbnail = img.AttrOr("data-src", img.AttrOr("src", ""))
	}

	result.Type = cleanText(s.Find(".fdi-item").First().Text())
	result.Duration = cleanText(s.Find(".fdi-duration").First().Text())
	result.EpisodesSub = parseEpisodeCount(s.Find(".tick-sub").Text())
	result.EpisodesDub = parseEpisodeCount(s.Find(".tick-dub").Text())

	return result, true
}

// parseTrending extracts the homepage trending carousel. The section lives in
// #trending-home; older page layouts use .trending-block.
func parseTrending(doc *goquery.Document, base string) []media.SearchResult {
	section := doc.Find("#trending-home")
	if section.Length() == 0 {
		section = doc.Find(".trending-block")
	}
	if section.Length() == 0 {
		return nil
	}

	items := section.Find(".swiper-slide .item")
	if items.Length() == 0 {
		items = section.Find(".item")
	}

	var results []media.SearchResult
	items.Each(func(_ int, s *goquery.Selection) {
		link := s.Find("a.film-poster")
		if link.Length() == 0 {
			link = s.Find("a").First()
		}
		href, _ := link.Attr("href")
		if href == "" {
			return
		}

		titleSel := s.Find(".film-name a, .number .film-title")
		if titleSel.Length() == 0 {
			titleSel = s.Find(".film-name, .film-title")
		}
		title := cleanText(titleSel.First().Text())

		slug := extractSlug(href)
		if title == "" || slug == "" {
			return
		}

		result := media.SearchResult{
			Title: title,
			URL:   absoluteURL(base, href),
			ID:    extractAnimeID(href),
			Slug:  slug,
		}
		if img := s.Find("img").First(); img.Length() > 0 {
			result.Thumbnail = img.AttrOr("data-src", img.AttrOr("src", ""))
		}
		result.EpisodesSub = parseEpisodeCount(s.Find(".tick-sub").Text())
		result.EpisodesDub = parseEpisodeCount(s.Find(".tick-dub").Text())

		results = append(results, result)
	})

	return results
}

// parseAnimeDetails extracts the full metadata from an anime detail page.
func parseAnimeDetails(doc *goquery.Document, pageURL string) *media.AnimeInfo {
	info := &media.AnimeInfo{
		ID:    extractAnimeID(pageURL),
		Slug:  extractSlug(pageURL),
		URL:   pageURL,
		Title: cleanText(doc.Find(".film-name").First().Text()),
	}

	info.Synopsis = cleanText(doc.Find(".film-description .text").First().Text())
	info.Type = cleanText(doc.Find(".film-stats .item").First().Text())
	info.Rating = cleanText(doc.Find(".tick-pg").First().Text())
	info.EpisodesSub = parseEpisodeCount(doc.Find(".tick-sub").First().Text())
	info.EpisodesDub = parseEpisodeCount(doc.Find(".tick-dub").First().Text())

	if img := doc.Find(".film-poster img").First(); img.Length() > 0 {
		info.Thumbnail = img.AttrOr("src", "")
	}

	doc.Find(".anisc-info .item").Each(func(_ int, s *goquery.Selection) {
		label := strings.ToLower(cleanText(s.Find(".item-head").Text()))
		value := cleanText(s.Find(".name").First().Text())

		switch {
		case strings.Contains(label, "japanese"):
			info.JapaneseTitle = value
		case strings.Contains(label, "synonyms"):
			info.Synonyms = value
		case strings.Contains(label, "aired"):
			info.Aired = value
		case strings.Contains(label, "premiered"):
			info.Premiered = value
		case strings.Contains(label, "status"):
			info.Status = value
		case strings.Contains(label, "mal score"):
			if score, err := strconv.ParseFloat(value, 64); err == nil {
				info.MALScore = score
			}
		case strings.Contains(label, "duration"):
			info.Duration = value
		case strings.Contains(label, "genres"):
			info.Genres = collectLinks(s)
		case strings.Contains(label, "studios"):
			info.Studios = collectLinks(s)
		case strings.Contains(label, "producers"):
			info.Producers = collectLinks(s)
		}
	})

	return info
}

func collectLinks(s *goquery.Selection) []string {
	var out []string
	s.Find("a").Each(func(_ int, a *goquery.Selection) {
		if text := cleanText(a.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}

// parseEpisodes extracts the episode list from the episode-list AJAX fragment.
func parseEpisodes(doc *goquery.Document, base string) []media.Episode {
	var episodes []media.Episode

	doc.Find("a.ssl-item.ep-item, a[data-number]").Each(func(_ int, s *goquery.Selection) {
		numStr, ok := s.Attr("data-number")
		if !ok {
			return
		}
		num, err := strconv.Atoi(numStr)
		if err != nil {
			return
		}

		ep := media.Episode{
			Number:        num,
			ID:            s.AttrOr("data-id", ""),
			Title:         cleanText(s.AttrOr("title", "")),
			JapaneseTitle: s.Find("[data-jname]").AttrOr("data-jname", ""),
			Filler:        s.HasClass("ssl-item-filler"),
		}
		if ep.Title == "" {
			ep.Title = "Episode " + numStr
		}
		if href := s.AttrOr("href", ""); href != "" {
			ep.URL = absoluteURL(base, href)
		}

		episodes = append(episodes, ep)
	})

	sort.Slice(episodes, func(i, j int) bool { return episodes[i].Number < episodes[j].Number })
	return episodes
}

// parseServers extracts sub/dub/raw server entries from the servers AJAX
// fragment.
func parseServers(doc *goquery.Document) []media.VideoServer {
	var servers []media.VideoServer

	groups := []struct {
		selector string
		stype    media.ServerType
	}{
		{".servers-sub .server-item", media.Sub},
		{".servers-dub .server-item", media.Dub},
		{".servers-raw .server-item", media.Raw},
	}

	for _, g := range groups {
		doc.Find(g.selector).Each(func(_ int, s *goquery.Selection) {
			id := s.AttrOr("data-id", "")
			if id == "" {
				return
			}
			servers = append(servers, media.VideoServer{
				ID:   id,
				Name: cleanText(s.Text()),
				Type: g.stype,
			})
		})
	}

	return servers
}

// parseLastPage extracts the total page count from a listing's pagination.
func parseLastPage(doc *goquery.Document) int {
	href := doc.Find(".pagination .page-item:last-child a").AttrOr("href", "")
	if m := pageNumRe.FindStringSubmatch(href); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return 1
}

package provider

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

const searchPageHTML = `
<div class="film_list-wrap">
  <div class="flw-item">
    <div class="film-poster">
      <img data-src="https://img.example.com/naruto.jpg" src="placeholder.gif">
    </div>
    <div class="film-detail">
      <h3 class="film-name"><a href="/naruto-677?ref=search">Naruto</a></h3>
      <div class="fd-infor">
        <span class="fdi-item">TV</span>
        <span class="fdi-item fdi-duration">23m</span>
      </div>
      <div class="tick">
        <div class="tick-item tick-sub">220</div>
        <div class="tick-item tick-dub">209</div>
      </div>
    </div>
  </div>
  <div class="flw-item">
    <div class="film-detail">
      <h3 class="film-name"><a href="/one-piece-100">One Piece</a></h3>
      <div class="fd-infor"><span class="fdi-item">TV</span></div>
    </div>
  </div>
  <div class="flw-item">
    <div class="film-detail">
      <h3 class="film-name"><a href="">Broken Card</a></h3>
    </div>
  </div>
</div>
<nav>
  <ul class="pagination">
    <li class="page-item"><a href="?keyword=naruto&page=1">1</a></li>
    <li class="page-item"><a href="?keyword=naruto&page=2">2</a></li>
    <li class="page-item"><a href="?keyword=naruto&page=8">8</a></li>
  </ul>
</nav>`

func TestParseAnimeList(t *testing.T) {
	doc := docFromHTML(t, searchPageHTML)
	results := parseAnimeList(doc, "https://hianime.to")

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 (broken card must be skipped)", len(results))
	}

	first := results[0]
	if first.Title != "Naruto" {
		t.Errorf("title = %q, want Naruto", first.Title)
	}
	if first.ID != "677" {
		t.Errorf("id = %q, want 677", first.ID)
	}
	if first.Slug != "naruto-677" {
		t.Errorf("slug = %q, want naruto-677", first.Slug)
	}
	if first.URL != "https://hianime.to/naruto-677?ref=search" {
		t.Errorf("url = %q", first.URL)
	}
	if first.Thumbnail != "https://img.example.com/naruto.jpg" {
		t.Errorf("thumbnail = %q, want data-src value", first.Thumbnail)
	}
	if first.Type != "TV" {
		t.Errorf("type = %q, want TV", first.Type)
	}
	if first.Duration != "23m" {
		t.Errorf("duration = %q, want 23m", first.Duration)
	}
	if first.EpisodesSub != 220 || first.EpisodesDub != 209 {
		t.Errorf("episode counts = %d/%d, want 220/209", first.EpisodesSub, first.EpisodesDub)
	}

	if results[1].Slug != "one-piece-100" {
		t.Errorf("second slug = %q, want one-piece-100", results[1].Slug)
	}
	if results[1].EpisodesSub != 0 {
		t.Errorf("missing sub badge should yield 0, got %d", results[1].EpisodesSub)
	}
}

func TestParseLastPage(t *testing.T) {
	doc := docFromHTML(t, searchPageHTML)
	if got := parseLastPage(doc); got != 8 {
		t.Errorf("last page = %d, want 8", got)
	}

	empty := docFromHTML(t, "<div></div>")
	if got := parseLastPage(empty); got != 1 {
		t.Errorf("last page without pagination = %d, want 1", got)
	}
}

func TestParseTrending(t *testing.T) {
	const html = `
<section id="trending-home">
  <div class="swiper-wrapper">
    <div class="swiper-slide">
      <div class="item">
        <a href="/solo-leveling-18718" class="film-poster">
          <img data-src="https://img.example.com/sl.jpg">
        </a>
        <div class="number"><span class="film-title">Solo Leveling</span></div>
      </div>
    </div>
    <div class="swiper-slide">
      <div class="item">
        <a href="/frieren-18542" class="film-poster"><img src="https://img.example.com/fr.jpg"></a>
        <div class="number"><span class="film-title">Frieren</span></div>
      </div>
    </div>
  </div>
</section>`

	doc := docFromHTML(t, html)
	results := parseTrending(doc, "https://hianime.to")
	if len(results) != 2 {
		t.Fatalf("got %d trending results, want 2", len(results))
	}
	if results[0].Title != "Solo Leveling" || results[0].ID != "18718" {
		t.Errorf("first = %q/%q, want Solo Leveling/18718", results[0].Title, results[0].ID)
	}
	if results[1].Thumbnail != "https://img.example.com/fr.jpg" {
		t.Errorf("second thumbnail = %q", results[1].Thumbnail)
	}
}

func TestParseTrendingMissingSection(t *testing.T) {
	doc := docFromHTML(t, "<div class='flw-item'></div>")
	if got := parseTrending(doc, "https://hianime.to"); got != nil {
		t.Errorf("expected nil without trending section, got %d items", len(got))
	}
}

func TestParseAnimeDetails(t *testing.T) {
	const html = `
<div class="anis-content">
  <div class="film-poster"><img src="https://img.example.com/naruto-big.jpg"></div>
  <h2 class="film-name">Naruto</h2>
  <div class="film-stats">
    <span class="item">TV</span>
    <span class="tick-item tick-pg">PG-13</span>
    <span class="tick-item tick-sub">220</span>
    <span class="tick-item tick-dub">209</span>
  </div>
  <div class="film-description"><div class="text">
    Naruto Uzumaki, a mischievous adolescent ninja, struggles as he
    searches for recognition.
  </div></div>
  <div class="anisc-info">
    <div class="item"><span class="item-head">Japanese:</span> <span class="name">ナルト</span></div>
    <div class="item"><span class="item-head">Synonyms:</span> <span class="name">NARUTO</span></div>
    <div class="item"><span class="item-head">Aired:</span> <span class="name">Oct 3, 2002 to Feb 8, 2007</span></div>
    <div class="item"><span class="item-head">Premiered:</span> <span class="name">Fall 2002</span></div>
    <div class="item"><span class="item-head">Status:</span> <span class="name">Finished Airing</span></div>
    <div class="item"><span class="item-head">MAL Score:</span> <span class="name">8.01</span></div>
    <div class="item"><span class="item-head">Duration:</span> <span class="name">23m</span></div>
    <div class="item"><span class="item-head">Genres:</span>
      <a href="/genre/action">Action</a> <a href="/genre/adventure">Adventure</a>
    </div>
    <div class="item"><span class="item-head">Studios:</span> <a href="/producer/pierrot">Pierrot</a></div>
    <div class="item"><span class="item-head">Producers:</span>
      <a href="/producer/tv-tokyo">TV Tokyo</a> <a href="/producer/aniplex">Aniplex</a>
    </div>
  </div>
</div>`

	doc := docFromHTML(t, html)
	info := parseAnimeDetails(doc, "https://hianime.to/naruto-677")

	if info.Title != "Naruto" {
		t.Errorf("title = %q", info.Title)
	}
	if info.ID != "677" || info.Slug != "naruto-677" {
		t.Errorf("id/slug = %q/%q", info.ID, info.Slug)
	}
	if info.JapaneseTitle != "ナルト" {
		t.Errorf("japanese = %q", info.JapaneseTitle)
	}
	if info.Aired != "Oct 3, 2002 to Feb 8, 2007" {
		t.Errorf("aired = %q", info.Aired)
	}
	if info.Status != "Finished Airing" {
		t.Errorf("status = %q", info.Status)
	}
	if info.MALScore != 8.01 {
		t.Errorf("mal score = %v, want 8.01", info.MALScore)
	}
	if info.Rating != "PG-13" {
		t.Errorf("rating = %q", info.Rating)
	}
	if len(info.Genres) != 2 || info.Genres[0] != "Action" {
		t.Errorf("genres = %v", info.Genres)
	}
	if len(info.Studios) != 1 || info.Studios[0] != "Pierrot" {
		t.Errorf("studios = %v", info.Studios)
	}
	if len(info.Producers) != 2 {
		t.Errorf("producers = %v", info.Producers)
	}
	if !strings.Contains(info.Synopsis, "mischievous adolescent ninja") {
		t.Errorf("synopsis = %q", info.Synopsis)
	}
	if info.EpisodesSub != 220 || info.EpisodesDub != 209 {
		t.Errorf("episode counts = %d/%d", info.EpisodesSub, info.EpisodesDub)
	}
}

func TestParseEpisodes(t *testing.T) {
	// The fragment arrives in DOM order but must come back sorted by number.
	const html = `
<div class="ss-list">
  <a href="/watch/naruto-677?ep=2143" class="ssl-item ep-item" data-number="2"
     data-id="2143" title="The Konohamaru Corps">
    <div class="ssli-detail"><div class="ep-name" data-jname="木ノ葉丸軍団"></div></div>
  </a>
  <a href="/watch/naruto-677?ep=2142" class="ssl-item ep-item ssl-item-filler" data-number="1"
     data-id="2142" title="Homecoming">
    <div class="ssli-detail"><div class="ep-name" data-jname="帰郷"></div></div>
  </a>
  <a href="/watch/naruto-677?ep=2144" class="ssl-item ep-item" data-number="3" data-id="2144">
  </a>
</div>`

	doc := docFromHTML(t, html)
	episodes := parseEpisodes(doc, "https://hianime.to")
	if len(episodes) != 3 {
		t.Fatalf("got %d episodes, want 3", len(episodes))
	}

	first := episodes[0]
	if first.Number != 1 || first.ID != "2142" {
		t.Errorf("first episode = #%d id=%q, want #1 id=2142", first.Number, first.ID)
	}
	if first.Title != "Homecoming" {
		t.Errorf("title = %q", first.Title)
	}
	if first.JapaneseTitle != "帰郷" {
		t.Errorf("jname = %q", first.JapaneseTitle)
	}
	if !first.Filler {
		t.Error("first episode should be marked filler")
	}
	if first.URL != "https://hianime.to/watch/naruto-677?ep=2142" {
		t.Errorf("url = %q", first.URL)
	}

	if episodes[1].Filler {
		t.Error("second episode should not be filler")
	}
	if episodes[2].Title != "Episode 3" {
		t.Errorf("untitled episode title = %q, want fallback", episodes[2].Title)
	}
}

func TestParseServers(t *testing.T) {
	const html = `
<div class="server-list">
  <div class="servers-sub">
    <div class="server-item" data-id="4"><a>HD-1</a></div>
    <div class="server-item" data-id="1"><a>HD-2</a></div>
  </div>
  <div class="servers-dub">
    <div class="server-item" data-id="5"><a>HD-1</a></div>
  </div>
  <div class="servers-raw">
    <div class="server-item"><a>Broken</a></div>
  </div>
</div>`

	doc := docFromHTML(t, html)
	servers := parseServers(doc)
	if len(servers) != 3 {
		t.Fatalf("got %d servers, want 3 (entry without data-id skipped)", len(servers))
	}
	if servers[0].ID != "4" || servers[0].Type != "sub" || servers[0].Name != "HD-1" {
		t.Errorf("first server = %+v", servers[0])
	}
	if servers[2].ID != "5" || servers[2].Type != "dub" {
		t.Errorf("dub server = %+v", servers[2])
	}
}

func TestExtractAnimeID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"naruto-677", "677"},
		{"/one-piece-100?ref=search", "100"},
		{"steins-gate-0-2284", "2284"},
		{"no-trailing-id-here", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := extractAnimeID(tt.in); got != tt.want {
			t.Errorf("extractAnimeID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/naruto-677?ref=search", "naruto-677"},
		{"https://hianime.to/one-piece-100", "one-piece-100"},
		{"naruto-677", "naruto-677"},
	}
	for _, tt := range tests {
		if got := extractSlug(tt.in); got != tt.want {
			t.Errorf("extractSlug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseEpisodeCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"220", 220},
		{" 220 220 ", 220},
		{"", 0},
		{"N/A", 0},
	}
	for _, tt := range tests {
		if got := parseEpisodeCount(tt.in); got != tt.want {
			t.Errorf("parseEpisodeCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

package provider

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestProvider starts a TLS server with the given handler and returns a
// provider pointed at it.
func newTestProvider(t *testing.T, handler http.Handler) *HiAnime {
	t.Helper()
	srv := httptest.NewTLSServer(handler)
	t.Cleanup(srv.Close)
	return NewHiAnimeClient(strings.TrimPrefix(srv.URL, "https://"), srv.Client())
}

func TestEpisodesFromAJAX(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ajax/v2/episode/list/677", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Requested-With") != "XMLHttpRequest" {
			t.Errorf("missing XHR header")
		}
		fragment := `<a href="/watch/naruto-677?ep=2142" class="ssl-item ep-item" data-number="1" data-id="2142" title="Homecoming"></a>`
		fmt.Fprintf(w, `{"status": true, "html": %q}`, fragment)
	})

	h := newTestProvider(t, mux)
	episodes, err := h.Episodes("naruto-677")
	if err != nil {
		t.Fatalf("Episodes: %v", err)
	}
	if len(episodes) != 1 {
		t.Fatalf("got %d episodes, want 1", len(episodes))
	}
	if episodes[0].ID != "2142" || episodes[0].Number != 1 {
		t.Errorf("episode = %+v", episodes[0])
	}
}

func TestEpisodesRejectsBadSlug(t *testing.T) {
	h := NewHiAnimeClient("hianime.to", http.DefaultClient)
	if _, err := h.Episodes("no-numeric-id"); err == nil {
		t.Error("expected error for slug without trailing ID")
	}
}

func TestServersFromAJAX(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ajax/v2/episode/servers", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("episodeId"); got != "2142" {
			t.Errorf("episodeId = %q, want 2142", got)
		}
		fragment := `<div class="servers-sub"><div class="server-item" data-id="4"><a>HD-1</a></div></div>`
		fmt.Fprintf(w, `{"status": true, "html": %q}`, fragment)
	})

	h := newTestProvider(t, mux)
	servers, err := h.Servers("2142")
	if err != nil {
		t.Fatalf("Servers: %v", err)
	}
	if len(servers) != 1 || servers[0].ID != "4" || servers[0].Type != "sub" {
		t.Errorf("servers = %+v", servers)
	}
}

func TestAJAXRejectedEnvelope(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": false, "msg": "episode not found"}`)
	})

	h := newTestProvider(t, mux)
	_, err := h.Servers("2142")
	if err == nil {
		t.Fatal("expected error for rejected envelope")
	}
	if !strings.Contains(err.Error(), "episode not found") {
		t.Errorf("error should carry server message, got: %v", err)
	}
}

func TestEmbedURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ajax/v2/episode/sources", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "4" {
			t.Errorf("id = %q, want 4", got)
		}
		fmt.Fprint(w, `{"type": "iframe", "link": "https://megacloud.blog/embed-2/v2/e-1/abc123?k=1"}`)
	})

	h := newTestProvider(t, mux)
	link, err := h.EmbedURL("4")
	if err != nil {
		t.Fatalf("EmbedURL: %v", err)
	}
	if link != "https://megacloud.blog/embed-2/v2/e-1/abc123?k=1" {
		t.Errorf("link = %q", link)
	}
}

func TestEmbedURLErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"link": ""}`)
	})
	h := newTestProvider(t, mux)

	if _, err := h.EmbedURL("not-numeric"); err == nil {
		t.Error("expected error for non-numeric server ID")
	}
	if _, err := h.EmbedURL("4"); err == nil {
		t.Error("expected error for empty link")
	}
}

func TestSearchParsesListing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("keyword"); got != "naruto" {
			t.Errorf("keyword = %q", got)
		}
		fmt.Fprint(w, searchPageHTML)
	})

	h := newTestProvider(t, mux)
	results, err := h.Search("naruto", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Slug != "naruto-677" {
		t.Errorf("first slug = %q", results[0].Slug)
	}
}

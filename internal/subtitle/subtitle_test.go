package subtitle

import (
	"testing"

	"github.com/Shalin-Shah-2002/Hianime-API/internal/media"
)

func testTracks() []media.SubtitleTrack {
	return []media.SubtitleTrack{
		{Label: "English - SDH", Kind: "captions", URL: "https://cc.example/en-sdh.vtt"},
		{Label: "English", Kind: "captions", URL: "https://cc.example/en.vtt"},
		{Label: "Spanish", Kind: "captions", URL: "https://cc.example/es.vtt"},
		{Label: "French", Kind: "captions", URL: "https://cc.example/fr.vtt"},
		{Label: "thumbnails", Kind: "thumbnails", URL: "https://cc.example/thumbs.vtt"},
	}
}

func TestCaptions(t *testing.T) {
	got := Captions(testTracks())
	if len(got) != 4 {
		t.Errorf("Captions() kept %d tracks, want 4 (thumbnails dropped)", len(got))
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		lang     string
		expected int
	}{
		{"english", 2},
		{"spanish", 1},
		{"german", 0},
		{"", 4},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			got := Filter(testTracks(), tt.lang)
			if len(got) != tt.expected {
				t.Errorf("Filter(%q) returned %d tracks, want %d", tt.lang, len(got), tt.expected)
			}
		})
	}
}

func TestBestMatch(t *testing.T) {
	best := BestMatch(testTracks(), "english")
	if best == nil {
		t.Fatal("BestMatch returned nil for english")
	}
	if best.Label != "English" {
		t.Errorf("BestMatch preferred %q, want 'English' (non-SDH)", best.Label)
	}

	best = BestMatch(testTracks(), "japanese")
	if best != nil {
		t.Error("BestMatch should return nil for unmatched language")
	}
}

func TestBestMatchPrefersDefault(t *testing.T) {
	tracks := []media.SubtitleTrack{
		{Label: "English", Kind: "captions", URL: "https://cc.example/en.vtt"},
		{Label: "English - Dialogue Only", Kind: "captions", URL: "https://cc.example/en2.vtt", Default: true},
	}

	best := BestMatch(tracks, "english")
	if best == nil {
		t.Fatal("BestMatch returned nil")
	}
	if !best.Default {
		t.Errorf("BestMatch picked %q, want the default track", best.Label)
	}
}

func TestTempDir(t *testing.T) {
	tmpDir, err := NewTempDir()
	if err != nil {
		t.Fatalf("NewTempDir() error: %v", err)
	}
	defer tmpDir.Cleanup()

	if tmpDir.path == "" {
		t.Error("temp dir path is empty")
	}
}

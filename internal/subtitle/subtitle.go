// Package subtitle filters resolved subtitle tracks and manages secure
// temp files for downloaded captions.
package subtitle

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Shalin-Shah-2002/Hianime-API/internal/httputil"
	"github.com/Shalin-Shah-2002/Hianime-API/internal/media"
)

// Captions drops non-caption tracks. The embed endpoint mixes thumbnail
// sprite tracks into the same list.
func Captions(tracks []media.SubtitleTrack) []media.SubtitleTrack {
	var out []media.SubtitleTrack
	for _, t := range tracks {
		if t.Kind == "captions" && t.URL != "" {
			out = append(out, t)
		}
	}
	return out
}

// Filter returns caption tracks matching the preferred language
// (case-insensitive substring match on the label).
func Filter(tracks []media.SubtitleTrack, language string) []media.SubtitleTrack {
	tracks = Captions(tracks)
	if language == "" {
		return tracks
	}

	lang := strings.ToLower(language)
	var matched []media.SubtitleTrack
	for _, t := range tracks {
		if strings.Contains(strings.ToLower(t.Label), lang) {
			matched = append(matched, t)
		}
	}
	return matched
}

// BestMatch returns the best caption track for the given language.
// Prefers the track the server marked default, then non-SDH variants.
func BestMatch(tracks []media.SubtitleTrack, language string) *media.SubtitleTrack {
	filtered := Filter(tracks, language)
	if len(filtered) == 0 {
		return nil
	}

	for i, t := range filtered {
		if t.Default {
			return &filtered[i]
		}
	}

	for i, t := range filtered {
		if !strings.Contains(strings.ToLower(t.Label), "sdh") {
			return &filtered[i]
		}
	}

	return &filtered[0]
}

// TempDir manages a secure temporary directory for subtitle files.
type TempDir struct {
	path string
}

// NewTempDir creates a randomized temporary directory for subtitle files.
func NewTempDir() (*TempDir, error) {
	dir, err := os.MkdirTemp("", "hianime-subs-*")
	if err != nil {
		return nil, fmt.Errorf("creating subtitle temp dir: %w", err)
	}
	return &TempDir{path: dir}, nil
}

// Cleanup removes the temporary directory and all contents.
func (t *TempDir) Cleanup() {
	if t.path != "" {
		os.RemoveAll(t.path)
	}
}

// Download fetches a subtitle file to the temp directory and returns the
// local path.
func (t *TempDir) Download(track media.SubtitleTrack) (string, error) {
	if err := httputil.ValidateURL(track.URL); err != nil {
		return "", fmt.Errorf("invalid subtitle URL: %w", err)
	}

	filename := "subtitle.vtt"
	if parts := strings.Split(track.URL, "/"); len(parts) > 0 {
		last := parts[len(parts)-1]
		if idx := strings.Index(last, "?"); idx != -1 {
			last = last[:idx]
		}
		if last != "" {
			filename = httputil.SanitizeFilename(last)
		}
	}

	localPath := filepath.Join(t.path, filename)

	client := httputil.NewClient()
	resp, err := client.Get(track.URL)
	if err != nil {
		return "", fmt.Errorf("downloading subtitle: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("subtitle download returned status %d", resp.StatusCode)
	}

	f, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("creating subtitle file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, io.LimitReader(resp.Body, 10*1024*1024)); err != nil {
		return "", fmt.Errorf("writing subtitle file: %w", err)
	}

	return localPath, nil
}

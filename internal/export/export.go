// Package export writes scraped results to JSON or CSV files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/Shalin-Shah-2002/Hianime-API/internal/httputil"
	"github.com/Shalin-Shah-2002/Hianime-API/internal/logger"
	"github.com/Shalin-Shah-2002/Hianime-API/internal/media"
)

// WriteJSON writes any value as indented JSON under dir. The filename is
// sanitized and confined to dir.
func WriteJSON(dir, filename string, v any) (string, error) {
	path, err := httputil.SafeExportPath(dir, filename)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding JSON: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	logger.Log.Debug("exported JSON", "path", path, "bytes", len(data))
	return path, nil
}

// WriteResultsCSV writes search results as CSV under dir.
func WriteResultsCSV(dir, filename string, results []media.SearchResult) (string, error) {
	path, err := httputil.SafeExportPath(dir, filename)
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"id", "slug", "title", "url", "type", "duration", "episodes_sub", "episodes_dub"}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("writing CSV header: %w", err)
	}

	for _, r := range results {
		record := []string{
			r.ID,
			r.Slug,
			r.Title,
			r.URL,
			r.Type,
			r.Duration,
			strconv.Itoa(r.EpisodesSub),
			strconv.Itoa(r.EpisodesDub),
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("writing CSV record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing CSV: %w", err)
	}

	logger.Log.Debug("exported CSV", "path", path, "rows", len(results))
	return path, nil
}

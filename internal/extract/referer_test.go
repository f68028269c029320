package extract

import "testing"

func TestRefererFor(t *testing.T) {
	tests := []struct {
		name      string
		streamURL string
		embedURL  string
		want      string
	}{
		{
			name:      "megacloud stream",
			streamURL: "https://megacloud.blog/some/master.m3u8",
			embedURL:  "https://megacloud.blog/embed-2/v2/e-1/abc",
			want:      "https://megacloud.blog/",
		},
		{
			name:      "sunburst edge maps to megacloud",
			streamURL: "https://sunburst.example.net/stream/master.m3u8",
			embedURL:  "https://example.org/embed-2/v2/e-1/abc",
			want:      "https://megacloud.blog/",
		},
		{
			name:      "rapid-cloud matched from embed URL",
			streamURL: "https://edge.example.net/master.m3u8",
			embedURL:  "https://rapid-cloud.co/embed-6/v2/e-1/abc",
			want:      "https://rapid-cloud.co/",
		},
		{
			name:      "vidplay",
			streamURL: "https://vidplay.site/stream/master.m3u8",
			embedURL:  "https://example.org/embed-2/v2/e-1/abc",
			want:      "https://vidplay.site/",
		},
		{
			name:      "filemoon",
			streamURL: "https://filemoon.sx/d/xyz/master.m3u8",
			embedURL:  "https://example.org/embed-2/v2/e-1/abc",
			want:      "https://filemoon.sx/",
		},
		{
			name:      "generic cdn pattern",
			streamURL: "https://cdn.example.net/video/master.m3u8",
			embedURL:  "https://example.org/embed-2/v2/e-1/abc",
			want:      "https://megacloud.blog/",
		},
		{
			name:      "case-insensitive match",
			streamURL: "https://MEGACLOUD.blog/master.m3u8",
			embedURL:  "https://example.org/embed-2/v2/e-1/abc",
			want:      "https://megacloud.blog/",
		},
		{
			name:      "no match falls back to embed origin",
			streamURL: "https://video.example.net/master.m3u8",
			embedURL:  "https://player.example.org/embed-2/v2/e-1/abc",
			want:      "https://player.example.org/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := refererFor(tt.streamURL, tt.embedURL); got != tt.want {
				t.Errorf("refererFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

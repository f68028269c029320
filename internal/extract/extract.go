// Package extract resolves embed URLs into playable stream sources by
// talking directly to MegaCloud-family endpoints.
package extract

import "github.com/Shalin-Shah-2002/Hianime-API/internal/media"

// Resolver resolves embed URLs into playable streams.
type Resolver interface {
	Resolve(embedURL string) (*media.ResolvedMedia, error)
}

// New returns the appropriate resolver for hianime embed URLs.
func New() Resolver {
	return NewMegaCloud()
}

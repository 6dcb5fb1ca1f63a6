// Package cache stores computed layouts and rendered artifacts.
//
// Keys are produced by a [Keyer] from content hashes and the options that
// influence the output, so identical requests share entries across the CLI
// and the HTTP server. Three backends are provided: [FileCache] for local
// use, [RedisCache] for servers sharing a cache, and [NullCache] to disable
// caching.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. Expired
	// entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default time-to-live per entry kind.
const (
	// TTLKeywords is short because boards keep receiving submissions.
	TTLKeywords = 30 * time.Second

	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// LayoutKeyOpts are the options that change a computed layout.
type LayoutKeyOpts struct {
	Measurer string `json:"measurer"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Scale      float64 `json:"scale,omitempty"`
	EmbedFont  bool    `json:"embed_font,omitempty"`
	Background string  `json:"background,omitempty"`
	Title      string  `json:"title,omitempty"`
	Measurer   string  `json:"measurer,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// KeywordsKey identifies a board's ranked keyword list.
	KeywordsKey(boardID string, limit int) string

	// LayoutKey identifies a layout computed from the keyword list whose
	// content hash is keywordsHash.
	LayoutKey(keywordsHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendering of the layout whose content hash
	// is layoutHash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// KeywordsKey implements Keyer.
func (DefaultKeyer) KeywordsKey(boardID string, limit int) string {
	return hashKey("keywords", boardID, limit)
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(keywordsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", keywordsHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}

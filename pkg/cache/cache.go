// Package cache memoizes pipeline results and rendered artifacts.
//
// Everything cached is a pure function of its key: a result is derived from
// the input text and the layout options, an artifact from a result and an
// export format. Entries may be evicted at any time and are never a store of
// record.
//
// Backends:
//
//   - [NullCache]: caching disabled
//   - [FileCache]: snappy-compressed files under the user cache directory
//   - [RedisCache]: a shared Redis instance
//   - [MongoCache]: a MongoDB collection with a TTL index
//
// Keys are produced by a [Keyer]; [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// Default lifetimes of cached entries.
const (
	TTLResult   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// A zero ttl means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ResultKeyOpts are the layout options that change a pipeline result.
type ResultKeyOpts struct {
	Direction      string  `json:"direction"`
	NodeWidth      float64 `json:"node_width"`
	NodeHeight     float64 `json:"node_height"`
	NodeSep        float64 `json:"node_sep"`
	RankSep        float64 `json:"rank_sep"`
	RootLabel      string  `json:"root_label"`
	DuplicateKeys  bool    `json:"duplicate_keys"`
	MaxNodes       int     `json:"max_nodes"`
	OrderingPasses int     `json:"ordering_passes"`
}

// ArtifactKeyOpts are the export options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Document int     `json:"document"`
	Scale    float64 `json:"scale,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ResultKey keys a pipeline result by the hash of the input text.
	ResultKey(textHash string, opts ResultKeyOpts) string
	// ArtifactKey keys an export by the hash of the serialized result.
	ArtifactKey(resultHash string, opts ArtifactKeyOpts) string
	// FixKey keys an auto-fix suggestion by document text and error.
	FixKey(textHash, errorMessage string) string
}

// DefaultKeyer hashes every key component with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ResultKey implements Keyer.
func (DefaultKeyer) ResultKey(textHash string, opts ResultKeyOpts) string {
	return hashKey("result", textHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", resultHash, opts)
}

// FixKey implements Keyer.
func (DefaultKeyer) FixKey(textHash, errorMessage string) string {
	return hashKey("fix", textHash, errorMessage)
}

var _ Keyer = DefaultKeyer{}

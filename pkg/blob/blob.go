// Package blob keeps exported documents available for a single download.
//
// A [Registry] stores an artifact under a fresh random id and hands it out
// once: [Registry.Take] returns the artifact and revokes the id. Entries that
// are never fetched expire after the registry's TTL. The registry sits on a
// [cache.Cache], so it is process-local with the memory backend and shared
// between server replicas with Redis.
package blob

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/coursepaper/pkg/cache"
	"github.com/matzehuels/coursepaper/pkg/errors"
	"github.com/matzehuels/coursepaper/pkg/export"
)

// DefaultTTL is how long an unfetched blob stays available.
const DefaultTTL = 5 * time.Minute

// Registry maps blob ids to stored artifacts.
type Registry struct {
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// Option configures a Registry.
type Option func(*Registry)

// WithTTL sets the lifetime of unfetched blobs.
func WithTTL(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.ttl = d
		}
	}
}

// WithKeyer sets how blob ids map to cache keys.
func WithKeyer(k cache.Keyer) Option {
	return func(r *Registry) {
		if k != nil {
			r.keyer = k
		}
	}
}

// NewRegistry creates a registry on c. A nil c gets a fresh memory cache.
func NewRegistry(c cache.Cache, opts ...Option) *Registry {
	if c == nil {
		c = cache.NewMemoryCache()
	}
	r := &Registry{cache: c, keyer: cache.NewDefaultKeyer(), ttl: DefaultTTL}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TTL returns the lifetime of unfetched blobs.
func (r *Registry) TTL() time.Duration { return r.ttl }

type record struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// Create stores a and returns its id.
func (r *Registry) Create(ctx context.Context, a export.Artifact) (string, error) {
	data, err := json.Marshal(record(a))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode blob")
	}

	id := uuid.NewString()
	if err := r.cache.Set(ctx, r.keyer.BlobKey(id), data, r.ttl); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "store blob")
	}
	return id, nil
}

// Take returns the artifact stored under id and revokes it. Unknown,
// expired and already taken ids fail with BLOB_NOT_FOUND.
func (r *Registry) Take(ctx context.Context, id string) (export.Artifact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return export.Artifact{}, errors.New(errors.ErrCodeBlobNotFound, "no blob %q", id)
	}

	data, hit, err := cache.Take(ctx, r.cache, r.keyer.BlobKey(id))
	if err != nil {
		return export.Artifact{}, errors.Wrap(errors.ErrCodeInternal, err, "load blob")
	}
	if !hit {
		return export.Artifact{}, errors.New(errors.ErrCodeBlobNotFound, "no blob %q", id)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return export.Artifact{}, errors.Wrap(errors.ErrCodeInternal, err, "decode blob %s", id)
	}
	return export.Artifact(rec), nil
}

// Revoke removes id. Revoking an unknown id is not an error.
func (r *Registry) Revoke(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, r.keyer.BlobKey(id)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "revoke blob")
	}
	return nil
}

// URL returns the download path for id.
func URL(id string) string {
	return "/downloads/" + id
}

package blob

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/coursepaper/pkg/cache"
	"github.com/matzehuels/coursepaper/pkg/errors"
	"github.com/matzehuels/coursepaper/pkg/export"
)

func artifact() export.Artifact {
	return export.Artifact{
		Filename:    export.DefaultFilename,
		ContentType: export.ContentType,
		Data:        []byte("\ufeff<html>doc</html>"),
	}
}

func TestCreateTake(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(nil)

	id, err := r.Create(ctx, artifact())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := r.Take(ctx, id)
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	want := artifact()
	if got.Filename != want.Filename || got.ContentType != want.ContentType || !bytes.Equal(got.Data, want.Data) {
		t.Errorf("Take = %+v, want %+v", got, want)
	}

	if _, err := r.Take(ctx, id); !errors.Is(err, errors.ErrCodeBlobNotFound) {
		t.Errorf("second Take err = %v, want BLOB_NOT_FOUND", err)
	}
}

func TestUniqueIDs(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(nil)
	a, _ := r.Create(ctx, artifact())
	b, _ := r.Create(ctx, artifact())
	if a == b {
		t.Error("ids should be unique")
	}
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(nil)

	id, _ := r.Create(ctx, artifact())
	if err := r.Revoke(ctx, id); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := r.Take(ctx, id); !errors.IsNotFound(err) {
		t.Errorf("Take after Revoke err = %v, want not found", err)
	}
	if err := r.Revoke(ctx, "unknown"); err != nil {
		t.Errorf("Revoke(unknown) = %v, want nil", err)
	}
}

func TestTakeInvalidID(t *testing.T) {
	for _, id := range []string{"", "abc", "../etc/passwd"} {
		if _, err := NewRegistry(nil).Take(context.Background(), id); !errors.Is(err, errors.ErrCodeBlobNotFound) {
			t.Errorf("Take(%q) err = %v, want BLOB_NOT_FOUND", id, err)
		}
	}
}

func TestTTL(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(nil, WithTTL(time.Millisecond))
	if r.TTL() != time.Millisecond {
		t.Fatalf("TTL = %v", r.TTL())
	}

	id, _ := r.Create(ctx, artifact())
	time.Sleep(10 * time.Millisecond)
	if _, err := r.Take(ctx, id); !errors.Is(err, errors.ErrCodeBlobNotFound) {
		t.Errorf("expired Take err = %v, want BLOB_NOT_FOUND", err)
	}

	if NewRegistry(nil, WithTTL(0)).TTL() != DefaultTTL {
		t.Error("zero TTL should keep the default")
	}
}

func TestScopedKeys(t *testing.T) {
	ctx := context.Background()
	shared := cache.NewMemoryCache()
	a := NewRegistry(shared, WithKeyer(cache.NewScopedKeyer(cache.NewDefaultKeyer(), "a:")))
	b := NewRegistry(shared, WithKeyer(cache.NewScopedKeyer(cache.NewDefaultKeyer(), "b:")))

	id, _ := a.Create(ctx, artifact())
	if _, err := b.Take(ctx, id); err == nil {
		t.Error("registries with different scopes should not share blobs")
	}
	if _, err := a.Take(ctx, id); err != nil {
		t.Errorf("Take in own scope: %v", err)
	}
}

func TestConcurrentTake(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(nil)
	id, _ := r.Create(ctx, artifact())

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Take(ctx, id); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Errorf("blob taken %d times, want exactly once", wins.Load())
	}
}

func TestURL(t *testing.T) {
	if got := URL("x"); got != "/downloads/x" {
		t.Errorf("URL = %q", got)
	}
}

package depforge

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
)

func fetchDescriptor(content []byte, locations ...string) *Descriptor {
	return &Descriptor{
		Name:      "dep",
		Locations: locations,
		Digest:    fmt.Sprintf("%x", sha256.Sum256(content)),
		Artifact:  "lib/libdep.a",
		Kind:      KindCMake,
	}
}

func TestFetchDownloadsAndCaches(t *testing.T) {
	content := []byte("source archive bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())
	f.Quiet = true
	d := fetchDescriptor(content, srv.URL+"/dep-1.0.tar.gz")

	got, err := f.Fetch(t.Context(), d)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if filepath.Base(got) != d.Digest+"-dep-1.0.tar.gz" {
		t.Errorf("cache entry name = %q, want digest-keyed name with archive suffix", filepath.Base(got))
	}
	data, err := os.ReadFile(got)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(content) {
		t.Error("cached content does not match served content")
	}
	// The per-digest lock file must survive the fetch: removing it while
	// held would let two workers slip past each other on different inodes.
	if _, err := os.Stat(filepath.Join(f.CacheDir, d.Digest+".lock")); err != nil {
		t.Errorf("lock file missing after fetch: %v", err)
	}
}

func TestFetchMirrorFallback(t *testing.T) {
	content := []byte("mirror fallback payload")
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(content)
	}))
	defer srv.Close()

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer dead.Close()

	f := NewFetcher(t.TempDir())
	f.Quiet = true
	d := fetchDescriptor(content, dead.URL+"/dep-1.0.tar.gz", srv.URL+"/dep-1.0.tar.gz")

	if _, err := f.Fetch(t.Context(), d); err != nil {
		t.Fatalf("Fetch with working mirror: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("mirror hit %d times, want 1", hits.Load())
	}
}

func TestFetchAllMirrorsFail(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer dead.Close()

	f := NewFetcher(t.TempDir())
	f.Quiet = true
	d := fetchDescriptor([]byte("never arrives"), dead.URL+"/a.tar.gz", dead.URL+"/b.tar.gz")

	_, err := f.Fetch(t.Context(), d)
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("Fetch = %v, want NetworkError", err)
	}
	if len(ne.Locations) != 2 {
		t.Errorf("NetworkError carries %d locations, want 2", len(ne.Locations))
	}
}

func TestFetchIntegrityMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tampered bytes"))
	}))
	defer srv.Close()

	cache := t.TempDir()
	f := NewFetcher(cache)
	f.Quiet = true
	d := fetchDescriptor([]byte("expected bytes"), srv.URL+"/dep-1.0.tar.gz")

	_, err := f.Fetch(t.Context(), d)
	var ie *IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("Fetch = %v, want IntegrityError", err)
	}
	if ie.Algo != "sha256" {
		t.Errorf("IntegrityError.Algo = %q, want sha256", ie.Algo)
	}

	// The corrupt transfer must never become a valid-looking cache entry.
	matches, _ := filepath.Glob(filepath.Join(cache, d.Digest+"-*"))
	if len(matches) != 0 {
		t.Errorf("cache poisoned with %v after digest mismatch", matches)
	}
}

func TestFetchCacheHit(t *testing.T) {
	content := []byte("already cached")
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(content)
	}))
	defer srv.Close()

	cache := t.TempDir()
	d := fetchDescriptor(content, srv.URL+"/dep-1.0.tar.gz")
	cached := filepath.Join(cache, d.Digest+"-dep-1.0.tar.gz")
	if err := os.WriteFile(cached, content, 0o644); err != nil {
		t.Fatal(err)
	}

	f := NewFetcher(cache)
	f.Quiet = true
	got, err := f.Fetch(t.Context(), d)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got != cached {
		t.Errorf("Fetch = %q, want cached path %q", got, cached)
	}
	if hits.Load() != 0 {
		t.Errorf("server hit %d times on a cache hit, want 0", hits.Load())
	}
}

type fakeStore struct {
	objects   map[string][]byte
	downloads atomic.Int32
}

func (s *fakeStore) Download(ctx context.Context, bucket, key string, w io.Writer) error {
	body, ok := s.objects[key]
	if !ok {
		return fmt.Errorf("no such object %s/%s", bucket, key)
	}
	s.downloads.Add(1)
	_, err := w.Write(body)
	return err
}

func TestFetchS3ConcurrentDistinctDigests(t *testing.T) {
	// Distinct digests are not serialized by the per-digest lock, so the
	// lazy backend init must be safe under concurrent first use.
	store := &fakeStore{objects: map[string][]byte{}}
	var deps []*Descriptor
	for i := 0; i < 8; i++ {
		content := []byte(fmt.Sprintf("s3 object %d", i))
		key := fmt.Sprintf("dep%d-1.0.tar.gz", i)
		store.objects[key] = content
		deps = append(deps, fetchDescriptor(content, "s3://mirror/"+key))
	}

	f := NewFetcher(t.TempDir())
	f.Quiet = true
	var inits atomic.Int32
	f.NewStore = func(ctx context.Context) (ObjectStore, error) {
		inits.Add(1)
		return store, nil
	}

	var wg sync.WaitGroup
	errs := make([]error, len(deps))
	for i, d := range deps {
		wg.Add(1)
		go func(i int, d *Descriptor) {
			defer wg.Done()
			_, errs[i] = f.Fetch(t.Context(), d)
		}(i, d)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("concurrent s3 Fetch %d: %v", i, err)
		}
	}
	if got := inits.Load(); got != 1 {
		t.Errorf("backend constructed %d times, want exactly once", got)
	}
	if got := store.downloads.Load(); got != 8 {
		t.Errorf("backend served %d downloads, want 8", got)
	}
}

func TestFetchConcurrentSameDigest(t *testing.T) {
	content := []byte("fetched once, used twice")
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(content)
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())
	f.Quiet = true
	d := fetchDescriptor(content, srv.URL+"/dep-1.0.tar.gz")

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.Fetch(t.Context(), d)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("concurrent Fetch %d: %v", i, err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times for one digest, want 1", hits.Load())
	}
}

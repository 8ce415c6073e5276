package depforge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
	"lukechampine.com/blake3"
)

// Fetcher downloads source archives into a digest-keyed cache. A cached,
// digest-matching file short-circuits the network entirely; concurrent
// requests for the same digest are serialized by a per-digest file lock.
type Fetcher struct {
	CacheDir string
	Client   *http.Client
	Quiet    bool

	// NewStore builds the s3:// backend on first use; injectable for tests.
	NewStore func(ctx context.Context) (ObjectStore, error)

	// storeMu guards the lazy store init: the per-digest flock does not
	// serialize fetches of unrelated digests.
	storeMu sync.Mutex
	store   ObjectStore
}

// NewFetcher returns a Fetcher writing into cacheDir.
func NewFetcher(cacheDir string) *Fetcher {
	return &Fetcher{
		CacheDir: cacheDir,
		Client: &http.Client{
			Timeout: 300 * time.Second, // total timeout for large downloads
		},
	}
}

// Fetch returns the path of a verified local copy of the descriptor's
// archive. Locations are tried in declared order; transport failures
// advance to the next mirror, a digest mismatch is fatal.
func (f *Fetcher) Fetch(ctx context.Context, d *Descriptor) (string, error) {
	algo, err := d.DigestAlgo()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(f.CacheDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache directory %s: %w", f.CacheDir, err)
	}

	// Per-digest exclusive lock: two workers wanting the same archive must
	// not both transfer it. Unrelated digests are never blocked.
	lockPath := filepath.Join(f.CacheDir, d.Digest+".lock")
	lFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create lock file: %w", err)
	}
	defer lFile.Close()
	if err := unix.Flock(int(lFile.Fd()), unix.LOCK_EX); err != nil {
		return "", fmt.Errorf("failed to acquire download lock: %w", err)
	}
	defer unix.Flock(int(lFile.Fd()), unix.LOCK_UN)

	// Double check now that we hold the lock: another worker may have
	// finished the download while we waited.
	if cached, ok := f.cached(d.Digest); ok {
		debugf("Already in cache: %s\n", cached)
		return cached, nil
	}

	var lastErr error
	for _, loc := range d.Locations {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		name := locationBase(loc)
		dest := filepath.Join(f.CacheDir, d.Digest+"-"+name)
		tmp := dest + ".part-" + urlKey(loc)

		h, _ := d.newDigestHash()
		if err := f.download(ctx, loc, tmp, h); err != nil {
			debugf("download %s failed: %v\n", loc, err)
			_ = os.Remove(tmp)
			lastErr = err
			continue
		}

		got := fmt.Sprintf("%x", h.Sum(nil))
		if got != d.Digest {
			// Never cache a corrupt file under a valid-looking name.
			_ = os.Remove(tmp)
			return "", &IntegrityError{Name: d.Name, Algo: algo, Want: d.Digest, Got: got}
		}

		if err := os.Rename(tmp, dest); err != nil {
			_ = os.Remove(tmp)
			return "", fmt.Errorf("failed to move %s into cache: %w", name, err)
		}
		// The lock file stays behind: unlinking it while held would let a
		// waiter on the old inode and a newcomer on a fresh one run at once.
		return dest, nil
	}

	return "", &NetworkError{Name: d.Name, Locations: d.Locations, Last: lastErr}
}

// cached looks for a digest-keyed entry. The filename suffix is kept from
// whichever mirror produced it so the extractor can pick a decompressor.
func (f *Fetcher) cached(digest string) (string, bool) {
	matches, err := filepath.Glob(filepath.Join(f.CacheDir, digest+"-*"))
	if err != nil {
		return "", false
	}
	for _, m := range matches {
		if strings.Contains(m, ".part-") {
			continue
		}
		if info, err := os.Stat(m); err == nil && info.Size() > 0 {
			return m, true
		}
	}
	return "", false
}

func (f *Fetcher) download(ctx context.Context, loc, dest string, h io.Writer) error {
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer out.Close()

	u, err := url.Parse(loc)
	if err != nil {
		return fmt.Errorf("bad location %q: %w", loc, err)
	}

	if u.Scheme == "s3" {
		store, err := f.objectStore(ctx)
		if err != nil {
			return err
		}
		return store.Download(ctx, u.Host, strings.TrimPrefix(u.Path, "/"), io.MultiWriter(out, h))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status: %s", resp.Status)
	}

	w := io.MultiWriter(out, h)
	if !f.Quiet && term.IsTerminal(int(os.Stderr.Fd())) {
		bar := progressbar.DefaultBytes(resp.ContentLength, locationBase(loc))
		w = io.MultiWriter(out, h, bar)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}

// objectStore returns the shared s3 backend, constructing it exactly once
// across all workers.
func (f *Fetcher) objectStore(ctx context.Context) (ObjectStore, error) {
	f.storeMu.Lock()
	defer f.storeMu.Unlock()
	if f.store != nil {
		return f.store, nil
	}
	mk := f.NewStore
	if mk == nil {
		mk = newS3Store
	}
	store, err := mk(ctx)
	if err != nil {
		return nil, err
	}
	f.store = store
	return f.store, nil
}

func locationBase(loc string) string {
	if u, err := url.Parse(loc); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(loc)
}

// urlKey derives a short stable name component from a location URL, so
// concurrent partial downloads from different mirrors never collide.
func urlKey(loc string) string {
	h := blake3.New(32, nil)
	h.Write([]byte(loc))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

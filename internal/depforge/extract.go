package depforge

import (
	"archive/tar"
	"compress/bzip2"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/ulikunitz/xz"
)

// Extract unpacks archive into destDir and returns the working tree path.
// destDir is recreated from scratch: a stale leftover from a previous
// failed run is fully removed, never merged into. Every entry must live
// under expectedRoot or the archive is rejected with ExtractionError.
func Extract(archive, destDir, expectedRoot string) (string, error) {
	if err := os.RemoveAll(destDir); err != nil {
		return "", fmt.Errorf("failed to clean %s: %w", destDir, err)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", destDir, err)
	}

	var err error
	if strings.HasSuffix(archive, ".zip") {
		err = extractZip(archive, destDir, expectedRoot)
	} else {
		err = extractTar(archive, destDir, expectedRoot)
	}
	if err != nil {
		return "", err
	}

	tree := filepath.Join(destDir, expectedRoot)
	if info, statErr := os.Stat(tree); statErr != nil || !info.IsDir() {
		return "", &ExtractionError{Archive: filepath.Base(archive), Want: expectedRoot, Got: ""}
	}
	return tree, nil
}

// entryTarget validates an entry name against the expected archive root
// and path traversal, returning the on-disk target path.
func entryTarget(archive, destDir, expectedRoot, name string) (string, error) {
	clean := filepath.Clean(name)
	if clean == "." || clean == expectedRoot {
		return filepath.Join(destDir, expectedRoot), nil
	}
	top := clean
	if i := strings.IndexByte(clean, filepath.Separator); i != -1 {
		top = clean[:i]
	}
	if top != expectedRoot {
		return "", &ExtractionError{Archive: filepath.Base(archive), Want: expectedRoot, Got: top}
	}
	target := filepath.Join(destDir, clean)
	// Prevent path traversal out of the destination directory.
	if !strings.HasPrefix(target, destDir+string(os.PathSeparator)) {
		return "", &ExtractionError{
			Archive: filepath.Base(archive),
			Err:     fmt.Errorf("illegal file path in archive: %s", name),
		}
	}
	return target, nil
}

// checkLinkTarget rejects symlink entries pointing outside the
// destination directory, same contract as the entry path check.
func checkLinkTarget(archive, destDir, target, linkname string) error {
	if filepath.IsAbs(linkname) {
		return &ExtractionError{
			Archive: filepath.Base(archive),
			Err:     fmt.Errorf("absolute symlink target in archive: %s", linkname),
		}
	}
	resolved := filepath.Join(filepath.Dir(target), linkname)
	if resolved != destDir && !strings.HasPrefix(resolved, destDir+string(os.PathSeparator)) {
		return &ExtractionError{
			Archive: filepath.Base(archive),
			Err:     fmt.Errorf("symlink target escapes archive root: %s", linkname),
		}
	}
	return nil
}

func extractTar(archive, destDir, expectedRoot string) error {
	f, err := os.Open(archive)
	if err != nil {
		return fmt.Errorf("failed to open archive %s: %w", archive, err)
	}
	defer f.Close()

	var r io.Reader = f
	switch {
	case strings.HasSuffix(archive, ".tar.gz") || strings.HasSuffix(archive, ".tgz"):
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return &ExtractionError{Archive: filepath.Base(archive), Err: err}
		}
		defer gz.Close()
		r = gz
	case strings.HasSuffix(archive, ".tar.bz2"):
		r = bzip2.NewReader(f)
	case strings.HasSuffix(archive, ".tar.xz"):
		xzr, err := xz.NewReader(f)
		if err != nil {
			return &ExtractionError{Archive: filepath.Base(archive), Err: err}
		}
		r = xzr
	case strings.HasSuffix(archive, ".tar.zst"):
		zst, err := zstd.NewReader(f)
		if err != nil {
			return &ExtractionError{Archive: filepath.Base(archive), Err: err}
		}
		defer zst.Close()
		r = zst
	case strings.HasSuffix(archive, ".tar"):
		// No compression
	default:
		return &ExtractionError{
			Archive: filepath.Base(archive),
			Err:     fmt.Errorf("unsupported archive format"),
		}
	}

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return &ExtractionError{Archive: filepath.Base(archive), Err: err}
		}

		// Skip PAX headers (global or per-file)
		if hdr.Typeflag == tar.TypeXHeader || hdr.Typeflag == tar.TypeXGlobalHeader {
			if _, err := io.Copy(io.Discard, tr); err != nil {
				return &ExtractionError{Archive: filepath.Base(archive), Err: err}
			}
			continue
		}

		target, err := entryTarget(archive, destDir, expectedRoot, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(hdr.Mode)); err != nil {
				return fmt.Errorf("failed to create dir %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("failed to create parent dir for %s: %w", target, err)
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode))
			if err != nil {
				return fmt.Errorf("failed to create file %s: %w", target, err)
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return fmt.Errorf("failed to write file %s: %w", target, err)
			}
			out.Close()
			if err := os.Chtimes(target, hdr.AccessTime, hdr.ModTime); err != nil {
				debugf("failed to set times for %s: %v\n", target, err)
			}
		case tar.TypeSymlink:
			if err := checkLinkTarget(archive, destDir, target, hdr.Linkname); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("failed to create parent dir for %s: %w", target, err)
			}
			_ = os.Remove(target)
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return fmt.Errorf("failed to create symlink %s -> %s: %w", target, hdr.Linkname, err)
			}
		default:
			debugf("Skipping unsupported tar entry type %c: %s\n", hdr.Typeflag, hdr.Name)
		}
	}
	return nil
}

func extractZip(archive, destDir, expectedRoot string) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return &ExtractionError{Archive: filepath.Base(archive), Err: err}
	}
	defer r.Close()

	for _, f := range r.File {
		target, err := entryTarget(archive, destDir, expectedRoot, f.Name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, f.Mode()); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
		if err != nil {
			return err
		}
		rc, err := f.Open()
		if err != nil {
			out.Close()
			return err
		}
		_, err = io.Copy(out, rc)
		// Close inside the loop to avoid holding too many file descriptors.
		out.Close()
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

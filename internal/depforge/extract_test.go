package depforge

import (
	"archive/tar"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/pgzip"
)

type tarEntry struct {
	name     string
	body     string
	dir      bool
	linkname string
}

func writeTarGz(t *testing.T, path string, entries []tarEntry) {
	t.Helper()
	var buf bytes.Buffer
	gz := pgzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: 0o644}
		switch {
		case e.dir:
			hdr.Typeflag = tar.TypeDir
			hdr.Mode = 0o755
		case e.linkname != "":
			hdr.Typeflag = tar.TypeSymlink
			hdr.Linkname = e.linkname
		default:
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(e.body))
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := tw.Write([]byte(e.body)); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestExtractTarGz(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "foo-1.0.tar.gz")
	writeTarGz(t, archive, []tarEntry{
		{name: "foo-1.0/", dir: true},
		{name: "foo-1.0/configure", body: "#!/bin/sh\n"},
		{name: "foo-1.0/src/", dir: true},
		{name: "foo-1.0/src/main.c", body: "int main(void){return 0;}\n"},
		{name: "foo-1.0/COPYING.link", linkname: "configure"},
	})

	dest := filepath.Join(dir, "work")
	tree, err := Extract(archive, dest, "foo-1.0")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if tree != filepath.Join(dest, "foo-1.0") {
		t.Errorf("tree = %q, want %q", tree, filepath.Join(dest, "foo-1.0"))
	}
	data, err := os.ReadFile(filepath.Join(tree, "src", "main.c"))
	if err != nil {
		t.Fatalf("extracted file missing: %v", err)
	}
	if len(data) == 0 {
		t.Error("extracted file is empty")
	}
	if target, err := os.Readlink(filepath.Join(tree, "COPYING.link")); err != nil || target != "configure" {
		t.Errorf("symlink target = %q (%v), want configure", target, err)
	}
}

func TestExtractRemovesStaleTree(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "foo-1.0.tar.gz")
	writeTarGz(t, archive, []tarEntry{
		{name: "foo-1.0/", dir: true},
		{name: "foo-1.0/fresh", body: "new"},
	})

	dest := filepath.Join(dir, "work")
	stale := filepath.Join(dest, "foo-1.0", "leftover-from-failed-run")
	if err := os.MkdirAll(filepath.Dir(stale), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Extract(archive, dest, "foo-1.0"); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file from a previous run survived extraction")
	}
}

func TestExtractRootMismatch(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "foo-1.0.tar.gz")
	writeTarGz(t, archive, []tarEntry{
		{name: "unexpected-dir/", dir: true},
		{name: "unexpected-dir/file", body: "x"},
	})

	_, err := Extract(archive, filepath.Join(dir, "work"), "foo-1.0")
	var ee *ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("Extract = %v, want ExtractionError", err)
	}
	if ee.Want != "foo-1.0" || ee.Got != "unexpected-dir" {
		t.Errorf("ExtractionError want=%q got=%q", ee.Want, ee.Got)
	}
}

func TestExtractRootOverride(t *testing.T) {
	// Archives whose filename does not match their unpacked directory are
	// accepted when the expected root says so.
	dir := t.TempDir()
	archive := filepath.Join(dir, "libnfs-5.0.3.tar.gz")
	writeTarGz(t, archive, []tarEntry{
		{name: "libnfs-libnfs-5.0.3/", dir: true},
		{name: "libnfs-libnfs-5.0.3/configure.ac", body: "AC_INIT\n"},
	})

	tree, err := Extract(archive, filepath.Join(dir, "work"), "libnfs-libnfs-5.0.3")
	if err != nil {
		t.Fatalf("Extract with root override: %v", err)
	}
	if filepath.Base(tree) != "libnfs-libnfs-5.0.3" {
		t.Errorf("tree = %q, want the override root", tree)
	}
}

func TestExtractPathTraversal(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "evil-1.0.tar.gz")
	writeTarGz(t, archive, []tarEntry{
		{name: "evil-1.0/", dir: true},
		{name: "evil-1.0/../../escape", body: "x"},
	})

	_, err := Extract(archive, filepath.Join(dir, "work"), "evil-1.0")
	var ee *ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("Extract = %v, want ExtractionError for traversal", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "escape")); !os.IsNotExist(statErr) {
		t.Error("traversal entry escaped the destination directory")
	}
}

func TestExtractRejectsEscapingSymlink(t *testing.T) {
	tests := []struct {
		name     string
		linkname string
	}{
		{"relative escape", "../../outside"},
		{"absolute target", "/etc/passwd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			archive := filepath.Join(dir, "evil-1.0.tar.gz")
			writeTarGz(t, archive, []tarEntry{
				{name: "evil-1.0/", dir: true},
				{name: "evil-1.0/link", linkname: tt.linkname},
			})

			_, err := Extract(archive, filepath.Join(dir, "work"), "evil-1.0")
			var ee *ExtractionError
			if !errors.As(err, &ee) {
				t.Fatalf("Extract = %v, want ExtractionError for link target %q", err, tt.linkname)
			}
			if _, statErr := os.Lstat(filepath.Join(dir, "work", "evil-1.0", "link")); !os.IsNotExist(statErr) {
				t.Error("escaping symlink was created on disk")
			}
		})
	}
}

func TestExtractZip(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "foo-1.0.zip")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("foo-1.0/readme.txt")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(archive, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	tree, err := Extract(archive, filepath.Join(dir, "work"), "foo-1.0")
	if err != nil {
		t.Fatalf("Extract zip: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(tree, "readme.txt"))
	if err != nil || string(data) != "hello" {
		t.Errorf("zip entry content = %q (%v), want hello", data, err)
	}
}

func TestExtractUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "foo-1.0.rar")
	if err := os.WriteFile(archive, []byte("not an archive"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Extract(archive, filepath.Join(dir, "work"), "foo-1.0")
	var ee *ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("Extract = %v, want ExtractionError", err)
	}
}

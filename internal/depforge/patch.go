package depforge

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// PatchSource resolves declared patch identifiers to their content. The
// descriptor names patches in a fixed order; the engine never enumerates
// a directory to find them, so application order is identical on every
// platform.
type PatchSource interface {
	Open(id string) (io.ReadCloser, error)
}

// DirPatches resolves patch identifiers as file names under a directory.
type DirPatches struct {
	Dir string
}

func (p DirPatches) Open(id string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(p.Dir, id))
}

// ApplyPatches applies the descriptor's patch set to the working tree, in
// declared order, with patch -p1. The first patch that fails to apply
// aborts the whole operation: the tree is then incomplete by definition
// and the caller must not build from it.
func ApplyPatches(run Runner, tree string, src PatchSource, ids []string, logger io.Writer) error {
	for _, id := range ids {
		rc, err := src.Open(id)
		if err != nil {
			return &PatchError{Patch: id, Err: fmt.Errorf("unresolvable patch: %w", err)}
		}

		tail := newTailWriter(diagnosticTailSize)
		cmd := exec.Command("patch", "-p1")
		cmd.Dir = tree
		cmd.Stdin = rc
		cmd.Stdout = io.MultiWriter(tail, orDiscard(logger))
		cmd.Stderr = io.MultiWriter(tail, orDiscard(logger))

		err = run.Run(cmd)
		rc.Close()
		if err != nil {
			return &PatchError{Patch: id, Tail: tail.Tail(), Err: err}
		}
		debugf("applied patch %s\n", id)
	}
	return nil
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

package depforge

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// diagnosticTailSize bounds how much tool output an error carries.
const diagnosticTailSize = 8 * 1024

// Adapter turns an extracted, patched source tree into an installed
// static artifact. One implementation per upstream build-system family;
// the orchestrator neither knows nor cares which one it is holding.
type Adapter interface {
	Build(run Runner, tree string, d *Descriptor, tc *Toolchain, logger io.Writer) error
}

// AdapterFor returns the strategy for a descriptor's kind. Kinds are
// validated at registry construction, so this cannot fail at build time.
func AdapterFor(kind AdapterKind) Adapter {
	switch kind {
	case KindCMake:
		return cmakeAdapter{}
	case KindAutotools:
		return autotoolsAdapter{}
	case KindFFmpeg:
		return ffmpegAdapter{}
	default:
		return zlibAdapter{}
	}
}

// runStep executes one configure/compile/install command, capturing a
// bounded output tail. A non-zero exit becomes a BuildError.
func runStep(run Runner, step string, cmd *exec.Cmd, logger io.Writer) error {
	tail := newTailWriter(diagnosticTailSize)
	cmd.Stdout = io.MultiWriter(tail, orDiscard(logger))
	cmd.Stderr = io.MultiWriter(tail, orDiscard(logger))
	debugf("[%s] %s\n", step, strings.Join(cmd.Args, " "))
	if err := run.Run(cmd); err != nil {
		return &BuildError{
			Step:     step,
			Cmd:      strings.Join(cmd.Args, " "),
			ExitCode: exitCode(err),
			Tail:     tail.Tail(),
			Err:      err,
		}
	}
	return nil
}

// buildDirFor returns the out-of-tree build directory for a working tree.
func buildDirFor(tree string) string {
	return tree + "-build"
}

func freshBuildDir(tree string) (string, error) {
	dir := buildDirFor(tree)
	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("failed to clean build dir %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create build dir %s: %w", dir, err)
	}
	return dir, nil
}

// ArtifactPath resolves a descriptor's declared artifact under the prefix.
func ArtifactPath(prefix string, d *Descriptor) string {
	return filepath.Join(prefix, d.Artifact)
}

// IsComplete is the idempotency gate: the artifact file itself, present
// and non-empty, is the single source of truth for a finished build. No
// state files, no timestamps.
func IsComplete(prefix string, d *Descriptor) bool {
	info, err := os.Stat(ArtifactPath(prefix, d))
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}

// removeArtifact discards the declared artifact path so a failed or
// cancelled build can never be mistaken for a completed one.
func removeArtifact(prefix string, d *Descriptor) {
	_ = os.Remove(ArtifactPath(prefix, d))
}

// verifyArtifact is the final completion signal after an install step.
func verifyArtifact(prefix string, d *Descriptor) error {
	if !IsComplete(prefix, d) {
		return &BuildError{
			Step: "install",
			Cmd:  "verify " + ArtifactPath(prefix, d),
			Err:  fmt.Errorf("declared artifact %s missing after install", d.Artifact),
		}
	}
	return nil
}

// tripleArch returns the architecture component of a target triple.
func tripleArch(triple string) string {
	if i := strings.IndexByte(triple, '-'); i != -1 {
		return triple[:i]
	}
	return triple
}

// tripleOS maps a target triple to the OS name configure scripts expect.
func tripleOS(triple string) string {
	switch {
	case strings.Contains(triple, "mingw"), strings.Contains(triple, "windows"):
		return "mingw32"
	case strings.Contains(triple, "darwin"), strings.Contains(triple, "apple"):
		return "darwin"
	case strings.Contains(triple, "android"):
		return "android"
	default:
		return "linux"
	}
}

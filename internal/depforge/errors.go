package depforge

import (
	"errors"
	"fmt"
)

// NetworkError means every declared location for an archive was tried and
// none produced a transfer. It carries the last transport error only; the
// per-location failures are debug output, not part of the contract.
type NetworkError struct {
	Name      string
	Locations []string
	Last      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: all %d source locations failed: %v", e.Name, len(e.Locations), e.Last)
}

func (e *NetworkError) Unwrap() error { return e.Last }

// IntegrityError means a transferred archive did not match the descriptor's
// declared digest. The corrupt file has already been deleted when this is
// returned.
type IntegrityError struct {
	Name string
	Algo string
	Want string
	Got  string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: %s digest mismatch: want %s, got %s", e.Name, e.Algo, e.Want, e.Got)
}

// ExtractionError means the archive was malformed or its top-level
// directory did not match the expected root.
type ExtractionError struct {
	Archive string
	Want    string
	Got     string
	Err     error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Archive, e.Err)
	}
	return fmt.Sprintf("%s: archive root %q does not match expected root %q", e.Archive, e.Got, e.Want)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// PatchError means a patch failed to apply cleanly. Tail holds the patch
// tool's own diagnostic output.
type PatchError struct {
	Patch string
	Tail  string
	Err   error
}

func (e *PatchError) Error() string {
	return fmt.Sprintf("patch %s failed to apply: %v", e.Patch, e.Err)
}

func (e *PatchError) Unwrap() error { return e.Err }

// BuildError means a configure/compile/install command exited non-zero.
// Tail holds a bounded excerpt of the command's combined output.
type BuildError struct {
	Step     string
	Cmd      string
	ExitCode int
	Tail     string
	Err      error
}

func (e *BuildError) Error() string {
	if e.ExitCode != 0 {
		return fmt.Sprintf("%s step failed (exit %d): %s", e.Step, e.ExitCode, e.Cmd)
	}
	return fmt.Sprintf("%s step failed: %s: %v", e.Step, e.Cmd, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// ToolchainError means the compiler/cross-compile parameters could not be
// resolved. It invalidates the whole run, before any descriptor work.
type ToolchainError struct {
	Reason string
	Err    error
}

func (e *ToolchainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("toolchain: %s: %v", e.Reason, e.Err)
	}
	return "toolchain: " + e.Reason
}

func (e *ToolchainError) Unwrap() error { return e.Err }

// ErrorKind names the taxonomy bucket of err for the run summary.
func ErrorKind(err error) string {
	var (
		ne *NetworkError
		ie *IntegrityError
		ee *ExtractionError
		pe *PatchError
		be *BuildError
		te *ToolchainError
	)
	switch {
	case errors.As(err, &ne):
		return "NetworkError"
	case errors.As(err, &ie):
		return "IntegrityError"
	case errors.As(err, &ee):
		return "ExtractionError"
	case errors.As(err, &pe):
		return "PatchError"
	case errors.As(err, &be):
		return "BuildError"
	case errors.As(err, &te):
		return "ToolchainError"
	default:
		return "Error"
	}
}

// ErrorTail returns the captured tool output for errors that carry one.
func ErrorTail(err error) string {
	var pe *PatchError
	if errors.As(err, &pe) {
		return pe.Tail
	}
	var be *BuildError
	if errors.As(err, &be) {
		return be.Tail
	}
	return ""
}

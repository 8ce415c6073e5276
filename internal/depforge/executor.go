package depforge

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// Runner abstracts subprocess execution so adapter and patch logic can be
// tested without spawning anything.
type Runner interface {
	Run(cmd *exec.Cmd) error
}

// Executor runs build-system commands. It wires up stdio, isolates the
// child in its own process group, and kills the whole group when the run
// context is cancelled so no half-built artifact survives a stop signal.
type Executor struct {
	Context context.Context // cancellation for every command this executor runs
	Stdout  io.Writer
	Stderr  io.Writer
	Idle    bool // apply nice -n 19 to commands
}

// NewExecutor returns an Executor bound to ctx.
func NewExecutor(ctx context.Context) *Executor {
	return &Executor{Context: ctx}
}

// Run executes the given command under the executor's context.
func (e *Executor) Run(cmd *exec.Cmd) error {
	// --- Phase 0: wire up stdio ---
	if cmd.Stdout == nil {
		if e.Stdout != nil {
			cmd.Stdout = e.Stdout
		} else {
			cmd.Stdout = os.Stdout
		}
	}
	if cmd.Stderr == nil {
		if e.Stderr != nil {
			cmd.Stderr = e.Stderr
		} else {
			cmd.Stderr = os.Stderr
		}
	}

	// --- Phase 1: build the final command ---
	basePath := cmd.Path
	baseArgs := cmd.Args[1:]

	if e.Idle {
		baseArgs = append([]string{"-n", "19", basePath}, baseArgs...)
		basePath = "nice"
	}

	ctx := e.Context
	if ctx == nil {
		ctx = context.Background()
	}
	finalCmd := exec.CommandContext(ctx, basePath, baseArgs...)
	finalCmd.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		finalCmd.Env = cmd.Env
	} else {
		finalCmd.Env = os.Environ()
	}
	finalCmd.Stdin = cmd.Stdin
	finalCmd.Stdout = cmd.Stdout
	finalCmd.Stderr = cmd.Stderr

	// --- Phase 2: isolate process group for context-based cleanup ---
	finalCmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := finalCmd.Start(); err != nil {
		return fmt.Errorf("failed to start command: %w", err)
	}

	pgid := finalCmd.Process.Pid
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			syscall.Kill(-pgid, syscall.SIGKILL)
		case <-done:
		}
	}()

	if waitErr := finalCmd.Wait(); waitErr != nil {
		if ctx.Err() != nil {
			time.Sleep(100 * time.Millisecond)
			return fmt.Errorf("command aborted: %v", ctx.Err())
		}
		return waitErr
	}
	return nil
}

// tailWriter keeps the last max bytes written through it. Build output can
// be arbitrarily large; only the tail is worth carrying in an error.
type tailWriter struct {
	max int
	buf []byte
}

func newTailWriter(max int) *tailWriter {
	return &tailWriter{max: max}
}

func (w *tailWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	if len(w.buf) > w.max {
		w.buf = w.buf[len(w.buf)-w.max:]
	}
	return len(p), nil
}

func (w *tailWriter) Tail() string {
	return string(w.buf)
}

// exitCode digs the process exit status out of err, or -1.
func exitCode(err error) int {
	if ee, ok := err.(*exec.ExitError); ok {
		return ee.ExitCode()
	}
	return -1
}

package depforge

import (
	"io"
	"os/exec"
	"strconv"
)

// zlibAdapter drives the compression library's hand-written configure
// script, which is neither Autotools nor CMake: it builds in-tree, takes
// the target from the CHOST environment variable, and --static selects
// the static library.
type zlibAdapter struct{}

func (zlibAdapter) Build(run Runner, tree string, d *Descriptor, tc *Toolchain, logger io.Writer) error {
	extra := map[string]string{}
	if tc.Cross() {
		// zlib's configure has no --host; it reads CHOST.
		extra["CHOST"] = tc.Triple
	}
	env := tc.Environ(extra)

	args := []string{"--prefix=" + tc.Prefix, "--static"}
	args = append(args, d.Args...)

	cfg := exec.Command("./configure", args...)
	cfg.Dir = tree
	cfg.Env = env
	if err := runStep(run, "configure", cfg, logger); err != nil {
		return err
	}

	build := exec.Command("make", "-j"+strconv.Itoa(tc.Jobs))
	build.Dir = tree
	build.Env = env
	if err := runStep(run, "compile", build, logger); err != nil {
		return err
	}

	install := exec.Command("make", "install")
	install.Dir = tree
	install.Env = env
	return runStep(run, "install", install, logger)
}

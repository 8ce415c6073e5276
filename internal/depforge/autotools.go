package depforge

import (
	"io"
	"os/exec"
	"strconv"
)

// autotoolsAdapter drives conventional configure/make trees, building
// out-of-tree. When the descriptor asks for it, an autoreconf bootstrap
// regenerates build scripts first (trees that ship only templates).
type autotoolsAdapter struct{}

func (autotoolsAdapter) Build(run Runner, tree string, d *Descriptor, tc *Toolchain, logger io.Writer) error {
	env := tc.Environ(nil)

	if d.Bootstrap {
		boot := exec.Command("autoreconf", "-fiv")
		boot.Dir = tree
		boot.Env = env
		if err := runStep(run, "bootstrap", boot, logger); err != nil {
			return err
		}
	}

	buildDir, err := freshBuildDir(tree)
	if err != nil {
		return err
	}

	args := []string{"--prefix=" + tc.Prefix}
	if tc.Cross() {
		args = append(args, "--host="+tc.Triple)
	}
	args = append(args, d.Args...)

	cfg := exec.Command(tree+"/configure", args...)
	cfg.Dir = buildDir
	cfg.Env = env
	if err := runStep(run, "configure", cfg, logger); err != nil {
		return err
	}

	build := exec.Command("make", "-j"+strconv.Itoa(tc.Jobs))
	build.Dir = buildDir
	build.Env = env
	if err := runStep(run, "compile", build, logger); err != nil {
		return err
	}

	install := exec.Command("make", "install")
	install.Dir = buildDir
	install.Env = env
	return runStep(run, "install", install, logger)
}

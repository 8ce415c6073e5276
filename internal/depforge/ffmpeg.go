package depforge

import (
	"io"
	"os/exec"
	"strconv"
)

// ffmpegAdapter drives the codec suite's bespoke configure script. The
// lifecycle matches Autotools but cross-compilation is spelled with
// --cross-prefix/--arch/--target-os instead of --host, and the argument
// list runs to hundreds of enable/disable flags. The adapter's contract
// is pass-through fidelity: every flag, verbatim, in declared order.
type ffmpegAdapter struct{}

func (ffmpegAdapter) Build(run Runner, tree string, d *Descriptor, tc *Toolchain, logger io.Writer) error {
	buildDir, err := freshBuildDir(tree)
	if err != nil {
		return err
	}
	env := tc.Environ(nil)

	args := []string{"--prefix=" + tc.Prefix}
	if tc.CC != "" {
		args = append(args, "--cc="+tc.CC)
	}
	if tc.Cross() {
		args = append(args,
			"--enable-cross-compile",
			"--cross-prefix="+tc.CrossPrefix(),
			"--arch="+tripleArch(tc.Triple),
			"--target-os="+tripleOS(tc.Triple),
		)
		if tc.Sysroot != "" {
			args = append(args, "--sysroot="+tc.Sysroot)
		}
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

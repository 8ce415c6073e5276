package depforge

import (
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

// cmakeAdapter drives CMake-based trees: configure with -D definitions
// plus cross-compilation cache entries, build, install. No bootstrap step.
type cmakeAdapter struct{}

func (cmakeAdapter) Build(run Runner, tree string, d *Descriptor, tc *Toolchain, logger io.Writer) error {
	buildDir, err := freshBuildDir(tree)
	if err != nil {
		return err
	}
	env := tc.Environ(nil)

	args := []string{
		"-S", tree,
		"-B", buildDir,
		"-DCMAKE_INSTALL_PREFIX=" + tc.Prefix,
		"-DCMAKE_BUILD_TYPE=Release",
	}
	args = append(args, cmakeCrossArgs(tc)...)
	// Descriptor arguments are opaque: appended verbatim, in order, last.
	args = append(args, d.Args...)

	cfg := exec.Command("cmake", args...)
	cfg.Env = env
	if err := runStep(run, "configure", cfg, logger); err != nil {
		return err
	}

	build := exec.Command("cmake", "--build", buildDir, "-j", strconv.Itoa(tc.Jobs))
	build.Env = env
	if err := runStep(run, "compile", build, logger); err != nil {
		return err
	}

	install := exec.Command("cmake", "--install", buildDir)
	install.Env = env
	return runStep(run, "install", install, logger)
}

func cmakeCrossArgs(tc *Toolchain) []string {
	var args []string
	if tc.CC != "" {
		args = append(args, "-DCMAKE_C_COMPILER="+tc.CC)
	}
	if tc.CXX != "" {
		args = append(args, "-DCMAKE_CXX_COMPILER="+tc.CXX)
	}
	if !tc.Cross() {
		return args
	}
	osName := tripleOS(tc.Triple)
	sysName := map[string]string{
		"mingw32": "Windows",
		"darwin":  "Darwin",
		"android": "Android",
		"linux":   "Linux",
	}[osName]
	args = append(args,
		"-DCMAKE_SYSTEM_NAME="+sysName,
		"-DCMAKE_SYSTEM_PROCESSOR="+tripleArch(tc.Triple),
	)
	if tc.Sysroot != "" {
		args = append(args,
			"-DCMAKE_SYSROOT="+tc.Sysroot,
			fmt.Sprintf("-DCMAKE_FIND_ROOT_PATH=%s", strings.Join([]string{tc.Prefix, tc.Sysroot}, ";")),
			"-DCMAKE_FIND_ROOT_PATH_MODE_PROGRAM=NEVER",
			"-DCMAKE_FIND_ROOT_PATH_MODE_LIBRARY=ONLY",
			"-DCMAKE_FIND_ROOT_PATH_MODE_INCLUDE=ONLY",
		)
	}
	return args
}

package depforge

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// Toolchain holds the compiler and cross-compilation parameters shared
// read-only by every build in a run. Constructed once, never mutated.
type Toolchain struct {
	CC      string
	CXX     string
	AR      string
	Triple  string // target triple when cross-compiling, empty for native
	Sysroot string
	Jobs    int    // compile fan-out per build, independent of worker count
	Prefix  string // install prefix all artifacts land under
	Env     map[string]string
}

// Cross reports whether this run targets a foreign triple.
func (tc *Toolchain) Cross() bool { return tc.Triple != "" }

// CrossPrefix returns the "triple-" tool prefix used by ffmpeg-style
// configure scripts, or empty for native builds.
func (tc *Toolchain) CrossPrefix() string {
	if tc.Triple == "" {
		return ""
	}
	return tc.Triple + "-"
}

// Environ builds the process environment for a build step: the parent
// environment with CC/CXX/AR forced and the overlay applied on top.
func (tc *Toolchain) Environ(extra map[string]string) []string {
	envMap := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			envMap[k] = v
		}
	}
	if tc.CC != "" {
		envMap["CC"] = tc.CC
	}
	if tc.CXX != "" {
		envMap["CXX"] = tc.CXX
	}
	if tc.AR != "" {
		envMap["AR"] = tc.AR
	}
	for k, v := range tc.Env {
		envMap[k] = v
	}
	for k, v := range extra {
		envMap[k] = v
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+envMap[k])
	}
	return out
}

// ResolveToolchain resolves compiler identities once per run. A compiler
// that cannot be found is a ToolchainError: it invalidates the whole run
// before any descriptor work starts.
func ResolveToolchain(cfg *Config, prefix, triple string, jobs int) (*Toolchain, error) {
	if prefix == "" {
		return nil, &ToolchainError{Reason: "no install prefix"}
	}
	if jobs < 1 {
		jobs = cfg.GetInt("DEPFORGE_JOBS", DefaultJobs())
	}

	tc := &Toolchain{
		Triple:  triple,
		Sysroot: cfg.Get("DEPFORGE_SYSROOT", ""),
		Jobs:    jobs,
		Prefix:  prefix,
		Env:     map[string]string{},
	}

	// Cross tools default to triple-prefixed names; native to cc/c++/ar.
	tc.CC = cfg.Get("DEPFORGE_CC", defaultTool(triple, "gcc", "cc"))
	tc.CXX = cfg.Get("DEPFORGE_CXX", defaultTool(triple, "g++", "c++"))
	tc.AR = cfg.Get("DEPFORGE_AR", defaultTool(triple, "ar", "ar"))

	if _, err := exec.LookPath(tc.CC); err != nil {
		return nil, &ToolchainError{Reason: fmt.Sprintf("C compiler %q not found", tc.CC), Err: err}
	}
	if _, err := exec.LookPath(tc.CXX); err != nil {
		// Not all descriptors need C++, but a broken cross setup should
		// fail before work starts, same as a missing CC.
		return nil, &ToolchainError{Reason: fmt.Sprintf("C++ compiler %q not found", tc.CXX), Err: err}
	}

	if tc.Sysroot != "" {
		if _, err := os.Stat(tc.Sysroot); err != nil {
			return nil, &ToolchainError{Reason: fmt.Sprintf("sysroot %q not accessible", tc.Sysroot), Err: err}
		}
	}

	// Environment overlay: DEPFORGE_ENV is a comma-separated KEY=VALUE list.
	for _, kv := range strings.Split(cfg.Get("DEPFORGE_ENV", ""), ",") {
		kv = strings.TrimSpace(kv)
		if kv == "" {
			continue
		}
		if k, v, ok := strings.Cut(kv, "="); ok {
			tc.Env[k] = v
		}
	}

	return tc, nil
}

func defaultTool(triple, cross, native string) string {
	if triple != "" {
		return triple + "-" + cross
	}
	return native
}

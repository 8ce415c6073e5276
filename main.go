package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"depforge/internal/depforge"
)

const configFile = "/etc/depforge.conf"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigs:
			fmt.Fprintf(os.Stderr, "\n[INFO] Received %v. Cancelling builds gracefully...\n", sig)
			cancel()
			// Give in-flight commands a moment to die and flush.
			time.Sleep(100 * time.Millisecond)
			select {
			case <-sigs:
				fmt.Fprintln(os.Stderr, "\n[FATAL] Second interrupt received. Forcing immediate exit.")
				os.Exit(130)
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "version":
		fmt.Println(depforge.Version())
	case "list":
		reg := depforge.DefaultRegistry()
		for _, name := range reg.Names() {
			fmt.Println(name)
		}
	case "build":
		os.Exit(cmdBuild(ctx, os.Args[2:]))
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintln(os.Stderr, "Unknown command:", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: depforge <command> [args...]

Commands:
  build [options] [name...]   build the named dependencies (default: all)
  list                        list registered dependencies
  version                     print the version

Run 'depforge build -h' for build options.
`)
}

func cmdBuild(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	var (
		cfgPath = fs.String("c", configFile, "configuration file")
		prefix  = fs.String("p", "", "install prefix (required)")
		triple  = fs.String("t", "", "target triple for cross-compilation")
		workers = fs.Int("w", 0, "concurrent builds (default: CPU count)")
		jobs    = fs.Int("j", 0, "make jobs per build (default: CPU count)")
		patches = fs.String("patches", "", "directory containing patch files")
		quiet   = fs.Bool("q", false, "suppress progress output")
		debug   = fs.Bool("d", false, "enable debug output")
	)
	fs.Parse(args)

	depforge.Debug = *debug

	if *prefix == "" {
		fmt.Fprintln(os.Stderr, "Error: install prefix is required (-p)")
		return 2
	}

	cfg, err := depforge.LoadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error reading configuration:", err)
		return 1
	}

	tc, err := depforge.ResolveToolchain(cfg, *prefix, *triple, *jobs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	fetcher := depforge.NewFetcher(cfg.Get("DEPFORGE_CACHE", ""))
	fetcher.Quiet = *quiet

	orch := &depforge.Orchestrator{
		Registry:  depforge.DefaultRegistry(),
		Toolchain: tc,
		Fetcher:   fetcher,
		WorkRoot:  cfg.Get("DEPFORGE_WORK", ""),
		Runner:    &depforge.Executor{Context: ctx, Idle: true},
		Quiet:     *quiet,
	}
	if *patches != "" {
		orch.Patches = &depforge.DirPatches{Dir: *patches}
	}

	n := *workers
	if n < 1 {
		n = depforge.DefaultJobs()
	}

	summary, err := orch.Run(ctx, fs.Args(), n)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	printSummary(summary)
	if !summary.OK() {
		return 1
	}
	return 0
}

func printSummary(s *depforge.Summary) {
	if len(s.Succeeded) > 0 {
		depforge.Successf("Built: %s\n", strings.Join(s.Succeeded, ", "))
	}
	if len(s.Skipped) > 0 {
		depforge.Infof("Up to date: %s\n", strings.Join(s.Skipped, ", "))
	}

	failed := make([]string, 0, len(s.Failed))
	for name := range s.Failed {
		failed = append(failed, name)
	}
	sort.Strings(failed)
	for _, name := range failed {
		err := s.Failed[name]
		depforge.Errorf("%s failed (%s): %v\n", name, depforge.ErrorKind(err), err)
		if tail := depforge.ErrorTail(err); tail != "" {
			fmt.Fprintln(os.Stderr, strings.TrimRight(tail, "\n"))
		}
		if log, ok := s.LogFiles[name]; ok {
			depforge.Notef("full log: %s\n", log)
		}
	}

	blocked := make([]string, 0, len(s.Blocked))
	for name := range s.Blocked {
		blocked = append(blocked, name)
	}
	sort.Strings(blocked)
	for _, name := range blocked {
		depforge.Warnf("%s not attempted: %s\n", name, s.Blocked[name])
	}
}

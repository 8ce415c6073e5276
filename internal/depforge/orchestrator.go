package depforge

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// Orchestrator schedules descriptors over a bounded worker pool. It does
// no blocking work itself beyond dispatch and result collection; each
// worker owns one descriptor end-to-end (gate, fetch, extract, patch,
// build).
type Orchestrator struct {
	Registry  *Registry
	Toolchain *Toolchain
	Fetcher   *Fetcher
	Patches   PatchSource
	WorkRoot  string
	Runner    Runner
	Quiet     bool

	// Builder is the per-descriptor pipeline; replaceable for testing.
	Builder func(ctx context.Context, d *Descriptor, logger io.Writer) error

	mu            sync.Mutex // guards the status snapshot below
	statusRunning []string
	statusDone    int
	statusLeft    int
}

func (o *Orchestrator) setStatus(running map[string]time.Time, done, left int) {
	names := make([]string, 0, len(running))
	for n := range running {
		names = append(names, n)
	}
	sort.Strings(names)
	o.mu.Lock()
	o.statusRunning = names
	o.statusDone = done
	o.statusLeft = left
	o.mu.Unlock()
}

// Summary aggregates per-descriptor outcomes for a run.
type Summary struct {
	Succeeded []string
	Skipped   []string          // artifact already present, no work performed
	Failed    map[string]error
	Blocked   map[string]string // name -> why it was never attempted
	LogFiles  map[string]string // failed name -> retained build log path
}

// OK reports whether every selected descriptor reached its artifact.
func (s *Summary) OK() bool {
	return len(s.Failed) == 0 && len(s.Blocked) == 0
}

type result struct {
	name    string
	err     error
	skipped bool
	logPath string
}

// Run builds the selected descriptors (empty selection = all registered)
// with at most workers concurrent builds. Sibling failures never stop
// independent descriptors; only true graph successors are blocked.
func (o *Orchestrator) Run(ctx context.Context, selection []string, workers int) (*Summary, error) {
	deps, err := o.Registry.Select(selection)
	if err != nil {
		return nil, err
	}
	if err := checkAcyclic(deps); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}
	if o.Builder == nil {
		o.Builder = o.buildOne
	}
	if err := os.MkdirAll(o.WorkRoot, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create work directory %s: %w", o.WorkRoot, err)
	}

	summary := &Summary{
		Failed:   make(map[string]error),
		Blocked:  make(map[string]string),
		LogFiles: make(map[string]string),
	}

	pending := append([]*Descriptor(nil), deps...)
	running := make(map[string]time.Time)
	completed := make(map[string]bool)
	results := make(chan result, workers)

	var wg sync.WaitGroup
	defer wg.Wait()

	uiDone := make(chan struct{})
	if o.showStatus() {
		go o.statusLoop(uiDone)
	}
	defer close(uiDone)

	for len(pending) > 0 || len(running) > 0 {
		// Dispatch everything that is ready, up to the worker bound. A
		// cancelled context stops dispatch immediately; in-flight builds
		// are killed through the executor's context.
		if ctx.Err() == nil {
			var next []*Descriptor
			for _, d := range pending {
				if len(running) >= workers {
					next = append(next, d)
					continue
				}
				switch o.readiness(d, completed, summary.Failed) {
				case ready:
					running[d.Name] = time.Now()
					wg.Add(1)
					go func(d *Descriptor) {
						defer wg.Done()
						results <- o.work(ctx, d)
					}(d)
				case blocked:
					summary.Blocked[d.Name] = blockReason(d, summary.Failed, summary.Blocked)
				default:
					next = append(next, d)
				}
			}
			pending = next
		}
		o.setStatus(running, len(completed), len(pending))

		if len(running) == 0 {
			if ctx.Err() != nil || len(pending) == 0 {
				break
			}
			// Nothing running and nothing dispatchable: predecessors must
			// have failed or been blocked; sweep the rest into Blocked.
			for _, d := range pending {
				summary.Blocked[d.Name] = blockReason(d, summary.Failed, summary.Blocked)
			}
			pending = nil
			continue
		}

		res := <-results
		delete(running, res.name)
		switch {
		case res.err != nil:
			summary.Failed[res.name] = res.err
			if res.logPath != "" {
				summary.LogFiles[res.name] = res.logPath
			}
		case res.skipped:
			summary.Skipped = append(summary.Skipped, res.name)
			completed[res.name] = true
		default:
			summary.Succeeded = append(summary.Succeeded, res.name)
			completed[res.name] = true
		}
	}

	if ctx.Err() != nil {
		for _, d := range pending {
			summary.Blocked[d.Name] = "run cancelled"
		}
	}

	sort.Strings(summary.Succeeded)
	sort.Strings(summary.Skipped)
	return summary, nil
}

type readyState int

const (
	ready readyState = iota
	waiting
	blocked
)

// readiness checks a descriptor's graph predecessors. A predecessor whose
// artifact already exists counts as satisfied even if this run never
// touched it.
func (o *Orchestrator) readiness(d *Descriptor, completed map[string]bool, failed map[string]error) readyState {
	state := ready
	for _, n := range d.Needs {
		if completed[n] {
			continue
		}
		if _, bad := failed[n]; bad {
			return blocked
		}
		nd, _ := o.Registry.Lookup(n)
		if nd != nil && IsComplete(o.Toolchain.Prefix, nd) {
			continue
		}
		state = waiting
	}
	return state
}

func blockReason(d *Descriptor, failed map[string]error, alreadyBlocked map[string]string) string {
	for _, n := range d.Needs {
		if _, bad := failed[n]; bad {
			return "dependency failed: " + n
		}
		if _, bad := alreadyBlocked[n]; bad {
			return "dependency blocked: " + n
		}
	}
	return "dependency not satisfied"
}

// work runs one descriptor end-to-end: idempotency gate first, then the
// full pipeline, logging to a per-descriptor file that is kept only on
// failure.
func (o *Orchestrator) work(ctx context.Context, d *Descriptor) result {
	// The gate strictly happens-before any fetch or build work.
	if IsComplete(o.Toolchain.Prefix, d) {
		debugf("%s: artifact present, skipping\n", d.Name)
		return result{name: d.Name, skipped: true}
	}

	var logger io.Writer = io.Discard
	var logPath string
	if f, err := os.CreateTemp(o.WorkRoot, "build-"+d.Name+"-*.log"); err == nil {
		logger = f
		logPath = f.Name()
		defer f.Close()
	}

	err := o.Builder(ctx, d, logger)
	if err == nil && logPath != "" {
		os.Remove(logPath)
		logPath = ""
	}
	return result{name: d.Name, err: err, logPath: logPath}
}

// buildOne is the default pipeline: fetch, extract, patch, adapter build,
// artifact verification. Any failure or cancellation leaves the declared
// artifact path absent.
func (o *Orchestrator) buildOne(ctx context.Context, d *Descriptor, logger io.Writer) error {
	archive, err := o.Fetcher.Fetch(ctx, d)
	if err != nil {
		return err
	}

	tree, err := Extract(archive, filepath.Join(o.WorkRoot, d.Name), d.ExpectedRoot())
	if err != nil {
		return err
	}

	if len(d.Patches) > 0 {
		if o.Patches == nil {
			return &PatchError{Patch: d.Patches[0], Err: fmt.Errorf("no patch source configured")}
		}
		if err := ApplyPatches(o.Runner, tree, o.Patches, d.Patches, logger); err != nil {
			return err
		}
	}

	if err := AdapterFor(d.Kind).Build(o.Runner, tree, d, o.Toolchain, logger); err != nil {
		removeArtifact(o.Toolchain.Prefix, d)
		return err
	}
	if ctx.Err() != nil {
		removeArtifact(o.Toolchain.Prefix, d)
		return fmt.Errorf("build aborted: %w", ctx.Err())
	}
	return verifyArtifact(o.Toolchain.Prefix, d)
}

// checkAcyclic rejects dependency cycles up front with Kahn's algorithm.
func checkAcyclic(deps []*Descriptor) error {
	indeg := make(map[string]int, len(deps))
	succ := make(map[string][]string)
	inSet := make(map[string]bool, len(deps))
	for _, d := range deps {
		inSet[d.Name] = true
	}
	for _, d := range deps {
		for _, n := range d.Needs {
			if !inSet[n] {
				continue
			}
			indeg[d.Name]++
			succ[n] = append(succ[n], d.Name)
		}
	}
	var queue []string
	for _, d := range deps {
		if indeg[d.Name] == 0 {
			queue = append(queue, d.Name)
		}
	}
	seen := 0
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		seen++
		for _, s := range succ[n] {
			indeg[s]--
			if indeg[s] == 0 {
				queue = append(queue, s)
			}
		}
	}
	if seen != len(deps) {
		var cyclic []string
		for _, d := range deps {
			if indeg[d.Name] > 0 {
				cyclic = append(cyclic, d.Name)
			}
		}
		sort.Strings(cyclic)
		return fmt.Errorf("dependency cycle involving: %s", strings.Join(cyclic, ", "))
	}
	return nil
}

func (o *Orchestrator) showStatus() bool {
	return !o.Quiet && !Debug && term.IsTerminal(int(os.Stdout.Fd()))
}

// statusLoop redraws a one-line progress status while builds run.
func (o *Orchestrator) statusLoop(done chan struct{}) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	last := ""
	for {
		select {
		case <-done:
			fmt.Print("\r\033[K")
			return
		case <-ticker.C:
			o.mu.Lock()
			names := o.statusRunning
			doneCount, left := o.statusDone, o.statusLeft
			o.mu.Unlock()
			list := strings.Join(names, ", ")
			if len(list) > 60 {
				list = list[:57] + "..."
			}
			status := fmt.Sprintf("%s %s %s | %s",
				colArrow.Sprint("->"),
				colSuccess.Sprintf("Building [%d]:", len(names)),
				colNote.Sprint(list),
				colSuccess.Sprintf("Done: %d Left: %d", doneCount, left))
			if status != last {
				fmt.Print("\r\033[K" + status)
				last = status
			}
		}
	}
}

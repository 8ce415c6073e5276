package depforge

import (
	"crypto/md5"
	"crypto/sha256"
	"fmt"
	"hash"
	"net/url"
	"path"
	"sort"
	"strings"
)

// AdapterKind selects the build-system strategy for a descriptor.
type AdapterKind string

const (
	KindCMake     AdapterKind = "cmake"
	KindAutotools AdapterKind = "autotools"
	KindFFmpeg    AdapterKind = "ffmpeg"
	KindZlib      AdapterKind = "zlib"
)

// Descriptor describes one third-party dependency: where its source
// archive lives, how to prove its integrity, how to build it, and where
// the resulting static library must appear under the install prefix.
// Descriptors are immutable for the duration of a run.
type Descriptor struct {
	Name      string
	Locations []string // primary URL plus fallback mirrors, tried in order
	Digest    string   // hex; algorithm inferred from length
	Artifact  string   // artifact path relative to the install prefix
	Kind      AdapterKind
	Args      []string // opaque configure arguments, passed verbatim
	Patches   []string // ordered patch identifiers, resolved by a PatchSource
	Root      string   // extracted top-level dir when it differs from the archive name
	Bootstrap bool     // regenerate build scripts (autoreconf) before configure
	Needs     []string // names of descriptors that must be built first
}

// DigestAlgo infers the checksum algorithm from the digest length.
func (d *Descriptor) DigestAlgo() (string, error) {
	switch len(d.Digest) {
	case md5.Size * 2:
		return "md5", nil
	case sha256.Size * 2:
		return "sha256", nil
	default:
		return "", fmt.Errorf("%s: unrecognized digest length %d", d.Name, len(d.Digest))
	}
}

func (d *Descriptor) newDigestHash() (hash.Hash, error) {
	algo, err := d.DigestAlgo()
	if err != nil {
		return nil, err
	}
	switch algo {
	case "md5":
		return md5.New(), nil
	default:
		return sha256.New(), nil
	}
}

// ArchiveName returns the archive filename, taken from the first location.
func (d *Descriptor) ArchiveName() string {
	if len(d.Locations) == 0 {
		return ""
	}
	if u, err := url.Parse(d.Locations[0]); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(d.Locations[0])
}

// ExpectedRoot returns the top-level directory the archive must unpack
// into: the explicit override when set, otherwise the archive filename
// with its compression suffixes stripped.
func (d *Descriptor) ExpectedRoot() string {
	if d.Root != "" {
		return d.Root
	}
	return stripArchiveSuffix(d.ArchiveName())
}

func stripArchiveSuffix(name string) string {
	for _, suf := range []string{
		".tar.gz", ".tgz", ".tar.bz2", ".tar.xz", ".tar.zst", ".tar", ".zip",
	} {
		if strings.HasSuffix(name, suf) {
			return strings.TrimSuffix(name, suf)
		}
	}
	return name
}

// Registry maps dependency names to descriptors. It is pure data, owned
// by the caller; the engine never mutates it.
type Registry struct {
	byName map[string]*Descriptor
	order  []string
}

// NewRegistry validates descriptors and indexes them by name.
func NewRegistry(deps ...*Descriptor) (*Registry, error) {
	r := &Registry{byName: make(map[string]*Descriptor, len(deps))}
	for _, d := range deps {
		if d.Name == "" {
			return nil, fmt.Errorf("descriptor with empty name")
		}
		if _, dup := r.byName[d.Name]; dup {
			return nil, fmt.Errorf("duplicate descriptor name %q", d.Name)
		}
		if len(d.Locations) == 0 {
			return nil, fmt.Errorf("%s: no source locations", d.Name)
		}
		if _, err := d.DigestAlgo(); err != nil {
			return nil, err
		}
		if d.Artifact == "" {
			return nil, fmt.Errorf("%s: no artifact path", d.Name)
		}
		switch d.Kind {
		case KindCMake, KindAutotools, KindFFmpeg, KindZlib:
		default:
			return nil, fmt.Errorf("%s: unknown adapter kind %q", d.Name, d.Kind)
		}
		r.byName[d.Name] = d
		r.order = append(r.order, d.Name)
	}
	// Needs may only refer to registered names.
	for _, d := range deps {
		for _, n := range d.Needs {
			if _, ok := r.byName[n]; !ok {
				return nil, fmt.Errorf("%s: unknown dependency %q", d.Name, n)
			}
		}
	}
	return r, nil
}

// Lookup returns the descriptor for name.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Names lists all registered names in declaration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Select resolves a user selection to descriptors, pulling in graph
// predecessors transitively. An empty selection means everything.
func (r *Registry) Select(names []string) ([]*Descriptor, error) {
	if len(names) == 0 {
		names = r.Names()
	}
	seen := make(map[string]bool)
	var out []*Descriptor
	var add func(name string) error
	add = func(name string) error {
		if seen[name] {
			return nil
		}
		d, ok := r.byName[name]
		if !ok {
			return fmt.Errorf("unknown dependency %q", name)
		}
		seen[name] = true
		for _, n := range d.Needs {
			if err := add(n); err != nil {
				return err
			}
		}
		out = append(out, d)
		return nil
	}
	for _, name := range names {
		if err := add(name); err != nil {
			return nil, err
		}
	}
	// Stabilize to registry declaration order.
	pos := make(map[string]int, len(r.order))
	for i, n := range r.order {
		pos[n] = i
	}
	sort.SliceStable(out, func(i, j int) bool { return pos[out[i].Name] < pos[out[j].Name] })
	return out, nil
}

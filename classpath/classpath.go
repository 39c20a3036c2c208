// Package classpath locates class files by binary name across directories,
// jars and in-memory sources.
package classpath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/classgraph/classfile"
	"github.com/dhamidi/classgraph/metrics"
)

var log = commonlog.GetLogger("classgraph.classpath")

// Entry is one element of a class path.
type Entry interface {
	// ReadClass returns the bytes of a class file by binary name (a/b/C$D).
	ReadClass(binaryName string) (data []byte, found bool, err error)
	// List returns the binary names of every class in the entry.
	List() ([]string, error)
	// Kind labels the entry in metrics: "dir", "jar" or "memory".
	Kind() string
	Close() error
}

// Path searches its entries in order; the first entry holding a class wins.
type Path struct {
	entries []Entry
	metrics *metrics.Metrics
}

func New(entries ...Entry) *Path {
	return &Path{entries: entries}
}

// Open builds a path from file system locations. Directories become Dir
// entries, .jar and .zip files become Jar entries.
func Open(locations []string, m *metrics.Metrics) (*Path, error) {
	p := &Path{metrics: m}
	for _, loc := range locations {
		entry, err := openEntry(loc)
		if err != nil {
			p.Close()
			return nil, err
		}
		log.Debug("classpath entry", "location", loc, "kind", entry.Kind())
		p.entries = append(p.entries, entry)
	}
	return p, nil
}

// SplitList splits each value on the OS path list separator and drops empty
// elements.
func SplitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range filepath.SplitList(v) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func openEntry(loc string) (Entry, error) {
	info, err := os.Stat(loc)
	if err != nil {
		return nil, fmt.Errorf("classpath entry %s: %w", loc, err)
	}
	if info.IsDir() {
		return NewDir(loc), nil
	}
	switch strings.ToLower(filepath.Ext(loc)) {
	case ".jar", ".zip":
		return OpenJar(loc)
	}
	return nil, fmt.Errorf("classpath entry %s: not a directory, jar or zip", loc)
}

func (p *Path) Entries() []Entry { return p.entries }

func (p *Path) ReadClass(binaryName string) ([]byte, bool, error) {
	for _, e := range p.entries {
		data, found, err := e.ReadClass(binaryName)
		p.metrics.ClasspathLookup(e.Kind(), found)
		if err != nil {
			return nil, false, err
		}
		if found {
			return data, true, nil
		}
	}
	return nil, false, nil
}

// List returns the sorted, unique flat names of all classes on the path.
// When match is not nil only matching flat names are kept.
func (p *Path) List(match glob.Glob) ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	for _, e := range p.entries {
		binaries, err := e.List()
		if err != nil {
			return nil, err
		}
		for _, b := range binaries {
			if strings.HasSuffix(b, "module-info") || strings.HasSuffix(b, "package-info") {
				continue
			}
			flat := classfile.FlatName(b)
			if seen[flat] || (match != nil && !match.Match(flat)) {
				continue
			}
			seen[flat] = true
			names = append(names, flat)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (p *Path) Close() error {
	var errs []error
	for _, e := range p.entries {
		if err := e.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CompileMatch compiles a class name pattern. Segments are separated by
// dots: com.acme.* matches classes of com.acme, com.acme.** also matches
// subpackages and nested classes.
func CompileMatch(pattern string) (glob.Glob, error) {
	g, err := glob.Compile(pattern, '.')
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	return g, nil
}

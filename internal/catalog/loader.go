// Package catalog loads and serves the subject/topic reference data the
// scheduling engine runs against. Subjects are immutable once loaded.
package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Catalog holds the loaded subject data, ordered by subject name. The
// name ordering is the fixed priority order the stream builder iterates in.
type Catalog struct {
	subjects []Subject
	byName   map[string]int
	mu       sync.RWMutex
}

// Load reads every subject YAML file under rootDir and returns a catalog.
func Load(rootDir string) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]int)}

	err := filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
			return nil
		}
		return c.loadSubject(path)
	})
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	c.reindex()
	slog.Info("catalog loaded", "subjects", len(c.subjects), "topics", c.topicCount())
	return c, nil
}

// New builds a catalog directly from subjects (tests, Excel import).
func New(subjects []Subject) *Catalog {
	c := &Catalog{
		subjects: append([]Subject(nil), subjects...),
		byName:   make(map[string]int),
	}
	c.reindex()
	return c
}

func (c *Catalog) loadSubject(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var subject Subject
	if err := yaml.Unmarshal(data, &subject); err != nil {
		slog.Warn("skipping invalid subject YAML", "path", path, "error", err)
		return nil
	}
	if subject.Name == "" {
		return nil // Not a subject file
	}

	c.mu.Lock()
	c.subjects = append(c.subjects, subject)
	c.mu.Unlock()

	return nil
}

// reindex sorts subjects by name and rebuilds the lookup index. Name order
// is deterministic regardless of filesystem walk order.
func (c *Catalog) reindex() {
	c.mu.Lock()
	defer c.mu.Unlock()
	sort.Slice(c.subjects, func(i, j int) bool {
		return c.subjects[i].Name < c.subjects[j].Name
	})
	for i, s := range c.subjects {
		c.byName[s.Name] = i
	}
}

// Subjects returns all subjects in catalog order.
func (c *Catalog) Subjects() []Subject {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Subject(nil), c.subjects...)
}

// Subject returns a subject by name.
func (c *Catalog) Subject(name string) (Subject, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byName[name]
	if !ok {
		return Subject{}, false
	}
	return c.subjects[i], true
}

// Filter returns the subjects whose names appear in keep, preserving
// catalog order. Unknown names are ignored.
func (c *Catalog) Filter(keep []string) []Subject {
	want := make(map[string]bool, len(keep))
	for _, n := range keep {
		want[n] = true
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Subject
	for _, s := range c.subjects {
		if want[s.Name] {
			out = append(out, s)
		}
	}
	return out
}

func (c *Catalog) topicCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, s := range c.subjects {
		n += len(s.Topics)
	}
	return n
}

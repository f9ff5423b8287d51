// Package registry holds the static cruise reference table: which remote
// folder publishes each cruise's files, and which instrument array the cruise
// serviced.
//
// A Registry is loaded once at process start and is read-only afterwards, so
// it is safe for concurrent use without locking.
package registry

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/discrete-summary/internal/table"
)

//go:embed data/source.csv
var defaultSource []byte

// Cruise is one research vessel deployment.
type Cruise struct {
	ID        string `yaml:"cruise_id" validate:"required"`
	FolderURL string `yaml:"folder_url" validate:"required,url"`
	ArrayRD   string `yaml:"array_rd" validate:"required,alphanum,uppercase"`
}

// Registry maps cruise IDs to cruises. Iteration follows load order.
type Registry struct {
	cruises map[string]Cruise
	order   []string
}

var validate = validator.New()

// New validates cruises and builds a registry. All problems are reported in
// one error.
func New(cruises []Cruise) (*Registry, error) {
	r := &Registry{cruises: make(map[string]Cruise, len(cruises))}

	var errs []string
	for i, c := range cruises {
		c.ID = strings.TrimSpace(c.ID)
		c.FolderURL = strings.TrimSpace(c.FolderURL)
		c.ArrayRD = strings.TrimSpace(c.ArrayRD)

		if err := validate.Struct(c); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				for _, fe := range verrs {
					errs = append(errs, fmt.Sprintf("row %d (%s): %s failed %q", i+1, c.ID, fe.Field(), fe.Tag()))
				}
				continue
			}
			return nil, err
		}
		if _, dup := r.cruises[c.ID]; dup {
			errs = append(errs, fmt.Sprintf("row %d: duplicate cruise_id %q", i+1, c.ID))
			continue
		}
		r.cruises[c.ID] = c
		r.order = append(r.order, c.ID)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("registry validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return r, nil
}

// Default returns the registry bundled with the binary.
func Default() (*Registry, error) {
	return ReadCSV(bytes.NewReader(defaultSource))
}

// Load reads a registry file. CSV and YAML (.yaml, .yml) are accepted; an
// empty path loads the bundled registry.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(f)
	case ".yaml", ".yml":
		return ReadYAML(f)
	default:
		return nil, fmt.Errorf("registry %s: unsupported extension", path)
	}
}

// ReadCSV parses a registry with cruise_id, folder_url, and array_rd columns.
func ReadCSV(r io.Reader) (*Registry, error) {
	t, err := table.ReadCSV(r)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	cols := make([]*table.Column, 3)
	for i, name := range []string{"cruise_id", "folder_url", "array_rd"} {
		c, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("read registry: missing %q column", name)
		}
		cols[i] = c
	}

	cruises := make([]Cruise, t.Len())
	for i := range cruises {
		cruises[i] = Cruise{
			ID:        cols[0].Values[i].Text(),
			FolderURL: cols[1].Values[i].Text(),
			ArrayRD:   cols[2].Values[i].Text(),
		}
	}
	return New(cruises)
}

// ReadYAML parses a registry written as a YAML list of cruises.
func ReadYAML(r io.Reader) (*Registry, error) {
	var doc struct {
		Cruises []Cruise `yaml:"cruises"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	return New(doc.Cruises)
}

// Get returns the cruise with the given ID.
func (r *Registry) Get(id string) (Cruise, bool) {
	c, ok := r.cruises[id]
	return c, ok
}

// All returns every cruise in load order.
func (r *Registry) All() []Cruise {
	out := make([]Cruise, len(r.order))
	for i, id := range r.order {
		out[i] = r.cruises[id]
	}
	return out
}

// Arrays returns the distinct array reference designators, sorted.
func (r *Registry) Arrays() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range r.cruises {
		if !seen[c.ArrayRD] {
			seen[c.ArrayRD] = true
			out = append(out, c.ArrayRD)
		}
	}
	sort.Strings(out)
	return out
}

// Len returns the number of cruises.
func (r *Registry) Len() int { return len(r.order) }

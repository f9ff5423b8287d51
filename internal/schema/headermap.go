package schema

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/JonMunkholm/discrete-summary/internal/table"
)

// HeaderMapColumn is the header-map column listing published header text.
const HeaderMapColumn = "summaryColumn"

//go:embed data/discrete_summary_header_map.csv
var defaultHeaderMap []byte

// HeaderMap is the reference list of published summary headers and their
// parsed labels. It is read-only after loading.
type HeaderMap struct {
	labels  []ColumnLabel
	catalog *Catalog
}

// DefaultHeaderMap returns the header map bundled with the binary.
func DefaultHeaderMap() (*HeaderMap, error) {
	return ReadHeaderMap(bytes.NewReader(defaultHeaderMap))
}

// LoadHeaderMap reads a header map CSV from path. An empty path loads the
// bundled map.
func LoadHeaderMap(path string) (*HeaderMap, error) {
	if path == "" {
		return DefaultHeaderMap()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open header map: %w", err)
	}
	defer f.Close()
	return ReadHeaderMap(f)
}

// ReadHeaderMap parses a header map CSV with a summaryColumn column.
func ReadHeaderMap(r io.Reader) (*HeaderMap, error) {
	t, err := table.ReadCSV(r)
	if err != nil {
		return nil, fmt.Errorf("read header map: %w", err)
	}
	col, ok := t.Column(HeaderMapColumn)
	if !ok {
		return nil, fmt.Errorf("header map: missing %q column", HeaderMapColumn)
	}

	hm := &HeaderMap{}
	seen := make(map[string]string, col.Len())
	for _, v := range col.Values {
		if v.IsNull() {
			continue
		}
		label, _, ok := ParseHeader(v.Text())
		if !ok {
			continue
		}
		if prev, dup := seen[label.Name]; dup {
			return nil, fmt.Errorf("header map: %q and %q both map to %q", prev, label.Raw, label.Name)
		}
		seen[label.Name] = label.Raw
		hm.labels = append(hm.labels, label)
	}
	hm.catalog = NewCatalog(Names(hm.labels))
	return hm, nil
}

// Labels returns the parsed labels in file order.
func (h *HeaderMap) Labels() []ColumnLabel {
	out := make([]ColumnLabel, len(h.labels))
	copy(out, h.labels)
	return out
}

// ExpectedColumns returns the canonical names every summary file should carry.
func (h *HeaderMap) ExpectedColumns() []string { return Names(h.labels) }

// Catalog returns the field catalog built from the map.
func (h *HeaderMap) Catalog() *Catalog { return h.catalog }

package core

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/JonMunkholm/discrete-summary/internal/contents"
)

// FileDescriptor describes one file in a cruise folder.
type FileDescriptor = contents.FileDescriptor

// Kind classifies a published file.
type Kind = contents.Kind

const (
	KindAll     = contents.KindAll
	KindReadme  = contents.KindReadme
	KindSummary = contents.KindSummary
)

// publishedAfter excludes placeholder files from before the program began
// publishing summaries.
var publishedAfter = time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC)

const (
	readmeMarker  = "README"
	summaryMarker = "Discrete_Summary"
	legacyExcel   = ".xls"
)

// ParseKind validates a kind argument.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindAll, KindReadme, KindSummary:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q (want all, readme, or summary)", ErrInvalidKind, s)
}

// FilterContents keeps README and discrete summary files modified after
// 2013, classifies each one, and returns those of the requested kind.
// Legacy .xls/.xlsx uploads are excluded. The input is not modified.
func FilterContents(files []FileDescriptor, kind Kind) ([]FileDescriptor, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}

	out := make([]FileDescriptor, 0, len(files))
	for _, f := range files {
		if !f.Modified.Valid || !f.Modified.Time.After(publishedAfter) {
			continue
		}
		if strings.Contains(f.Name, legacyExcel) {
			continue
		}
		switch {
		case strings.Contains(f.Name, readmeMarker):
			f.Kind = KindReadme
		case strings.Contains(f.Name, summaryMarker):
			f.Kind = KindSummary
		default:
			continue
		}
		if kind != KindAll && f.Kind != kind {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

type contentKey struct {
	cruiseID string
	kind     Kind
}

// LatestContent picks the most recently modified descriptor per cruise, or
// per cruise and kind when any descriptor is classified. The result is
// ordered by cruise then kind.
func LatestContent(files []FileDescriptor) ([]FileDescriptor, error) {
	byKind := false
	for _, f := range files {
		if f.Kind != "" {
			byKind = true
			break
		}
	}

	latest := make(map[contentKey]FileDescriptor)
	for _, f := range files {
		if f.CruiseID == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingCruiseID, f.Name)
		}
		key := contentKey{cruiseID: f.CruiseID}
		if byKind {
			key.kind = f.Kind
		}
		cur, ok := latest[key]
		if !ok || newer(f, cur) {
			latest[key] = f
		}
	}

	keys := make([]contentKey, 0, len(latest))
	for k := range latest {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].cruiseID != keys[j].cruiseID {
			return keys[i].cruiseID < keys[j].cruiseID
		}
		return keys[i].kind < keys[j].kind
	})

	out := make([]FileDescriptor, len(keys))
	for i, k := range keys {
		out[i] = latest[k]
	}
	return out, nil
}

// newer reports whether a was modified after b. An unknown timestamp is
// older than any known one; ties keep the first seen.
func newer(a, b FileDescriptor) bool {
	if !a.Modified.Valid {
		return false
	}
	if !b.Modified.Valid {
		return true
	}
	return a.Modified.Time.After(b.Modified.Time)
}

// checkSummaries verifies that every descriptor is a summary file.
func checkSummaries(files []FileDescriptor) error {
	if len(files) == 0 {
		return ErrNoDescriptors
	}
	kinds := make(map[Kind]struct{})
	for _, f := range files {
		kinds[f.Kind] = struct{}{}
	}
	if len(kinds) > 1 {
		return ErrMixedKinds
	}
	if _, ok := kinds[KindSummary]; !ok {
		return ErrNotSummary
	}
	return nil
}

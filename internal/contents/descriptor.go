// Package contents retrieves what a cruise folder publishes: the folder
// listing (file names, links, sizes, timestamps) and the tabular sample files
// it links to.
package contents

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// Kind classifies a published file.
type Kind string

const (
	KindAll     Kind = "all"
	KindReadme  Kind = "readme"
	KindSummary Kind = "summary"
)

// FileDescriptor describes one file in a cruise folder.
type FileDescriptor struct {
	CruiseID    string
	Name        string
	URL         string
	Description string
	Size        string
	Created     pgtype.Timestamp
	Modified    pgtype.Timestamp
	Kind        Kind // "" until classified
}

package contents

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/JonMunkholm/discrete-summary/internal/table"
)

// ErrNoRecordSet is returned when a listing page lacks the file table.
var ErrNoRecordSet = errors.New("listing has no file record set")

// listingTableIndex selects the record set holding files; the first one on
// the page lists sub-folders.
const listingTableIndex = 1

// Cell ids carrying per-file metadata.
const (
	descriptionCell = "col13-txt"
	sizeCell        = "col15-txt"
	createdCell     = "col16-txt"
	modifiedCell    = "col17-txt"
)

// ParseListing extracts file descriptors from a folder listing page.
//
// Within the second table with class "recordSet", an element with a class
// attribute is a column header, an anchor with target="new" starts a new
// file, and elements whose id carries one of the col13/15/16/17 cell markers
// fill that file's description, size, created, and modified fields. Relative
// links are resolved against the scheme and host of folderURL. A repeated
// file name replaces the earlier entry in place.
func ParseListing(r io.Reader, folderURL string) ([]FileDescriptor, error) {
	base, err := url.Parse(folderURL)
	if err != nil {
		return nil, fmt.Errorf("parse folder url: %w", err)
	}
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}

	var tables []*html.Node
	walk(doc, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" && attr(n, "class") == "recordSet" {
			tables = append(tables, n)
		}
	})
	if len(tables) <= listingTableIndex {
		return nil, ErrNoRecordSet
	}

	var files []FileDescriptor
	index := make(map[string]int)
	current := -1
	walk(tables[listingTableIndex], func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		text := leadingText(n)
		if text == "" {
			return
		}
		if hasAttr(n, "class") {
			return
		}
		if attr(n, "target") == "new" {
			fd := FileDescriptor{
				Name: text,
				URL:  base.Scheme + "://" + base.Host + attr(n, "href"),
			}
			if i, ok := index[fd.Name]; ok {
				files[i] = fd
				current = i
				return
			}
			index[fd.Name] = len(files)
			current = len(files)
			files = append(files, fd)
			return
		}
		id := attr(n, "id")
		if id == "" || current < 0 {
			return
		}
		fd := &files[current]
		switch {
		case strings.Contains(id, descriptionCell):
			fd.Description = text
		case strings.Contains(id, sizeCell):
			fd.Size = text
		case strings.Contains(id, createdCell):
			fd.Created = table.ParseTimestamp(text)
		case strings.Contains(id, modifiedCell):
			fd.Modified = table.ParseTimestamp(text)
		}
	})
	return files, nil
}

// walk visits n and its descendants in document order.
func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// leadingText returns the trimmed text that precedes an element's first child
// element.
func leadingText(n *html.Node) string {
	if c := n.FirstChild; c != nil && c.Type == html.TextNode {
		return strings.TrimSpace(c.Data)
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

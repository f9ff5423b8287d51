package contents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/JonMunkholm/discrete-summary/internal/logging"
	"github.com/JonMunkholm/discrete-summary/internal/table"
)

// ErrUnsupportedFormat is returned by FetchTable for links that are neither
// CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// FetchError reports a remote request that did not succeed.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Options configures a Client.
type Options struct {
	Timeout       time.Duration // per request; 0 means no timeout
	RatePerSecond float64       // request rate; 0 means unlimited
	Burst         int
	MaxFileSize   int64 // bytes; 0 means unlimited
	UserAgent     string
	HTTPClient    *http.Client // optional; Timeout is applied to a copy
}

// Client fetches folder listings and sample files over HTTP. It is safe for
// concurrent use; all requests share one rate limiter.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	maxBytes  int64
	userAgent string
}

// NewClient returns a client configured by opts.
func NewClient(opts Options) *Client {
	hc := &http.Client{}
	if opts.HTTPClient != nil {
		copied := *opts.HTTPClient
		hc = &copied
	}
	if opts.Timeout > 0 {
		hc.Timeout = opts.Timeout
	}

	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		http:      hc,
		limiter:   rate.NewLimiter(limit, burst),
		maxBytes:  opts.MaxFileSize,
		userAgent: opts.UserAgent,
	}
}

// ListFolder fetches and parses a folder listing.
func (c *Client) ListFolder(ctx context.Context, folderURL string) ([]FileDescriptor, error) {
	body, err := c.get(ctx, folderURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	files, err := ParseListing(table.NewLimitReader(body, c.maxBytes), folderURL)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", folderURL, err)
	}
	return files, nil
}

// FetchTable downloads a sample file and reads it by extension: .csv with
// the CSV reader, .xlsx with the workbook reader. Other extensions fail with
// ErrUnsupportedFormat before any request is made.
func (c *Client) FetchTable(ctx context.Context, fileURL string) (*table.Table, error) {
	read, err := readerFor(fileURL)
	if err != nil {
		return nil, err
	}

	body, err := c.get(ctx, fileURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	lr := table.NewLimitReader(body, c.maxBytes)
	t, err := read(lr)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fileURL, err)
	}
	logging.FromContext(ctx).Debug("file downloaded", "url", fileURL, "bytes", lr.BytesRead(), "rows", t.Len())
	return t, nil
}

// Extension returns the lowercased extension of a link's path.
func Extension(link string) string {
	p := link
	if u, err := url.Parse(link); err == nil {
		p = u.Path
	}
	return strings.ToLower(path.Ext(p))
}

func readerFor(link string) (func(io.Reader) (*table.Table, error), error) {
	switch Extension(link) {
	case ".csv":
		return table.ReadCSV, nil
	case ".xlsx":
		return table.ReadXLSX, nil
	default:
		return nil, fmt.Errorf("%s: %w", link, ErrUnsupportedFormat)
	}
}

func (c *Client) get(ctx context.Context, link string) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{URL: link, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, &FetchError{URL: link, Err: err}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{URL: link, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &FetchError{URL: link, StatusCode: resp.StatusCode}
	}
	return resp.Body, nil
}

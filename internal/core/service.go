package core

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/discrete-summary/internal/logging"
	"github.com/JonMunkholm/discrete-summary/internal/metrics"
	"github.com/JonMunkholm/discrete-summary/internal/registry"
	"github.com/JonMunkholm/discrete-summary/internal/schema"
	"github.com/JonMunkholm/discrete-summary/internal/table"
)

// DefaultRunTimeout is the maximum duration for a full pipeline run.
const DefaultRunTimeout = 30 * time.Minute

// DefaultConcurrency is the number of cruises fetched at once.
const DefaultConcurrency = 4

// ceStationTypo matches Coastal Endurance station codes typed with the
// letter O in place of zero, e.g. "CEO2SHSM".
var ceStationTypo = regexp.MustCompile(`(?i)\bCEO([1-9])`)

const coastalEndurance = "CE"

// Lister retrieves a cruise folder listing.
type Lister interface {
	ListFolder(ctx context.Context, folderURL string) ([]FileDescriptor, error)
}

// Fetcher downloads a published sample file as a raw table.
type Fetcher interface {
	FetchTable(ctx context.Context, fileURL string) (*table.Table, error)
}

// Source is the remote document store holding cruise folders.
type Source interface {
	Lister
	Fetcher
}

// Service runs the discrete summary pipeline against a source. The registry
// and header map are read-only and shared by all calls.
type Service struct {
	registry    *registry.Registry
	headers     *schema.HeaderMap
	source      Source
	metrics     *metrics.Collector
	concurrency int
	runTimeout  time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records pipeline counters on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Service) { s.metrics = c }
}

// WithConcurrency sets how many cruises are fetched at once. Values below 1
// fetch one at a time.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n < 1 {
			n = 1
		}
		s.concurrency = n
	}
}

// WithRunTimeout bounds a full Run. Values of zero or less keep
// DefaultRunTimeout.
func WithRunTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.runTimeout = d
		}
	}
}

// NewService creates a new Service instance.
func NewService(reg *registry.Registry, headers *schema.HeaderMap, src Source, opts ...Option) (*Service, error) {
	if reg == nil {
		return nil, errors.New("new service: registry is required")
	}
	if headers == nil {
		return nil, errors.New("new service: header map is required")
	}
	if src == nil {
		return nil, errors.New("new service: source is required")
	}

	s := &Service{
		registry:    reg,
		headers:     headers,
		source:      src,
		concurrency: DefaultConcurrency,
		runTimeout:  DefaultRunTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Catalog returns the field catalog used for classification.
func (s *Service) Catalog() *schema.Catalog { return s.headers.Catalog() }

// ListContents lists the files published for one cruise, or for every
// registered cruise when cruiseID is empty. Each descriptor carries its
// cruise_id.
//
// For a single cruise a listing failure is returned. When listing all
// cruises, failing cruises are logged and left out.
func (s *Service) ListContents(ctx context.Context, cruiseID string) ([]FileDescriptor, error) {
	ctx, _ = logging.WithRunID(ctx)
	if cruiseID != "" {
		c, ok := s.registry.Get(cruiseID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCruise, cruiseID)
		}
		return s.listCruise(ctx, c)
	}

	cruises := s.registry.All()
	results := make([][]FileDescriptor, len(cruises))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, c := range cruises {
		g.Go(func() error {
			files, err := s.listCruise(gctx, c)
			if err != nil {
				logging.WithFields(gctx, "cruise_id", c.ID).Warn("skipping cruise", "error", err)
				return nil
			}
			results[i] = files
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var all []FileDescriptor
	for _, files := range results {
		all = append(all, files...)
	}
	return all, nil
}

func (s *Service) listCruise(ctx context.Context, c registry.Cruise) ([]FileDescriptor, error) {
	timer := s.metrics.NewTimer("list")
	files, err := s.source.ListFolder(ctx, c.FolderURL)
	timer.ObserveDuration()
	if err != nil {
		s.metrics.RecordFetchError("list")
		return nil, fmt.Errorf("list cruise %s: %w", c.ID, err)
	}
	for i := range files {
		files[i].CruiseID = c.ID
	}
	return files, nil
}

// MergeResult holds clean sample tables and their column labels per array.
type MergeResult struct {
	Tables map[string]*table.Table
	Labels map[string][]schema.ColumnLabel
}

// Arrays returns the array reference designators present, sorted.
func (r *MergeResult) Arrays() []string {
	return sortedKeys(r.Tables)
}

type mergeJob struct {
	file   FileDescriptor
	cruise registry.Cruise
}

type cleanedFile struct {
	arrayRD string
	table   *table.Table
	labels  []schema.ColumnLabel
}

// CleanAndMerge downloads and cleans summary files and concatenates them per
// array, in input order. Every descriptor must be a summary file.
//
// Files of unregistered cruises, files that cannot be fetched, and files in
// an unsupported format are logged and skipped. Structural problems in a
// file (no cruise column, duplicate canonical names) abort the run.
func (s *Service) CleanAndMerge(ctx context.Context, files []FileDescriptor) (*MergeResult, error) {
	if err := checkSummaries(files); err != nil {
		return nil, err
	}
	ctx, _ = logging.WithRunID(ctx)
	logger := logging.FromContext(ctx)

	jobs := make([]mergeJob, 0, len(files))
	for _, f := range files {
		c, ok := s.registry.Get(f.CruiseID)
		if !ok {
			logger.Warn("skipping file of unregistered cruise", "cruise_id", f.CruiseID, "file", f.Name)
			s.metrics.RecordFileSkipped("unknown_cruise")
			continue
		}
		jobs = append(jobs, mergeJob{file: f, cruise: c})
	}

	cleaned := make([]*cleanedFile, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			cf, err := s.processFile(gctx, job)
			if err != nil {
				return err
			}
			cleaned[i] = cf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fragments := make(map[string][]*table.Table)
	res := &MergeResult{
		Tables: make(map[string]*table.Table),
		Labels: make(map[string][]schema.ColumnLabel),
	}
	for _, cf := range cleaned {
		if cf == nil {
			continue
		}
		fragments[cf.arrayRD] = append(fragments[cf.arrayRD], cf.table)
		res.Labels[cf.arrayRD] = cf.labels
	}
	for arrayRD, parts := range fragments {
		res.Tables[arrayRD] = table.Concat(parts...)
	}
	return res, nil
}

// processFile fetches and cleans one file. A nil result with a nil error
// means the file was skipped.
func (s *Service) processFile(ctx context.Context, job mergeJob) (*cleanedFile, error) {
	logger := logging.WithFields(ctx,
		"cruise_id", job.cruise.ID,
		"array_rd", job.cruise.ArrayRD,
		"file", job.file.Name,
	)

	timer := s.metrics.NewTimer("file")
	raw, err := s.source.FetchTable(ctx, job.file.URL)
	timer.ObserveDuration()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		reason := "fetch"
		if errors.Is(err, ErrUnsupportedFormat) {
			reason = "format"
		} else {
			s.metrics.RecordFetchError("file")
		}
		logger.Warn("skipping file", "url", job.file.URL, "error", err)
		s.metrics.RecordFileSkipped(reason)
		return nil, nil
	}
	s.metrics.RecordRowsRead(raw.Len())

	fileCtx := logging.WithLogger(ctx, logger)
	res, err := Clean(fileCtx, raw, s.headers.ExpectedColumns())
	if err != nil {
		return nil, fmt.Errorf("clean %s (cruise %s): %w", job.file.Name, job.cruise.ID, err)
	}
	s.recordClean(res)

	t := res.Table
	if job.cruise.ArrayRD == coastalEndurance {
		repairStations(fileCtx, t)
	}

	cruiseID := make([]table.Value, t.Len())
	for i := range cruiseID {
		cruiseID[i] = table.String(job.cruise.ID)
	}
	if err := t.SetColumn(table.NewColumn(schema.CruiseID, cruiseID)); err != nil {
		return nil, err
	}

	for _, iv := range Coerce(fileCtx, t, s.Catalog()) {
		s.metrics.RecordInvalidValues(iv.Column, iv.Count)
	}

	logger.Info("file cleaned", "rows", t.Len(), "dropped", res.Dropped.Total())
	s.metrics.RecordFileProcessed(job.cruise.ArrayRD, t.Len())
	return &cleanedFile{arrayRD: job.cruise.ArrayRD, table: t, labels: res.Labels}, nil
}

func (s *Service) recordClean(res *CleanResult) {
	s.metrics.RecordRowsDropped("empty", res.Dropped.Empty)
	s.metrics.RecordRowsDropped("cruise", res.Dropped.Cruise)
	s.metrics.RecordRowsDropped("time", res.Dropped.Time)
	for range res.UnnamedColumns {
		s.metrics.RecordSchemaDrift("unnamed_column")
	}
	for range res.MissingColumns {
		s.metrics.RecordSchemaDrift("missing_column")
	}
	for range res.InvalidTimes {
		s.metrics.RecordSchemaDrift("invalid_time")
	}
	if res.MissingStations > 0 {
		s.metrics.RecordSchemaDrift("missing_station")
	}
}

// repairStations rewrites station codes typed with O for zero.
func repairStations(ctx context.Context, t *table.Table) {
	station, ok := t.Column(schema.Station)
	if !ok {
		return
	}
	logger := logging.FromContext(ctx)
	fixed := make(map[string]bool)
	for i, v := range station.Values {
		s, ok := v.Str()
		if !ok {
			continue
		}
		repaired := ceStationTypo.ReplaceAllString(s, "CE0${1}")
		if repaired == s {
			continue
		}
		if !fixed[s] {
			fixed[s] = true
			logger.Warn("station code fixed", "station", s, "fixed", repaired)
		}
		station.Values[i] = table.String(repaired)
	}
}

// Split consolidates merged tables into the profile and discrete tables and
// records their sizes.
func (s *Service) Split(ctx context.Context, merged *MergeResult) (*SplitResult, error) {
	res, err := Split(ctx, merged.Tables, s.Catalog())
	if err != nil {
		return nil, err
	}
	s.metrics.SetSplitRows("profile", res.Profile.Len())
	s.metrics.SetSplitRows("discrete", res.Discrete.Len())
	return res, nil
}

// Run executes the full pipeline: list every cruise, keep the latest
// summary per cruise, clean and merge, and split.
func (s *Service) Run(ctx context.Context) (*SplitResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	ctx, _ = logging.WithRunID(ctx)
	logger := logging.FromContext(ctx)
	start := time.Now()
	logger.Info("pipeline started", "cruises", s.registry.Len(), "arrays", s.registry.Arrays())

	listed, err := s.ListContents(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list contents: %w", err)
	}
	summaries, err := FilterContents(listed, KindSummary)
	if err != nil {
		return nil, err
	}
	latest, err := LatestContent(summaries)
	if err != nil {
		return nil, err
	}
	logger.Info("summaries selected", "listed", len(listed), "selected", len(latest))

	merged, err := s.CleanAndMerge(ctx, latest)
	if err != nil {
		return nil, fmt.Errorf("clean and merge: %w", err)
	}
	res, err := s.Split(ctx, merged)
	if err != nil {
		return nil, err
	}

	logger.Info("pipeline finished",
		"arrays", merged.Arrays(),
		"profile_rows", res.Profile.Len(),
		"discrete_rows", res.Discrete.Len(),
		"duration", time.Since(start),
	)
	return res, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

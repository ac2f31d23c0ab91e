// Package catalog fills the jobs slice from job-board RSS and Atom feeds.
package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/bryan-buckman/jobdesk/internal/database"
	"github.com/bryan-buckman/jobdesk/internal/model"
	"github.com/bryan-buckman/jobdesk/internal/state"
)

// Concurrency settings
const (
	// MaxConcurrencyHigh is the number of parallel fetches for backends that
	// take concurrent writes.
	MaxConcurrencyHigh = 10
	// MaxConcurrencySQLite is the number of parallel fetches for SQLite (limited due to locking)
	MaxConcurrencySQLite = 1
	// MaxConcurrencyPerDomain limits parallel requests to any single domain
	MaxConcurrencyPerDomain = 2
	// DelayBetweenDomainRequests is the minimum delay between requests to the same domain
	DelayBetweenDomainRequests = 500 * time.Millisecond
)

const maxErrorLen = 200

// Dispatcher is the part of the store the fetcher writes to.
type Dispatcher interface {
	Dispatch(a state.Action) error
}

// domainLimiter bounds concurrent requests per host and spaces them out.
type domainLimiter struct {
	mu          sync.Mutex
	semaphores  map[string]chan struct{}
	lastRequest map[string]time.Time
}

func newDomainLimiter() *domainLimiter {
	return &domainLimiter{
		semaphores:  make(map[string]chan struct{}),
		lastRequest: make(map[string]time.Time),
	}
}

// acquire gets a slot for the domain, blocking if necessary.
func (dl *domainLimiter) acquire(ctx context.Context, domain string) error {
	dl.mu.Lock()
	sem, ok := dl.semaphores[domain]
	if !ok {
		sem = make(chan struct{}, MaxConcurrencyPerDomain)
		dl.semaphores[domain] = sem
	}
	dl.mu.Unlock()

	select {
	case sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	dl.mu.Lock()
	lastReq := dl.lastRequest[domain]
	dl.mu.Unlock()

	if !lastReq.IsZero() {
		if elapsed := time.Since(lastReq); elapsed < DelayBetweenDomainRequests {
			select {
			case <-time.After(DelayBetweenDomainRequests - elapsed):
			case <-ctx.Done():
				<-sem
				return ctx.Err()
			}
		}
	}
	return nil
}

// release returns a slot for the domain and records the request time.
func (dl *domainLimiter) release(domain string) {
	dl.mu.Lock()
	defer dl.mu.Unlock()

	dl.lastRequest[domain] = time.Now()
	if sem, ok := dl.semaphores[domain]; ok {
		<-sem
	}
}

func extractDomain(feedURL string) string {
	u, err := url.Parse(feedURL)
	if err != nil {
		return feedURL
	}
	return u.Host
}

// Fetcher pulls job postings from the configured sources.
type Fetcher struct {
	db            database.Store
	store         Dispatcher
	parser        *gofeed.Parser
	concurrency   int
	domainLimiter *domainLimiter
	logger        *zap.Logger
	tracer        trace.Tracer
}

// NewFetcher creates a fetcher with concurrency based on the backend.
func NewFetcher(db database.Store, store Dispatcher, logger *zap.Logger) *Fetcher {
	concurrency := MaxConcurrencySQLite
	if db.SupportsHighConcurrency() {
		concurrency = MaxConcurrencyHigh
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		db:            db,
		store:         store,
		parser:        gofeed.NewParser(),
		concurrency:   concurrency,
		domainLimiter: newDomainLimiter(),
		logger:        logger.Named("catalog"),
		tracer:        otel.Tracer("jobdesk/catalog"),
	}
}

// FetchSource fetches and parses one source into catalog jobs.
func (f *Fetcher) FetchSource(ctx context.Context, src model.JobSource) ([]model.Job, error) {
	domain := extractDomain(src.URL)
	if err := f.domainLimiter.acquire(ctx, domain); err != nil {
		return nil, fmt.Errorf("rate limit cancelled for %s: %w", src.URL, err)
	}
	defer f.domainLimiter.release(domain)

	parsed, err := f.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		errMsg := err.Error()
		if len(errMsg) > maxErrorLen {
			errMsg = errMsg[:maxErrorLen]
		}
		if uerr := f.db.UpdateSourceError(src.ID, errMsg); uerr != nil {
			f.logger.Warn("record source error", zap.Int64("source", src.ID), zap.Error(uerr))
		}
		return nil, fmt.Errorf("parse feed %s: %w", src.URL, err)
	}

	jobs := JobsFromFeed(src, parsed)
	if err := f.db.UpdateSourceLastFetched(src.ID, time.Now()); err != nil {
		f.logger.Warn("update last_fetched", zap.Int64("source", src.ID), zap.Error(err))
	}
	return jobs, nil
}

// JobsFromFeed maps feed items to catalog jobs. Items without a GUID or link
// are skipped. Job ids are derived from the item identity, so refetching a
// feed updates jobs in place.
func JobsFromFeed(src model.JobSource, feed *gofeed.Feed) []model.Job {
	company := feed.Title
	if company == "" {
		company = src.Title
	}
	jobs := make([]model.Job, 0, len(feed.Items))
	for _, item := range feed.Items {
		guid := item.GUID
		if guid == "" {
			guid = item.Link
		}
		if guid == "" {
			continue
		}
		job := model.Job{
			ID:       uuid.NewSHA1(uuid.NameSpaceURL, []byte(guid)).String(),
			Title:    strings.TrimSpace(item.Title),
			Company:  model.Company{Name: company, Website: feed.Link},
			Location: custom(item, "location", "region"),
			Type:     custom(item, "type", "jobtype"),
			Salary:   custom(item, "salary"),
			Skills:   append([]string{}, item.Categories...),
			Link:     item.Link,
		}
		if name := custom(item, "company"); name != "" {
			job.Company.Name = name
		} else if item.Author != nil && item.Author.Name != "" {
			job.Company.Name = item.Author.Name
		}
		if item.Image != nil {
			job.Company.Logo = item.Image.URL
		}
		if item.PublishedParsed != nil {
			job.PostedAt = item.PublishedParsed.Format(time.DateOnly)
		}
		jobs = append(jobs, job)
	}
	return jobs
}

// custom returns the first non-empty custom element among keys. Job boards
// commonly add location, type and salary elements to their RSS items.
func custom(item *gofeed.Item, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(item.Custom[k]); v != "" {
			return v
		}
	}
	return ""
}

// FetchResult holds the result of fetching a single source.
type FetchResult struct {
	SourceID int64
	Jobs     []model.Job
	Error    error
}

// FetchAll fetches every source and merges the postings into the catalog
// with one dispatch. It returns the number of jobs per source.
func (f *Fetcher) FetchAll(ctx context.Context) (map[int64]int, error) {
	ctx, span := f.tracer.Start(ctx, "Fetcher.FetchAll")
	defer span.End()

	sources, err := f.db.GetSources()
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("sources", len(sources)))
	if len(sources) == 0 {
		return make(map[int64]int), nil
	}

	f.logger.Info("fetching job sources", zap.Int("sources", len(sources)), zap.Int("concurrency", f.concurrency))

	var results []FetchResult
	if f.concurrency <= 1 {
		results, err = f.fetchSequential(ctx, sources)
	} else {
		results = f.fetchParallel(ctx, sources)
	}

	counts := make(map[int64]int, len(results))
	var jobs []model.Job
	for _, r := range results {
		if r.Error != nil {
			continue
		}
		counts[r.SourceID] = len(r.Jobs)
		jobs = append(jobs, r.Jobs...)
	}
	if len(jobs) > 0 {
		if derr := f.store.Dispatch(state.MergeCatalog{Jobs: jobs}); derr != nil {
			span.RecordError(derr)
			return counts, fmt.Errorf("merge catalog: %w", derr)
		}
	}
	return counts, err
}

// fetchSequential fetches sources one at a time (for SQLite).
func (f *Fetcher) fetchSequential(ctx context.Context, sources []model.JobSource) ([]FetchResult, error) {
	results := make([]FetchResult, 0, len(sources))
	for i, src := range sources {
		select {
		case <-ctx.Done():
			f.logger.Warn("fetch cancelled", zap.Int("done", i), zap.Int("total", len(sources)))
			return results, ctx.Err()
		default:
		}

		jobs, err := f.FetchSource(ctx, src)
		if err != nil {
			f.logger.Warn("fetch source failed", zap.String("url", src.URL), zap.Error(err))
		}
		results = append(results, FetchResult{SourceID: src.ID, Jobs: jobs, Error: err})
	}
	return results, nil
}

// fetchParallel fetches sources using a worker pool. Results keep source
// order so the merged catalog is stable between runs.
func (f *Fetcher) fetchParallel(ctx context.Context, sources []model.JobSource) []FetchResult {
	var wg sync.WaitGroup
	results := make([]FetchResult, len(sources))
	idx := make(chan int)

	for w := 0; w < f.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				src := sources[i]
				jobs, err := f.FetchSource(ctx, src)
				if err != nil {
					f.logger.Warn("fetch source failed", zap.String("url", src.URL), zap.Error(err))
				}
				results[i] = FetchResult{SourceID: src.ID, Jobs: jobs, Error: err}
			}
		}()
	}

feed:
	for i := range sources {
		select {
		case <-ctx.Done():
			for j := i; j < len(sources); j++ {
				results[j] = FetchResult{SourceID: sources[j].ID, Error: ctx.Err()}
			}
			break feed
		case idx <- i:
		}
	}
	close(idx)
	wg.Wait()
	return results
}

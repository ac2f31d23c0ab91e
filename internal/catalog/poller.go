package catalog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bryan-buckman/jobdesk/internal/database"
	"github.com/bryan-buckman/jobdesk/internal/opml"
)

const fetchTimeout = 10 * time.Minute

// Poller refreshes the catalog on the interval stored in settings.
type Poller struct {
	fetcher  *Fetcher
	db       database.Store
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewPoller creates a background poller.
func NewPoller(db database.Store, store Dispatcher, logger *zap.Logger) *Poller {
	f := NewFetcher(db, store, logger)
	return &Poller{
		fetcher:  f,
		db:       db,
		logger:   f.logger,
		stopChan: make(chan struct{}),
	}
}

// Fetcher returns the poller's fetcher for on-demand refreshes.
func (p *Poller) Fetcher() *Fetcher { return p.fetcher }

// Start begins the polling loop.
func (p *Poller) Start() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for {
			interval, err := p.db.GetPollingInterval()
			if err != nil {
				p.logger.Warn("read polling interval", zap.Error(err))
			}
			interval = max(interval, database.MinPollingIntervalMinutes)

			ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
			go func() {
				select {
				case <-p.stopChan:
					cancel()
				case <-ctx.Done():
				}
			}()
			results, err := p.fetcher.FetchAll(ctx)
			cancel()

			if err != nil {
				p.logger.Warn("poll failed", zap.Error(err))
			} else {
				total := 0
				for _, c := range results {
					total += c
				}
				p.logger.Info("catalog refreshed",
					zap.Int("jobs", total),
					zap.Int("sources", len(results)),
					zap.Int("next_in_minutes", interval))
			}

			select {
			case <-p.stopChan:
				return
			case <-time.After(time.Duration(interval) * time.Minute):
			}
		}
	}()
}

// Stop stops the poller gracefully.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stopChan) })
	p.wg.Wait()
}

// RegisterSources records feed URLs and OPML entries as job sources. It
// returns how many were new.
func RegisterSources(db database.Store, urls []string, entries []opml.Entry) (int, error) {
	added := 0
	for _, u := range urls {
		_, isNew, err := db.GetOrCreateSource(u, u, "")
		if err != nil {
			return added, err
		}
		if isNew {
			added++
		}
	}
	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = e.URL
		}
		_, isNew, err := db.GetOrCreateSource(title, e.URL, e.Group())
		if err != nil {
			return added, err
		}
		if isNew {
			added++
		}
	}
	return added, nil
}

// Package syncer drives the full reconciliation pipeline: fetch from all
// connected upstreams concurrently, tolerate partial failure per source,
// merge, and batch-upsert the canonical result into the site datastore.
package syncer

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"merchsync/internal/connectors"
	"merchsync/internal/logger"
	"merchsync/internal/models"
	"merchsync/internal/reconcile"
	"merchsync/internal/website"
)

// Upserter is the datastore write side; *website.Client in production.
type Upserter interface {
	UpsertBatch(rows []website.Row) (int, error)
}

// PlatformResult is one platform's independent outcome. Read success and
// write success are tracked separately; a later write failure never
// rewrites these.
type PlatformResult struct {
	Connected bool   `json:"connected"`
	Count     int    `json:"count"`
	Error     string `json:"error,omitempty"`
	Note      string `json:"note,omitempty"`
}

type Report struct {
	RunID       string                             `json:"run_id"`
	PerPlatform map[models.Platform]PlatformResult `json:"per_platform"`
	Synced      int                                `json:"synced"`
	WriteError  string                             `json:"write_error,omitempty"`
	Logs        []string                           `json:"logs"`
}

// Success is true when at least one platform fetched and the write side
// did not fail. Partial success is still success, with caveats in the
// per-platform entries.
func (r *Report) Success() bool {
	if r.WriteError != "" {
		return false
	}
	for _, res := range r.PerPlatform {
		if res.Connected && res.Error == "" {
			return true
		}
	}
	return false
}

type Syncer struct {
	connectors []connectors.Connector
	store      Upserter
	db         *gorm.DB        // optional: sync run history
	events     *EventPublisher // optional: best-effort publication
	logger     *logger.Logger
}

func New(conns []connectors.Connector, store Upserter, db *gorm.DB, events *EventPublisher, log *logger.Logger) *Syncer {
	return &Syncer{
		connectors: conns,
		store:      store,
		db:         db,
		events:     events,
		logger:     log,
	}
}

// SyncAll fans fetches out to every connected platform, settles them all,
// merges the results and upserts them into the datastore. One platform's
// failure never aborts the others, and the report carries an entry for
// every platform regardless of completion order.
func (s *Syncer) SyncAll(ctx context.Context) *Report {
	report := &Report{
		RunID:       uuid.New().String(),
		PerPlatform: make(map[models.Platform]PlatformResult, len(s.connectors)),
	}
	trail := NewTrail()
	trail.Logf("sync run %s started", report.RunID)

	type outcome struct {
		platform models.Platform
		products []models.Product
		err      error
	}

	var wg sync.WaitGroup
	outcomes := make([]outcome, len(s.connectors))

	for i, conn := range s.connectors {
		platform := conn.Platform()

		if !conn.Status() {
			report.PerPlatform[platform] = PlatformResult{Connected: false, Note: "not connected"}
			trail.Logf("skipping %s: not connected", platform)
			continue
		}

		wg.Add(1)
		go func(i int, conn connectors.Connector) {
			defer wg.Done()
			trail.Logf("starting fetch from %s", conn.Platform())
			products, err := conn.FetchProducts(ctx)
			if err != nil {
				trail.Logf("error fetching from %s: %v", conn.Platform(), err)
			} else {
				trail.Logf("fetched %d records from %s", len(products), conn.Platform())
			}
			outcomes[i] = outcome{platform: conn.Platform(), products: products, err: err}
		}(i, conn)
	}
	wg.Wait()

	byPlatform := make(map[models.Platform][]models.Product)
	for _, o := range outcomes {
		if o.platform == "" {
			continue // skipped, already reported
		}
		if o.err != nil {
			report.PerPlatform[o.platform] = PlatformResult{Connected: true, Error: o.err.Error()}
			continue
		}
		report.PerPlatform[o.platform] = PlatformResult{Connected: true, Count: len(o.products)}
		byPlatform[o.platform] = o.products
	}

	merged := reconcile.MergeProducts(byPlatform)
	trail.Logf("reconciled %d records into %d canonical products", totalCount(byPlatform), len(merged))

	if len(merged) > 0 {
		count, err := s.store.UpsertBatch(toRows(merged))
		report.Synced = count
		if err != nil {
			// Fetch successes stand; the write failure is reported
			// alongside them, not instead of them.
			report.WriteError = err.Error()
			trail.Logf("error writing to datastore: %v", err)
		} else {
			trail.Logf("upserted %d products into datastore", count)
		}
	}

	trail.Logf("sync run %s finished", report.RunID)
	report.Logs = trail.Lines()

	s.record(report)
	s.publish(ctx, report)

	return report
}

// record persists the run for the dashboard's sync history.
func (s *Syncer) record(report *Report) {
	if s.db == nil {
		return
	}

	var platforms []string
	failedCount := 0
	for p, res := range report.PerPlatform {
		if res.Connected {
			platforms = append(platforms, p.String())
		}
		if res.Error != "" {
			failedCount++
		}
	}

	run := models.SyncRun{
		ID:        report.RunID,
		Platforms: pq.StringArray(platforms),
		Synced:    report.Synced,
		Failed:    failedCount,
		Logs:      pq.StringArray(report.Logs),
	}
	if err := s.db.Create(&run).Error; err != nil {
		s.logger.Error("failed to record sync run: %v", err)
	}
}

// publish emits the completion event. Best-effort: a broker outage is a
// log line, not a sync failure.
func (s *Syncer) publish(ctx context.Context, report *Report) {
	if s.events == nil {
		return
	}

	var platforms []string
	for p, res := range report.PerPlatform {
		if res.Connected && res.Error == "" {
			platforms = append(platforms, p.String())
		}
	}

	event := Event{
		Type:      EventSyncCompleted,
		RunID:     report.RunID,
		Synced:    report.Synced,
		Platforms: platforms,
		Timestamp: time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish sync event: %v", err)
	}
}

func totalCount(byPlatform map[models.Platform][]models.Product) int {
	total := 0
	for _, products := range byPlatform {
		total += len(products)
	}
	return total
}

var handlePattern = regexp.MustCompile(`[^a-z0-9]+`)

// toRows maps canonical products to datastore rows. The row id is the
// platform-qualified product id, so re-syncing the same product replaces
// its row instead of duplicating it.
func toRows(products []models.Product) []website.Row {
	rows := make([]website.Row, 0, len(products))
	for i := range products {
		payload, err := json.Marshal(&products[i])
		if err != nil {
			continue
		}
		rows = append(rows, website.Row{
			ID:          products[i].ID,
			Handle:      handleFor(products[i].Title),
			ShopifyData: payload,
		})
	}
	return rows
}

func handleFor(title string) string {
	handle := handlePattern.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(handle, "-")
}

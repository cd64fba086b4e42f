package workers

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"webbuses/models"
	"webbuses/services"
)

// MetaFetcher loads the lightweight listing projection.
type MetaFetcher interface {
	GetMeta(ctx context.Context, id string) (*models.ListingMeta, error)
}

// MetaWorker backfills mileage and image counts for listings whose full
// records came in without them. It runs as a per-item loop rather than
// one request, so cancellation is a flag checked before every apply: a
// cancelled pass never writes a late response into the catalog.
type MetaWorker struct {
	catalog   *services.Catalog
	fetcher   MetaFetcher
	cancelled atomic.Bool
	delay     time.Duration
}

func NewMetaWorker(catalog *services.Catalog, fetcher MetaFetcher) *MetaWorker {
	return &MetaWorker{
		catalog: catalog,
		fetcher: fetcher,
		delay:   150 * time.Millisecond,
	}
}

// Cancel stops the current and any future backfill pass.
func (w *MetaWorker) Cancel() {
	w.cancelled.Store(true)
}

func (w *MetaWorker) needsBackfill(l *models.Listing) bool {
	return l.Mileage == "" || l.ImageCount == 0
}

// Backfill walks the catalog once and patches incomplete listings.
func (w *MetaWorker) Backfill(ctx context.Context) {
	var fetched, failed int
	for _, l := range w.catalog.All() {
		if w.cancelled.Load() || ctx.Err() != nil {
			return
		}
		if !w.needsBackfill(&l) {
			continue
		}

		meta, err := w.fetcher.GetMeta(ctx, l.ID)
		if err != nil {
			failed++
			continue
		}

		if w.cancelled.Load() {
			return
		}
		w.catalog.ApplyMeta(l.ID, meta)
		fetched++

		time.Sleep(w.delay)
	}

	if fetched > 0 || failed > 0 {
		log.Printf("Meta worker: backfilled %d, failed %d", fetched, failed)
	}
}

// Run backfills on a ticker until the context ends.
func (w *MetaWorker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Meta worker stopping")
			return
		case <-ticker.C:
			w.Backfill(ctx)
		}
	}
}

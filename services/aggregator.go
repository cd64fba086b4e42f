package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"webbuses/api"
	"webbuses/browse"
	"webbuses/models"
	"webbuses/normalize"
)

// GroupKey derives the advertiser identity key for a listing. There is
// no durable advertiser account id on the records, so identity is
// inferred: digits-only phone, else email, else display name, else the
// listing's own id so nothing is ever silently dropped.
func GroupKey(l *models.Listing) string {
	if l.PhoneDigits != "" {
		return l.PhoneDigits
	}
	if l.Email != "" {
		return l.Email
	}
	if l.AdvertiserName != "" {
		return l.AdvertiserName
	}
	return l.ID
}

// GroupByAdvertiser groups a flat collection into advertiser buckets.
// The first listing seen for a key seeds the group's display metadata;
// later listings only append. First-write-wins is the current behavior,
// not necessarily the right one, but changing it silently would reorder
// what moderators see.
func GroupByAdvertiser(listings []models.Listing) []models.AdvertiserGroup {
	index := make(map[string]int)
	var groups []models.AdvertiserGroup

	for _, l := range listings {
		key := GroupKey(&l)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, models.AdvertiserGroup{
				Key:          key,
				Name:         orDash(l.AdvertiserName),
				Phone:        orDash(l.PhoneDigits),
				Email:        orDash(l.Email),
				City:         orDash(l.City),
				State:        orDash(l.State),
				RegisteredAt: l.RegisteredAt,
			})
		}
		groups[i].Listings = append(groups[i].Listings, l)
	}

	return groups
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// MergeIncremental folds a newly fetched page into an already-held
// collection without duplicating ids. A re-fetched listing replaces its
// old copy in place; first-appearance order is preserved. Idempotent:
// merging the same page twice equals merging it once.
func MergeIncremental(existing, page []models.Listing) []models.Listing {
	index := make(map[string]int, len(existing))
	merged := make([]models.Listing, len(existing))
	copy(merged, existing)
	for i, l := range merged {
		index[l.ID] = i
	}

	for _, l := range page {
		if i, ok := index[l.ID]; ok {
			merged[i] = l
			continue
		}
		index[l.ID] = len(merged)
		merged = append(merged, l)
	}

	return merged
}

// Aggregator feeds the moderation panel: paginated loading of the admin
// projection, grouped by inferred advertiser, with incremental "load
// more" merging. When the admin endpoint fails it falls back to the
// general listing endpoint and paginates it client-side — the view gets
// a grouped result as long as any source answers.
type Aggregator struct {
	client *api.Client
	limit  int

	mu         sync.Mutex
	known      []models.Listing
	page       int
	totalPages int
	total      int
}

func NewAggregator(client *api.Client, pageLimit int) *Aggregator {
	if pageLimit <= 0 {
		pageLimit = 50
	}
	return &Aggregator{client: client, limit: pageLimit}
}

// fetchPage loads one page, preferring /admin and degrading to
// /anuncios with local pagination.
func (a *Aggregator) fetchPage(ctx context.Context, page int) ([]models.Listing, int, int, error) {
	ap, err := a.client.AdminPage(ctx, page, a.limit)
	if err == nil {
		return normalize.DecodeAll(ap.Data, a.client.Host()), ap.TotalPaginas, ap.Total, nil
	}
	log.Printf("Aggregator: admin endpoint failed (%v), falling back to /anuncios", err)

	raws, ferr := a.client.ListListings(ctx)
	if ferr != nil {
		return nil, 0, 0, fmt.Errorf("admin page: %w (fallback: %v)", err, ferr)
	}

	all := normalize.DecodeAll(raws, a.client.Host())
	items, pageCount := paginateListings(all, a.limit, page)
	return items, pageCount, len(all), nil
}

func paginateListings(items []models.Listing, size, page int) ([]models.Listing, int) {
	return browse.Paginate(items, size, page)
}

// LoadPage replaces the held collection with one page and groups it.
func (a *Aggregator) LoadPage(ctx context.Context, page int) ([]models.AdvertiserGroup, error) {
	if page < 1 {
		page = 1
	}
	items, totalPages, total, err := a.fetchPage(ctx, page)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.known = items
	a.page = page
	a.totalPages = totalPages
	a.total = total
	groups := GroupByAdvertiser(a.known)
	a.mu.Unlock()

	return groups, nil
}

// LoadMore fetches the next page and merges it into the held collection.
// Returns the regrouped result and whether more pages remain.
func (a *Aggregator) LoadMore(ctx context.Context) ([]models.AdvertiserGroup, bool, error) {
	a.mu.Lock()
	next := a.page + 1
	totalPages := a.totalPages
	a.mu.Unlock()

	if totalPages > 0 && next > totalPages {
		a.mu.Lock()
		groups := GroupByAdvertiser(a.known)
		a.mu.Unlock()
		return groups, false, nil
	}

	items, newTotalPages, total, err := a.fetchPage(ctx, next)
	if err != nil {
		return nil, false, err
	}

	a.mu.Lock()
	a.known = MergeIncremental(a.known, items)
	a.page = next
	a.totalPages = newTotalPages
	a.total = total
	groups := GroupByAdvertiser(a.known)
	more := next < newTotalPages
	a.mu.Unlock()

	return groups, more, nil
}

// Total returns the backend-reported listing total for the admin view.
func (a *Aggregator) Total() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.total
}

// Page returns the current page index and page count.
func (a *Aggregator) Page() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.page, a.totalPages
}

package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"webbuses/api"
	"webbuses/browse"
	"webbuses/models"
	"webbuses/normalize"
)

// Catalog owns the in-memory listing collection for the public pages.
// It is the only writer of that collection: it refreshes from the API,
// keeps recency order, and carries the grid's filter/query/page state.
// Nothing is persisted; a refresh replaces everything.
type Catalog struct {
	client *api.Client

	mu    sync.RWMutex
	all   []models.Listing
	state *browse.State
}

func NewCatalog(client *api.Client, pageSize int) *Catalog {
	return &Catalog{
		client: client,
		state:  browse.NewState(pageSize),
	}
}

// Refresh replaces the collection from GET /anuncios. On failure the
// collection is emptied rather than left stale, matching what the pages
// show next to their inline error message.
func (c *Catalog) Refresh(ctx context.Context) error {
	raws, err := c.client.ListListings(ctx)
	if err != nil {
		c.mu.Lock()
		c.all = nil
		c.state.SetItems(nil)
		c.mu.Unlock()
		return fmt.Errorf("refresh listings: %w", err)
	}

	listings := normalize.DecodeAll(raws, c.client.Host())
	sort.SliceStable(listings, func(i, j int) bool {
		a, b := listings[i].SentAt, listings[j].SentAt
		if a.IsZero() || b.IsZero() {
			// Undated records keep their server order, after dated ones.
			return !a.IsZero()
		}
		return a.After(b)
	})

	approved := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Status == models.StatusApproved {
			approved = append(approved, l)
		}
	}

	c.mu.Lock()
	c.all = listings
	c.state.SetItems(approved)
	c.mu.Unlock()

	log.Printf("Catalog: %d listings (%d approved)", len(listings), len(approved))
	return nil
}

// Len returns the size of the full collection, all statuses included.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.all)
}

// All returns a copy of the full collection.
func (c *Catalog) All() []models.Listing {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Listing, len(c.all))
	copy(out, c.all)
	return out
}

// Listing finds one listing by id.
func (c *Catalog) Listing(id string) (models.Listing, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, l := range c.all {
		if l.ID == id {
			return l, true
		}
	}
	return models.Listing{}, false
}

// SetCategory sets or clears the grid's body-type filter.
func (c *Catalog) SetCategory(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SetCategory(category)
}

// SetQuery sets or clears the grid's free-text search.
func (c *Catalog) SetQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SetQuery(query)
}

// SetPage moves the grid to a page; out-of-range resets to 1.
func (c *Catalog) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SetPage(page)
}

// Page returns the current grid page and the page count.
func (c *Catalog) Page() ([]models.Listing, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Page()
}

// PageIndex returns the current 1-based page.
func (c *Catalog) PageIndex() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.PageIndex()
}

// MyListings returns the listings owned by the logged-in advertiser,
// matched by digits-only phone or lowercased email, restricted to the
// statuses an advertiser gets to see.
func (c *Catalog) MyListings(phoneDigits, email string) []models.Listing {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []models.Listing
	for _, l := range c.all {
		owned := (phoneDigits != "" && l.PhoneDigits == phoneDigits) ||
			(email != "" && l.Email == email)
		if owned && models.VisibleToAdvertiser(l.Status) {
			out = append(out, l)
		}
	}
	return out
}

// ApplyMeta merges a /meta backfill into the listing it belongs to.
// Unknown ids are ignored; the record may have been deleted since the
// backfill started.
func (c *Catalog) ApplyMeta(id string, meta *models.ListingMeta) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.all {
		if c.all[i].ID != id {
			continue
		}
		if c.all[i].Mileage == "" {
			if label := normalize.MileageFromMeta(meta); label != "" {
				c.all[i].Mileage = label
			}
		}
		if meta.ImagensCount > 0 {
			c.all[i].ImageCount = meta.ImagensCount
		}
		if s := models.NormalizeStatus(meta.Status); s != "" {
			c.all[i].Status = s
		}
		return
	}
}

// MarkStatus applies a status change locally after the backend accepted
// it, so the view updates without a full refetch.
func (c *Catalog) MarkStatus(id, status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.all {
		if c.all[i].ID == id {
			c.all[i].Status = models.NormalizeStatus(status)
			return
		}
	}
}

package services

import (
	"context"
	"fmt"
	"log"

	"webbuses/api"
	"webbuses/models"
)

// Moderation performs the admin and advertiser status actions. Every
// change is validated against the transition table before it leaves the
// process; the backend still has the final word.
type Moderation struct {
	client  *api.Client
	catalog *Catalog
}

func NewModeration(client *api.Client, catalog *Catalog) *Moderation {
	return &Moderation{client: client, catalog: catalog}
}

// UpdateStatus moves a listing to a new status if the transition is in
// the accepted flow.
func (m *Moderation) UpdateStatus(ctx context.Context, id, newStatus string) error {
	l, ok := m.catalog.Listing(id)
	if !ok {
		return api.ErrNotFound
	}
	if !models.CanTransition(l.Status, newStatus) {
		return fmt.Errorf("status %q cannot move to %q", l.Status, newStatus)
	}

	if err := m.client.UpdateStatus(ctx, id, newStatus); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	m.catalog.MarkStatus(id, newStatus)
	return nil
}

// Approve, Reject and ConfirmSale are the admin buttons.
func (m *Moderation) Approve(ctx context.Context, id string) error {
	return m.UpdateStatus(ctx, id, models.StatusApproved)
}

func (m *Moderation) Reject(ctx context.Context, id string) error {
	return m.UpdateStatus(ctx, id, models.StatusRejected)
}

func (m *Moderation) ConfirmSale(ctx context.Context, id string) error {
	return m.UpdateStatus(ctx, id, models.StatusSold)
}

// MarkSold is the advertiser's "I sold it" request; the listing waits
// for admin confirmation.
func (m *Moderation) MarkSold(ctx context.Context, id string) error {
	return m.UpdateStatus(ctx, id, models.StatusAwaitingSale)
}

// Delete removes one listing.
func (m *Moderation) Delete(ctx context.Context, id string) error {
	if err := m.client.DeleteListing(ctx, id); err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	return nil
}

// DeleteAdvertiser removes every listing in a group. Individual
// failures are logged and skipped so one stuck record does not strand
// the rest; the first error is reported after the sweep.
func (m *Moderation) DeleteAdvertiser(ctx context.Context, group *models.AdvertiserGroup) error {
	var firstErr error
	for _, l := range group.Listings {
		if l.ID == "" {
			continue
		}
		if err := m.client.DeleteListing(ctx, l.ID); err != nil {
			log.Printf("Warning: failed to delete listing %s: %v", l.ID, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Edit sends the advertiser's changes; the client pins the payload back
// to pending for re-moderation.
func (m *Moderation) Edit(ctx context.Context, id string, upd models.ListingUpdate) error {
	if err := m.client.UpdateListing(ctx, id, upd); err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	m.catalog.MarkStatus(id, models.StatusPending)
	return nil
}

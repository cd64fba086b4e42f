package models

import "strings"

// Listing status vocabulary. The backend is the source of truth for
// transitions; this table only decides which actions the UI may offer.
const (
	StatusPending         = "pendente"
	StatusAwaitingPayment = "aguardando pagamento"
	StatusApproved        = "aprovado"
	StatusRejected        = "rejeitado"
	StatusAwaitingSale    = "aguardando venda"
	StatusSold            = "vendido"

	// Older records carry "pendente_venda" for the same state as
	// "aguardando venda". Both are accepted everywhere; which one is
	// canonical is still an open product question, so neither is
	// rewritten on ingest.
	StatusAwaitingSaleLegacy = "pendente_venda"
)

// Admin/advertiser actions derivable from a listing's status.
const (
	ActionApprove     = "approve"
	ActionReject      = "reject"
	ActionMarkSold    = "mark_sold"    // advertiser: request sale confirmation
	ActionConfirmSale = "confirm_sale" // admin: settle the sale
	ActionDelete      = "delete"
)

// NormalizeStatus lowercases and trims a raw status value. Legacy
// synonyms are kept as-is, only compared as equal.
func NormalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func isAwaitingSale(s string) bool {
	return s == StatusAwaitingSale || s == StatusAwaitingSaleLegacy
}

// CanTransition reports whether moving a listing from one status to
// another is part of the accepted flow. Deletion is not a status and is
// always allowed separately.
func CanTransition(from, to string) bool {
	from = NormalizeStatus(from)
	to = NormalizeStatus(to)

	if isAwaitingSale(from) {
		return to == StatusSold
	}
	if isAwaitingSale(to) {
		return from == StatusApproved
	}

	switch from {
	case StatusPending, StatusAwaitingPayment:
		return to == StatusApproved || to == StatusRejected
	case StatusApproved, StatusRejected, StatusSold:
		return false
	}
	// Unknown origin states are left to the backend to police.
	return false
}

// AdminActions lists the moderation buttons rendered for a status.
func AdminActions(status string) []string {
	s := NormalizeStatus(status)
	switch {
	case s == StatusPending || s == StatusAwaitingPayment:
		return []string{ActionApprove, ActionReject, ActionDelete}
	case isAwaitingSale(s):
		return []string{ActionConfirmSale, ActionDelete}
	default:
		return []string{ActionDelete}
	}
}

// AdvertiserActions lists what the owning advertiser may do.
func AdvertiserActions(status string) []string {
	s := NormalizeStatus(status)
	if s == StatusApproved {
		return []string{ActionMarkSold}
	}
	return nil
}

// VisibleToAdvertiser reports whether a listing shows up in the
// advertiser's own panel. Pending and rejected submissions do not.
func VisibleToAdvertiser(status string) bool {
	s := NormalizeStatus(status)
	return s == StatusApproved || s == StatusSold || isAwaitingSale(s)
}

package models

import (
	"reflect"
	"testing"
)

func TestNormalizeStatus(t *testing.T) {
	if got := NormalizeStatus("  Aprovado "); got != StatusApproved {
		t.Fatalf("expected %q, got %q", StatusApproved, got)
	}
}

func TestCanTransition_ModerationFlow(t *testing.T) {
	if !CanTransition(StatusPending, StatusApproved) {
		t.Fatal("pending -> approved must be allowed")
	}
	if !CanTransition(StatusPending, StatusRejected) {
		t.Fatal("pending -> rejected must be allowed")
	}
	if !CanTransition(StatusAwaitingPayment, StatusApproved) {
		t.Fatal("awaiting payment -> approved must be allowed")
	}
	if CanTransition(StatusPending, StatusSold) {
		t.Fatal("pending -> sold must be blocked")
	}
}

func TestCanTransition_SaleFlow(t *testing.T) {
	if !CanTransition(StatusApproved, StatusAwaitingSale) {
		t.Fatal("approved -> awaiting sale must be allowed")
	}
	if !CanTransition(StatusAwaitingSale, StatusSold) {
		t.Fatal("awaiting sale -> sold must be allowed")
	}
	if CanTransition(StatusAwaitingSale, StatusApproved) {
		t.Fatal("awaiting sale must only move to sold")
	}
}

func TestCanTransition_LegacySynonym(t *testing.T) {
	if !CanTransition(StatusApproved, StatusAwaitingSaleLegacy) {
		t.Fatal("legacy spelling must be accepted as target")
	}
	if !CanTransition(StatusAwaitingSaleLegacy, StatusSold) {
		t.Fatal("legacy spelling must be accepted as origin")
	}
}

func TestCanTransition_TerminalStates(t *testing.T) {
	for _, from := range []string{StatusRejected, StatusSold} {
		for _, to := range []string{StatusPending, StatusApproved, StatusAwaitingSale} {
			if CanTransition(from, to) {
				t.Fatalf("%s -> %s should be blocked", from, to)
			}
		}
	}
}

func TestAdminActions(t *testing.T) {
	got := AdminActions(StatusPending)
	want := []string{ActionApprove, ActionReject, ActionDelete}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("pending actions: %v", got)
	}

	got = AdminActions(StatusAwaitingSaleLegacy)
	want = []string{ActionConfirmSale, ActionDelete}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("awaiting sale actions: %v", got)
	}

	got = AdminActions(StatusSold)
	want = []string{ActionDelete}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("sold actions: %v", got)
	}
}

func TestAdvertiserActions(t *testing.T) {
	if got := AdvertiserActions(StatusApproved); len(got) != 1 || got[0] != ActionMarkSold {
		t.Fatalf("approved advertiser actions: %v", got)
	}
	if got := AdvertiserActions(StatusPending); got != nil {
		t.Fatalf("pending should offer nothing, got %v", got)
	}
}

func TestVisibleToAdvertiser(t *testing.T) {
	visible := []string{StatusApproved, StatusSold, StatusAwaitingSale, StatusAwaitingSaleLegacy, "Aprovado"}
	for _, s := range visible {
		if !VisibleToAdvertiser(s) {
			t.Fatalf("%q should be visible", s)
		}
	}
	hidden := []string{StatusPending, StatusRejected, StatusAwaitingPayment, ""}
	for _, s := range hidden {
		if VisibleToAdvertiser(s) {
			t.Fatalf("%q should be hidden", s)
		}
	}
}

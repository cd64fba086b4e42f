package browse

import "testing"

func TestState_FilterChangeResetsPage(t *testing.T) {
	s := NewState(2)
	s.SetItems(makeListings(10))
	s.SetPage(3)
	if s.PageIndex() != 3 {
		t.Fatalf("expected page 3, got %d", s.PageIndex())
	}

	s.SetQuery("l1")
	if s.PageIndex() != 1 {
		t.Fatalf("query change should reset page, got %d", s.PageIndex())
	}

	s.SetPage(2)
	s.SetCategory("")
	if s.PageIndex() != 1 {
		t.Fatalf("category change should reset page, got %d", s.PageIndex())
	}
}

func TestState_ItemsChangeResetsPage(t *testing.T) {
	s := NewState(2)
	s.SetItems(makeListings(10))
	s.SetPage(4)
	s.SetItems(makeListings(3))
	if s.PageIndex() != 1 {
		t.Fatalf("collection change should reset page, got %d", s.PageIndex())
	}
	if _, count := s.Page(); count != 2 {
		t.Fatalf("expected 2 pages, got %d", count)
	}
}

func TestState_SetPageOutOfRange(t *testing.T) {
	s := NewState(5)
	s.SetItems(makeListings(6))
	s.SetPage(9)
	if s.PageIndex() != 1 {
		t.Fatalf("out-of-range page should reset to 1, got %d", s.PageIndex())
	}
}

func TestState_EmptyCollection(t *testing.T) {
	s := NewState(12)
	s.SetItems(nil)
	items, count := s.Page()
	if len(items) != 0 || count != 1 {
		t.Fatalf("empty grid should be page 1 of 1, got %d items, %d pages", len(items), count)
	}
}

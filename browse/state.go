package browse

import "webbuses/models"

// State tracks one page view's filter, query, and page index over a base
// collection. Any change to the base collection, the category, or the
// query re-runs the filters and snaps back to page 1.
type State struct {
	size     int
	items    []models.Listing
	filtered []models.Listing
	category string
	query    string
	page     int
}

func NewState(pageSize int) *State {
	if pageSize <= 0 {
		pageSize = 12
	}
	return &State{size: pageSize, page: 1}
}

func (s *State) refilter() {
	s.filtered = Apply(s.items, s.category, s.query)
	s.page = 1
}

// SetItems replaces the base collection.
func (s *State) SetItems(items []models.Listing) {
	s.items = items
	s.refilter()
}

// SetCategory sets or clears ("" clears) the body-type filter.
func (s *State) SetCategory(category string) {
	s.category = category
	s.refilter()
}

// SetQuery sets or clears the free-text search.
func (s *State) SetQuery(query string) {
	s.query = query
	s.refilter()
}

// SetPage moves to a 1-based page; out-of-range values reset to 1.
func (s *State) SetPage(page int) {
	if page < 1 || page > PageCount(len(s.filtered), s.size) {
		page = 1
	}
	s.page = page
}

func (s *State) Category() string { return s.category }
func (s *State) Query() string    { return s.query }
func (s *State) PageIndex() int   { return s.page }

// Filtered returns the whole filtered collection, unpaginated.
func (s *State) Filtered() []models.Listing { return s.filtered }

// Page returns the current page's items and the page count.
func (s *State) Page() ([]models.Listing, int) {
	return Paginate(s.filtered, s.size, s.page)
}

package state

import "time"

// PageStatus is the outcome of the last render of one page.
type PageStatus struct {
	Page       string    `json:"page"`
	RunID      string    `json:"run_id"`
	Output     string    `json:"output"`
	Rendered   []string  `json:"rendered"`
	Errors     []string  `json:"errors,omitempty"`
	RenderedAt time.Time `json:"rendered_at"`
}

// OK reports whether the page rendered without errors.
func (p PageStatus) OK() bool {
	return len(p.Errors) == 0
}

// State is the persisted render status of a site.
type State struct {
	// Pages holds one entry per page, in the order pages were first rendered.
	Pages []PageStatus `json:"pages"`

	// LastRenderAt is the time of the most recent Record.
	LastRenderAt time.Time `json:"last_render_at"`
}

// IsEmpty returns true if no page was ever recorded.
func (s State) IsEmpty() bool {
	return len(s.Pages) == 0
}

// Record replaces the status of p.Page, or appends it for a new page.
func (s *State) Record(p PageStatus) {
	if p.RenderedAt.After(s.LastRenderAt) {
		s.LastRenderAt = p.RenderedAt
	}
	for i := range s.Pages {
		if s.Pages[i].Page == p.Page {
			s.Pages[i] = p
			return
		}
	}
	s.Pages = append(s.Pages, p)
}

// Page returns the status of the named page.
func (s State) Page(name string) (PageStatus, bool) {
	for _, p := range s.Pages {
		if p.Page == name {
			return p, true
		}
	}
	return PageStatus{}, false
}

package viewer

import "fmt"

// Pager tracks the page shown by the viewer. Pages are numbered from 1,
// the cover.
type Pager struct {
	current int
	count   int
}

// NewPager starts at page start, clamped into 1..count.
func NewPager(count, start int) *Pager {
	p := &Pager{count: max(1, count)}
	p.Go(start)
	return p
}

// Current returns the page number shown.
func (p *Pager) Current() int { return p.current }

// Count returns the number of pages.
func (p *Pager) Count() int { return p.count }

// Go moves to page n, clamped into range, and reports whether the page changed.
func (p *Pager) Go(n int) bool {
	n = min(max(n, 1), p.count)
	changed := n != p.current
	p.current = n
	return changed
}

// Next advances one page.
func (p *Pager) Next() bool { return p.Go(p.current + 1) }

// Prev goes back one page.
func (p *Pager) Prev() bool { return p.Go(p.current - 1) }

// Label is the status text for the current page.
func (p *Pager) Label() string {
	if p.current == 1 {
		return fmt.Sprintf("Cover (1/%d)", p.count)
	}
	return fmt.Sprintf("Page %d/%d", p.current, p.count)
}

// Package paging slices an ordered collection into fixed-size pages with
// boundary-safe navigation.
package paging

// Slice returns the half-open index range [lo, hi) for a zero-based page,
// clamped to the collection bounds.
func Slice(n, size, page int) (lo, hi int) {
	if n <= 0 || size <= 0 || page < 0 {
		return 0, 0
	}
	lo = page * size
	if lo > n {
		lo = n
	}
	hi = lo + size
	if hi > n {
		hi = n
	}
	return lo, hi
}

// Pager tracks the current page over a collection whose contents may churn
// between polls. The page index survives data refreshes; only an explicit
// Reset (the full-reload path) returns to the first page, so a refresh never
// yanks the reader away from the page they are on.
type Pager struct {
	size int
	page int
}

// NewPager creates a pager with the given page size.
func NewPager(size int) *Pager {
	if size <= 0 {
		size = 1
	}
	return &Pager{size: size}
}

// Page returns the current zero-based page index.
func (p *Pager) Page() int { return p.page }

// Size returns the fixed page size.
func (p *Pager) Size() int { return p.size }

// View returns the items on the pager's current page.
func View[T any](p *Pager, items []T) []T {
	lo, hi := Slice(len(items), p.size, p.page)
	return items[lo:hi]
}

// HasPrev reports whether a previous page exists.
func (p *Pager) HasPrev() bool { return p.page > 0 }

// HasNext reports whether a next page exists for a collection of n items.
func (p *Pager) HasNext(n int) bool { return (p.page+1)*p.size < n }

// Next advances a page when one exists; past the end it is a no-op.
func (p *Pager) Next(n int) {
	if p.HasNext(n) {
		p.page++
	}
}

// Prev steps back a page when one exists; before the start it is a no-op.
func (p *Pager) Prev() {
	if p.HasPrev() {
		p.page--
	}
}

// Reset returns to the first page. Called only on an explicit full reload.
func (p *Pager) Reset() { p.page = 0 }

// Clamp pulls the current page back into range after the collection shrank
// underneath it.
func (p *Pager) Clamp(n int) {
	for p.page > 0 && p.page*p.size >= n {
		p.page--
	}
}

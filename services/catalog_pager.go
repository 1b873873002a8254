package services

import (
	"context"
	"strconv"
	"sync"

	"moda-store/models"
)

// CatalogStore reads pages of products in the store's native key order.
type CatalogStore interface {
	FirstPage(ctx context.Context, n int) ([]models.Product, error)
	PageAfter(ctx context.Context, cursor string, n int) ([]models.Product, error)
}

// CatalogPager walks a key-ordered catalog one page at a time, keeping the
// loaded window that the filter engine operates on. At most one page request
// is in flight: the guard is checked and set before any I/O, so overlapping
// scroll-triggered calls collapse to a single request.
type CatalogPager struct {
	mu       sync.Mutex
	store    CatalogStore
	pageSize int

	loaded    []models.Product
	seen      map[int]bool
	cursor    string
	exhausted bool
	inFlight  bool
}

func NewCatalogPager(store CatalogStore, pageSize int) *CatalogPager {
	return &CatalogPager{
		store:    store,
		pageSize: pageSize,
		seen:     map[int]bool{},
	}
}

// LoadFirstPage resets the window and loads the first page. On failure the
// window stays empty and the error is surfaced.
func (p *CatalogPager) LoadFirstPage(ctx context.Context) error {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return nil
	}
	p.inFlight = true
	size := p.pageSize
	p.mu.Unlock()

	page, err := p.store.FirstPage(ctx, size)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight = false

	if err != nil {
		p.loaded = nil
		p.seen = map[int]bool{}
		p.cursor = ""
		p.exhausted = false
		return err
	}

	p.loaded = make([]models.Product, 0, len(page))
	p.seen = make(map[int]bool, len(page))
	for _, prod := range page {
		p.loaded = append(p.loaded, prod)
		p.seen[prod.ID] = true
	}
	if len(page) > 0 {
		p.cursor = strconv.Itoa(page[len(page)-1].ID)
	} else {
		p.cursor = ""
	}
	p.exhausted = len(page) < size
	return nil
}

// LoadNextPage fetches the page after the cursor. It is a silent no-op when
// the store is exhausted or a load is already in flight. Items whose id is
// already in the window are dropped; page boundaries can re-deliver the
// cursor row.
func (p *CatalogPager) LoadNextPage(ctx context.Context) error {
	p.mu.Lock()
	if p.exhausted || p.inFlight {
		p.mu.Unlock()
		return nil
	}
	p.inFlight = true
	cursor := p.cursor
	size := p.pageSize
	p.mu.Unlock()

	page, err := p.store.PageAfter(ctx, cursor, size)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight = false

	if err != nil {
		return err
	}

	for _, prod := range page {
		if p.seen[prod.ID] {
			continue
		}
		p.loaded = append(p.loaded, prod)
		p.seen[prod.ID] = true
	}
	if len(page) > 0 {
		p.cursor = strconv.Itoa(page[len(page)-1].ID)
	}
	if len(page) < size {
		p.exhausted = true
	}
	return nil
}

// Window returns a copy of the loaded products in load order.
func (p *CatalogPager) Window() []models.Product {
	p.mu.Lock()
	defer p.mu.Unlock()
	window := make([]models.Product, len(p.loaded))
	copy(window, p.loaded)
	return window
}

// HasMore reports whether the store may still hold unloaded pages.
func (p *CatalogPager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.exhausted
}

// PagerRegistry hands out one pager per browsing session so consecutive
// page requests extend the same window.
type PagerRegistry struct {
	mu       sync.Mutex
	store    CatalogStore
	pageSize int
	pagers   map[string]*CatalogPager
}

func NewPagerRegistry(store CatalogStore, pageSize int) *PagerRegistry {
	return &PagerRegistry{
		store:    store,
		pageSize: pageSize,
		pagers:   map[string]*CatalogPager{},
	}
}

func (r *PagerRegistry) Get(sessionID string) *CatalogPager {
	r.mu.Lock()
	defer r.mu.Unlock()
	pager, ok := r.pagers[sessionID]
	if !ok {
		pager = NewCatalogPager(r.store, r.pageSize)
		r.pagers[sessionID] = pager
	}
	return pager
}

func (r *PagerRegistry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pagers, sessionID)
}

package services

import (
	"sort"
	"strings"

	"moda-store/models"
)

// ProductFilter is one filter set. Facets compose with AND; the size and
// color lists are OR within themselves. Nil price bounds mean unbounded.
type ProductFilter struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
	Sizes    []string
	Colors   []string
	Pattern  string
	Sort     string
}

const (
	SortNone        = ""
	SortPriceAsc    = "price_asc"
	SortPriceDesc   = "price_desc"
	SortRecommended = "recommended"
)

// FacetFilterEngine narrows the currently loaded window to a display list.
// It never reaches back to the store: correctness over a large catalog
// depends on the pager continuing to fetch, so callers keep the pagination
// trigger alive even when the filtered count is small.
type FacetFilterEngine struct {
	inventory *InventoryService
}

func NewFacetFilterEngine(inventory *InventoryService) *FacetFilterEngine {
	return &FacetFilterEngine{inventory: inventory}
}

func (e *FacetFilterEngine) Apply(window []models.Product, f ProductFilter) []models.Product {
	result := make([]models.Product, 0, len(window))
	for i := range window {
		if e.matches(&window[i], f) {
			result = append(result, window[i])
		}
	}

	switch f.Sort {
	case SortPriceAsc:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price < result[j].Price })
	case SortPriceDesc:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price > result[j].Price })
	case SortRecommended:
		// Newest-first heuristic: ids are assigned in insertion order.
		sort.SliceStable(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	}
	return result
}

func (e *FacetFilterEngine) matches(p *models.Product, f ProductFilter) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(strings.TrimSpace(f.Name))) {
		return false
	}

	if f.Category != "" && normalizeTerm(p.Category) != normalizeTerm(f.Category) {
		return false
	}

	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}

	if f.Pattern != "" && p.Pattern != f.Pattern {
		return false
	}

	if len(f.Sizes) > 0 && !e.matchesAnySize(p, f.Sizes) {
		return false
	}

	if len(f.Colors) > 0 && !e.matchesAnyColor(p, f.Colors) {
		return false
	}

	return true
}

func (e *FacetFilterEngine) matchesAnySize(p *models.Product, sizes []string) bool {
	bySize := e.inventory.StockBySize(p)
	for _, want := range sizes {
		if p.Size != "" && normalizeTerm(p.Size) == normalizeTerm(want) {
			return true
		}
		for size, q := range bySize {
			if q > 0 && normalizeTerm(size) == normalizeTerm(want) {
				return true
			}
		}
	}
	return false
}

func (e *FacetFilterEngine) matchesAnyColor(p *models.Product, colors []string) bool {
	available := e.inventory.AvailableColors(p)
	for _, want := range colors {
		normalized := normalizeTerm(want)
		for _, color := range available {
			if color == normalized {
				return true
			}
		}
	}
	return false
}

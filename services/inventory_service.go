package services

import (
	"sort"
	"strings"

	"moda-store/models"
)

// InventoryService answers what is purchasable for a product. All methods
// are pure reads over the product's resolved stock representation; catalog
// data is externally authored, so anything absent or malformed degrades to
// zero or empty instead of erroring.
type InventoryService struct{}

func NewInventoryService() *InventoryService {
	return &InventoryService{}
}

// sizeRank orders the domestic size run. Unrecognized sizes sort after the
// known run, among themselves lexicographically. "Único" goes last unless it
// is the only size offered.
var sizeRank = map[string]int{
	"pp":  0,
	"p":   1,
	"m":   2,
	"g":   3,
	"gg":  4,
	"xg":  5,
	"xxg": 6,
}

const oneSizeLabel = "único"

func normalizeTerm(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// TotalQuantity resolves purchasable stock with a fixed precedence: the flat
// quantity override wins, then the variant sum, then the legacy map sum,
// then zero. The order is historical and must not change.
func (s *InventoryService) TotalQuantity(p *models.Product) int {
	if p == nil {
		return 0
	}
	if p.Quantity != nil {
		if *p.Quantity < 0 {
			return 0
		}
		return *p.Quantity
	}

	switch p.StockKind {
	case models.StockVariants:
		total := 0
		for _, v := range p.Variants {
			if v.Quantity > 0 {
				total += v.Quantity
			}
		}
		return total
	case models.StockLegacyMap:
		total := 0
		for _, q := range p.LegacyStock {
			if q > 0 {
				total += q
			}
		}
		return total
	default:
		return 0
	}
}

// StockBySize aggregates variant stock per size, summing across colors.
// Legacy records return their flat map verbatim.
func (s *InventoryService) StockBySize(p *models.Product) map[string]int {
	if p == nil {
		return map[string]int{}
	}

	switch p.StockKind {
	case models.StockVariants:
		bySize := map[string]int{}
		for _, v := range p.Variants {
			size := strings.TrimSpace(v.Size)
			if size == "" {
				continue
			}
			if v.Quantity > 0 {
				bySize[size] += v.Quantity
			} else if _, seen := bySize[size]; !seen {
				bySize[size] = 0
			}
		}
		return bySize
	case models.StockLegacyMap:
		bySize := make(map[string]int, len(p.LegacyStock))
		for size, q := range p.LegacyStock {
			bySize[size] = q
		}
		return bySize
	default:
		return map[string]int{}
	}
}

// AvailableColors lists distinct variant colors with summed stock above
// zero, normalized and sorted lexicographically.
func (s *InventoryService) AvailableColors(p *models.Product) []string {
	if p == nil || p.StockKind != models.StockVariants {
		return []string{}
	}

	byColor := map[string]int{}
	for _, v := range p.Variants {
		color := normalizeTerm(v.Color)
		if color == "" {
			continue
		}
		if v.Quantity > 0 {
			byColor[color] += v.Quantity
		}
	}

	colors := make([]string, 0, len(byColor))
	for color, q := range byColor {
		if q > 0 {
			colors = append(colors, color)
		}
	}
	sort.Strings(colors)
	return colors
}

// SizesForColor lists stocked sizes for one color in the domestic size
// order.
func (s *InventoryService) SizesForColor(p *models.Product, color string) []string {
	if p == nil || p.StockKind != models.StockVariants {
		return []string{}
	}

	want := normalizeTerm(color)
	bySize := map[string]int{}
	for _, v := range p.Variants {
		if normalizeTerm(v.Color) != want {
			continue
		}
		size := strings.TrimSpace(v.Size)
		if size == "" {
			continue
		}
		if v.Quantity > 0 {
			bySize[size] += v.Quantity
		}
	}

	sizes := make([]string, 0, len(bySize))
	for size, q := range bySize {
		if q > 0 {
			sizes = append(sizes, size)
		}
	}
	SortSizes(sizes)
	return sizes
}

// VariantStock returns the exact stock of one (color, size) combination,
// summing duplicate rows for the same pair. Unknown combinations are zero.
func (s *InventoryService) VariantStock(p *models.Product, color, size string) int {
	if p == nil || p.StockKind != models.StockVariants {
		return 0
	}

	wantColor := normalizeTerm(color)
	wantSize := normalizeTerm(size)
	total := 0
	for _, v := range p.Variants {
		if normalizeTerm(v.Color) == wantColor && normalizeTerm(v.Size) == wantSize && v.Quantity > 0 {
			total += v.Quantity
		}
	}
	return total
}

// SortSizes orders sizes in place: the domestic run first, unrecognized
// sizes lexicographically after it, "Único" always at the end unless it is
// the only entry.
func SortSizes(sizes []string) {
	if len(sizes) <= 1 {
		return
	}

	sort.SliceStable(sizes, func(i, j int) bool {
		a, b := normalizeTerm(sizes[i]), normalizeTerm(sizes[j])

		if a == oneSizeLabel {
			return false
		}
		if b == oneSizeLabel {
			return true
		}

		ra, okA := sizeRank[a]
		rb, okB := sizeRank[b]
		switch {
		case okA && okB:
			return ra < rb
		case okA:
			return true
		case okB:
			return false
		default:
			return a < b
		}
	})
}

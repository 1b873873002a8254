package models

import "time"

// StockKind tells which stock representation a product carries. It is
// resolved once when the product is loaded; the two representations are
// never merged.
type StockKind int

const (
	StockNone StockKind = iota
	StockVariants
	StockLegacyMap
)

// Variant is one purchasable (color, size) combination with its own stock.
type Variant struct {
	ID       int    `json:"id"`
	Color    string `json:"color"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

type Product struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Pattern     string    `json:"pattern,omitempty"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url"`
	Size        string    `json:"size,omitempty"`
	// Quantity is the flat stock override from pre-variant records. When
	// present it is authoritative over any variant or legacy sum.
	Quantity    *int           `json:"quantity,omitempty"`
	Variants    []Variant      `json:"variants,omitempty"`
	LegacyStock map[string]int `json:"legacy_stock,omitempty"`
	StockKind   StockKind      `json:"-"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ResolveStockKind fixes the discriminant: non-empty variants win over the
// legacy size map.
func (p *Product) ResolveStockKind() {
	switch {
	case len(p.Variants) > 0:
		p.StockKind = StockVariants
	case len(p.LegacyStock) > 0:
		p.StockKind = StockLegacyMap
	default:
		p.StockKind = StockNone
	}
}

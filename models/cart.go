package models

// CartLine is one cart entry. Name, price and image are snapshots taken at
// add time; later catalog changes do not touch lines already in the cart.
// Identity within a cart is the (product id, size, color) triple.
type CartLine struct {
	ProductID int     `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"image_url"`
	Size      *string `json:"size,omitempty"`
	Color     *string `json:"color,omitempty"`
	Quantity  int     `json:"quantity"`
}

type Cart struct {
	Lines []CartLine `json:"lines"`
}

// Total and Count are recomputed on every call, never cached.
func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.Lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

func (c *Cart) Count() int {
	count := 0
	for _, l := range c.Lines {
		count += l.Quantity
	}
	return count
}

func sameVariant(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// FindLine returns the index of the line matching the identity triple, or -1.
func (c *Cart) FindLine(productID int, size, color *string) int {
	for i, l := range c.Lines {
		if l.ProductID == productID && sameVariant(l.Size, size) && sameVariant(l.Color, color) {
			return i
		}
	}
	return -1
}

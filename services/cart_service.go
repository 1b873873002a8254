package services

import (
	"context"
	"fmt"

	"moda-store/models"
	"moda-store/repositories"
)

// CartService owns the cart lines of each session key. Every mutation
// loads the slot, applies the change and writes the full line list back
// before returning, so a reload always sees the last completed mutation.
type CartService struct {
	store     repositories.SessionStore
	inventory *InventoryService
}

func NewCartService(store repositories.SessionStore, inventory *InventoryService) *CartService {
	return &CartService{store: store, inventory: inventory}
}

func (s *CartService) Get(ctx context.Context, key string) (*models.Cart, error) {
	lines, err := s.store.LoadCart(ctx, key)
	if err != nil {
		return nil, err
	}
	return &models.Cart{Lines: lines}, nil
}

// AddLine puts one unit of a product variant in the cart. An existing
// (product, size, color) line is incremented instead of duplicated, and the
// quantity is silently clamped to the known stock when one is known.
func (s *CartService) AddLine(ctx context.Context, key string, product *models.Product, size, color *string) (*models.Cart, error) {
	cart, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	maxQuantity := s.maxQuantityFor(product, size, color)

	if i := cart.FindLine(product.ID, size, color); i >= 0 {
		next := cart.Lines[i].Quantity + 1
		if maxQuantity > 0 && next > maxQuantity {
			next = maxQuantity
		}
		cart.Lines[i].Quantity = next
	} else {
		cart.Lines = append(cart.Lines, models.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			ImageURL:  product.ImageURL,
			Size:      size,
			Color:     color,
			Quantity:  1,
		})
	}

	if err := s.store.SaveCart(ctx, key, cart.Lines); err != nil {
		return nil, fmt.Errorf("failed to persist cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) maxQuantityFor(product *models.Product, size, color *string) int {
	if color != nil && size != nil {
		return s.inventory.VariantStock(product, *color, *size)
	}
	if size != nil {
		return s.inventory.StockBySize(product)[*size]
	}
	return s.inventory.TotalQuantity(product)
}

// RemoveLine drops every line of the product id. Removal granularity is
// per product, not per variant.
func (s *CartService) RemoveLine(ctx context.Context, key string, productID int) (*models.Cart, error) {
	cart, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	kept := cart.Lines[:0]
	for _, l := range cart.Lines {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	cart.Lines = kept

	if err := s.store.SaveCart(ctx, key, cart.Lines); err != nil {
		return nil, fmt.Errorf("failed to persist cart: %w", err)
	}
	return cart, nil
}

// SetQuantity applies a delta to the first line of the product, floored at
// one. Dropping to zero never happens through this path; removal is its own
// action.
func (s *CartService) SetQuantity(ctx context.Context, key string, productID int, delta int) (*models.Cart, error) {
	cart, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	for i := range cart.Lines {
		if cart.Lines[i].ProductID == productID {
			next := cart.Lines[i].Quantity + delta
			if next < 1 {
				next = 1
			}
			cart.Lines[i].Quantity = next
			break
		}
	}

	if err := s.store.SaveCart(ctx, key, cart.Lines); err != nil {
		return nil, fmt.Errorf("failed to persist cart: %w", err)
	}
	return cart, nil
}

// Clear empties the cart. Only confirmed payment success calls this.
func (s *CartService) Clear(ctx context.Context, key string) error {
	if err := s.store.SaveCart(ctx, key, []models.CartLine{}); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

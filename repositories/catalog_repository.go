package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"moda-store/models"

	"golang.org/x/sync/singleflight"
)

// CatalogRepository reads the product catalog in the store's native key
// order: lexicographic over the stringified id (`id::text`). Callers must
// not assume that order equals numeric id order once ids pass uniform digit
// width; the pager's contract is key order only.
type CatalogRepository struct {
	sfg singleflight.Group
}

func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{}
}

const productColumns = `id, name, description, category, COALESCE(pattern, ''), price,
	COALESCE(image_url, ''), COALESCE(size, ''), quantity, legacy_stock, is_active, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	var legacyRaw []byte
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Pattern, &p.Price,
		&p.ImageURL, &p.Size, &p.Quantity, &legacyRaw, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(legacyRaw) > 0 {
		// Catalog data is externally authored; a malformed map degrades to
		// no legacy stock instead of failing the read.
		if err := json.Unmarshal(legacyRaw, &p.LegacyStock); err != nil {
			p.LegacyStock = nil
		}
	}
	return &p, nil
}

// FirstPage returns the first n products in key order.
func (r *CatalogRepository) FirstPage(ctx context.Context, n int) ([]models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE is_active=true ORDER BY id::text LIMIT $1`, productColumns)
	return r.queryPage(ctx, query, n)
}

// PageAfter returns up to n products whose key follows the cursor.
func (r *CatalogRepository) PageAfter(ctx context.Context, cursor string, n int) ([]models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE is_active=true AND id::text > $1 ORDER BY id::text LIMIT $2`, productColumns)
	return r.queryPage(ctx, query, cursor, n)
}

func (r *CatalogRepository) queryPage(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := models.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachVariants(ctx, products); err != nil {
		return nil, err
	}
	for i := range products {
		products[i].ResolveStockKind()
	}
	return products, nil
}

func (r *CatalogRepository) attachVariants(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]int, 0, len(products))
	index := make(map[int]int, len(products))
	for i, p := range products {
		ids = append(ids, p.ID)
		index[p.ID] = i
	}

	rows, err := models.DB.Query(ctx,
		`SELECT id, product_id, color, size, quantity FROM product_variants WHERE product_id = ANY($1) ORDER BY id`,
		ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var v models.Variant
		var productID int
		if err := rows.Scan(&v.ID, &productID, &v.Color, &v.Size, &v.Quantity); err != nil {
			return err
		}
		if i, ok := index[productID]; ok {
			products[i].Variants = append(products[i].Variants, v)
		}
	}
	return rows.Err()
}

func productCacheKey(id int) string {
	return "product_detail_" + strconv.Itoa(id)
}

// GetProductByID loads one product with its variants, through the Redis
// cache when available. Concurrent misses for the same id collapse to one
// database read.
func (r *CatalogRepository) GetProductByID(ctx context.Context, id int) (*models.Product, error) {
	if models.RedisClient != nil {
		cached, err := models.RedisClient.Get(ctx, productCacheKey(id)).Result()
		if err == nil {
			var p models.Product
			if err := json.Unmarshal([]byte(cached), &p); err == nil {
				p.ResolveStockKind()
				return &p, nil
			}
		}
	}

	v, err, _ := r.sfg.Do(strconv.Itoa(id), func() (interface{}, error) {
		query := fmt.Sprintf(`SELECT %s FROM products WHERE id=$1`, productColumns)
		p, err := scanProduct(models.DB.QueryRow(ctx, query, id))
		if err != nil {
			return nil, err
		}

		page := []models.Product{*p}
		if err := r.attachVariants(ctx, page); err != nil {
			return nil, err
		}
		p = &page[0]
		p.ResolveStockKind()

		if models.RedisClient != nil {
			if data, err := json.Marshal(p); err == nil {
				if err := models.RedisClient.Set(context.Background(), productCacheKey(id), data, 5*time.Minute).Err(); err != nil {
					log.Printf("product cache set error: %v", err)
				}
			}
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Product), nil
}

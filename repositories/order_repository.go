package repositories

import (
	"context"
	"fmt"
	"time"

	"moda-store/models"
)

type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// CreateOrder persists an order with its items and decrements stock in one
// transaction. Variant stock is decremented when the line names a variant;
// the flat quantity column covers pre-variant records.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	tx, err := models.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (order_number, user_id, subtotal, shipping_cost, total, carrier, cep, status, payment_method, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11) RETURNING id`,
		order.OrderNumber, order.UserID, order.Subtotal, order.ShippingCost, order.Total,
		order.Carrier, order.CEP, order.Status, order.PaymentMethod, now, now,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID

		err = tx.QueryRow(ctx,
			`INSERT INTO order_items (order_id, product_id, product_name, quantity, price, size, color, created_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id`,
			order.ID, item.ProductID, item.ProductName, item.Quantity, item.Price, item.Size, item.Color, now,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}

		if item.Size != nil && item.Color != nil {
			_, err = tx.Exec(ctx,
				`UPDATE product_variants SET quantity = GREATEST(quantity - $1, 0)
				 WHERE product_id=$2 AND size=$3 AND color=$4`,
				item.Quantity, item.ProductID, *item.Size, *item.Color)
		} else {
			_, err = tx.Exec(ctx,
				`UPDATE products SET quantity = GREATEST(quantity - $1, 0), updated_at=$2
				 WHERE id=$3 AND quantity IS NOT NULL`,
				item.Quantity, now, item.ProductID)
		}
		if err != nil {
			return fmt.Errorf("failed to update stock: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	order.CreatedAt = now
	order.UpdatedAt = now
	return nil
}

func (r *OrderRepository) GetOrderByNumber(ctx context.Context, userID int, orderNumber string) (*models.Order, error) {
	order := &models.Order{}
	err := models.DB.QueryRow(ctx,
		`SELECT id, order_number, user_id, subtotal, shipping_cost, total, carrier, cep, status, payment_method, created_at, updated_at
		 FROM orders WHERE user_id=$1 AND order_number=$2`,
		userID, orderNumber,
	).Scan(&order.ID, &order.OrderNumber, &order.UserID, &order.Subtotal, &order.ShippingCost,
		&order.Total, &order.Carrier, &order.CEP, &order.Status, &order.PaymentMethod,
		&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	rows, err := models.DB.Query(ctx,
		`SELECT id, order_id, product_id, product_name, quantity, price, size, color
		 FROM order_items WHERE order_id=$1 ORDER BY id`,
		order.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.Price, &item.Size, &item.Color); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	return order, rows.Err()
}

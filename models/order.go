package models

import "time"

type Order struct {
	ID            int         `json:"id"`
	OrderNumber   string      `json:"order_number"`
	UserID        int         `json:"user_id"`
	Subtotal      float64     `json:"subtotal"`
	ShippingCost  float64     `json:"shipping_cost"`
	Total         float64     `json:"total"`
	Carrier       string      `json:"carrier"`
	CEP           string      `json:"cep"`
	Status        string      `json:"status"`
	PaymentMethod string      `json:"payment_method"`
	Items         []OrderItem `json:"items,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID          int     `json:"id"`
	OrderID     int     `json:"order_id"`
	ProductID   int     `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Size        *string `json:"size,omitempty"`
	Color       *string `json:"color,omitempty"`
}

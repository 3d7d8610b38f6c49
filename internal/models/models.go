package models

import (
	"time"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled" // terminal, set out of band
)

// Statuses lists every status in display order.
var Statuses = []OrderStatus{StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled}

// NextStatus returns the single forward transition for s. Delivered,
// cancelled and unknown statuses have none.
func NextStatus(s OrderStatus) (OrderStatus, bool) {
	switch s {
	case StatusPending:
		return StatusConfirmed, true
	case StatusConfirmed:
		return StatusShipped, true
	case StatusShipped:
		return StatusDelivered, true
	}
	return "", false
}

// ActionLabel is the button text offered for moving an order into s.
func ActionLabel(s OrderStatus) string {
	switch s {
	case StatusConfirmed:
		return "Confirm"
	case StatusShipped:
		return "Mark Shipped"
	case StatusDelivered:
		return "Mark Delivered"
	}
	return ""
}

type OrderItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Color       string  `json:"color"`
	Size        string  `json:"size"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type Order struct {
	OrderID           string      `json:"order_id"`
	CustomerID        string      `json:"customer_id"`
	CustomerName      string      `json:"customer_name"`
	Phone             string      `json:"phone"`
	Address           string      `json:"address"`
	Items             []OrderItem `json:"items"`
	TotalAmount       float64     `json:"total_amount"`
	PaymentMethod     string      `json:"payment_method"` // "COD" or "Online"
	PaymentScreenshot string      `json:"payment_screenshot"`
	Status            OrderStatus `json:"status"`
	CreatedAt         time.Time   `json:"created_at"`
}

type Product struct {
	ProductID   string    `json:"product_id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Colors      []string  `json:"colors"`
	Sizes       []string  `json:"sizes"`
	Stock       int       `json:"stock"`
	Images      []string  `json:"images"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductInput is the create/update payload: a Product without its
// server-assigned fields.
type ProductInput struct {
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Colors      []string `json:"colors"`
	Sizes       []string `json:"sizes"`
	Stock       int      `json:"stock"`
	Images      []string `json:"images"`
	Active      bool     `json:"active"`
}

type PeriodSummary struct {
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type Analytics struct {
	Today        PeriodSummary `json:"today"`
	Week         PeriodSummary `json:"week"`
	Month        PeriodSummary `json:"month"`
	RecentOrders []Order       `json:"recent_orders"`
}

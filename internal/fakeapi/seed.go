package fakeapi

import (
	"time"

	"github.com/santoshkumarshah266-jpg/storeadmin/internal/models"
)

// Seed fills the server with a small catalog and a spread of orders so
// every console screen has something to show.
func (s *Server) Seed() {
	now := s.now()

	kurta := s.AddProduct(models.Product{
		Name:        "Cotton Kurta",
		Price:       1800,
		Description: "Hand-block printed cotton kurta",
		Colors:      []string{"Red", "Blue", "White"},
		Sizes:       []string{"S", "M", "L", "XL"},
		Stock:       25,
		Active:      true,
		CreatedAt:   now.Add(-40 * 24 * time.Hour),
	})
	shawl := s.AddProduct(models.Product{
		Name:        "Pashmina Shawl",
		Price:       4500,
		Description: "Pure pashmina, 200x70cm",
		Colors:      []string{"Maroon", "Cream"},
		Stock:       8,
		Active:      true,
		CreatedAt:   now.Add(-35 * 24 * time.Hour),
	})
	s.AddProduct(models.Product{
		Name:      "Dhaka Topi",
		Price:     650,
		Stock:     0,
		Active:    false,
		CreatedAt: now.Add(-20 * 24 * time.Hour),
	})

	orders := []struct {
		name, phone string
		product     models.Product
		qty         int
		payment     string
		status      models.OrderStatus
		age         time.Duration
	}{
		{"Sita Sharma", "9801234567", kurta, 2, "COD", models.StatusPending, time.Hour},
		{"Ram Thapa", "9812345678", shawl, 1, "Online", models.StatusConfirmed, 3 * 24 * time.Hour},
		{"Gita Rai", "9843210987", kurta, 1, "COD", models.StatusShipped, 10 * 24 * time.Hour},
		{"Hari Gurung", "9865432109", shawl, 2, "Online", models.StatusDelivered, 25 * 24 * time.Hour},
		{"Maya Tamang", "9808765432", kurta, 3, "COD", models.StatusCancelled, 45 * 24 * time.Hour},
	}
	for i, o := range orders {
		item := models.OrderItem{
			ProductID:   o.product.ProductID,
			ProductName: o.product.Name,
			Quantity:    o.qty,
			Price:       o.product.Price,
		}
		if len(o.product.Colors) > 0 {
			item.Color = o.product.Colors[i%len(o.product.Colors)]
		}
		if len(o.product.Sizes) > 0 {
			item.Size = o.product.Sizes[i%len(o.product.Sizes)]
		}
		s.AddOrder(models.Order{
			CustomerID:    "psid-" + o.phone,
			CustomerName:  o.name,
			Phone:         o.phone,
			Address:       "Kathmandu",
			Items:         []models.OrderItem{item},
			TotalAmount:   float64(o.qty) * o.product.Price,
			PaymentMethod: o.payment,
			Status:        o.status,
			CreatedAt:     now.Add(-o.age),
		})
	}
}

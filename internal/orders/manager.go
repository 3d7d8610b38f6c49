// Package orders is the order list screen: fetch, filter in memory and
// advance an order one step along its status sequence.
package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/santoshkumarshah266-jpg/storeadmin/internal/models"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/notify"
)

// FilterAll disables status matching in Filter.
const FilterAll = "all"

var (
	ErrInvalidTransition = errors.New("orders: not the next status for this order")
	ErrUnknownOrder      = errors.New("orders: order not in the loaded list")
)

type API interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error
}

// Manager holds the order list of one screen.
type Manager struct {
	api      API
	notifier notify.Notifier
	orders   []models.Order
}

func NewManager(api API, notifier notify.Notifier) *Manager {
	if notifier == nil {
		notifier = notify.Discard
	}
	return &Manager{api: api, notifier: notifier}
}

// Orders returns the list held since the last successful List.
func (m *Manager) Orders() []models.Order {
	return m.orders
}

// List replaces the held list with the API's. On failure the held list is
// left empty.
func (m *Manager) List(ctx context.Context) ([]models.Order, error) {
	orders, err := m.api.ListOrders(ctx)
	if err != nil {
		m.orders = nil
		notify.Error(m.notifier, "Failed to load orders")
		return nil, fmt.Errorf("list orders: %w", err)
	}
	m.orders = orders
	return orders, nil
}

func (m *Manager) Get(ctx context.Context, id string) (*models.Order, error) {
	o, err := m.api.GetOrder(ctx, id)
	if err != nil {
		notify.Error(m.notifier, "Failed to load order")
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	return o, nil
}

// Advance moves a held order to next, which must be the single forward
// transition of its current status. On success the list is fetched again;
// on failure the held list is untouched.
func (m *Manager) Advance(ctx context.Context, orderID string, next models.OrderStatus) error {
	current, ok := m.find(orderID)
	if !ok {
		return ErrUnknownOrder
	}
	if allowed, ok := models.NextStatus(current.Status); !ok || allowed != next {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, next)
	}

	if err := m.api.UpdateOrderStatus(ctx, orderID, next); err != nil {
		notify.Error(m.notifier, "Failed to update order status")
		return fmt.Errorf("update order %s: %w", orderID, err)
	}
	notify.Success(m.notifier, "Order status updated")

	if _, err := m.List(ctx); err != nil {
		return err
	}
	return nil
}

func (m *Manager) find(id string) (models.Order, bool) {
	for _, o := range m.orders {
		if o.OrderID == id {
			return o, true
		}
	}
	return models.Order{}, false
}

// Filter keeps the orders matching both searchText and statusFilter, in
// input order. Name and identifier match case-insensitively, phone as a
// plain substring. An empty statusFilter behaves like FilterAll.
func Filter(orders []models.Order, searchText, statusFilter string) []models.Order {
	needle := strings.ToLower(searchText)
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		matchesSearch := strings.Contains(strings.ToLower(o.CustomerName), needle) ||
			strings.Contains(o.Phone, searchText) ||
			strings.Contains(strings.ToLower(o.OrderID), needle)
		matchesStatus := statusFilter == "" || statusFilter == FilterAll || string(o.Status) == statusFilter
		if matchesSearch && matchesStatus {
			out = append(out, o)
		}
	}
	return out
}

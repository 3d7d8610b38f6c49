package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/santoshkumarshah266-jpg/storeadmin/internal/models"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/notify"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/orders"
)

type orderRow struct {
	models.Order
	Next      models.OrderStatus
	NextLabel string
}

func newOrderRow(o models.Order) orderRow {
	row := orderRow{Order: o}
	if next, ok := models.NextStatus(o.Status); ok {
		row.Next = next
		row.NextLabel = models.ActionLabel(next)
	}
	return row
}

func ordersURL(search, status string) string {
	v := url.Values{}
	if search != "" {
		v.Set("q", search)
	}
	if status != "" && status != orders.FilterAll {
		v.Set("status", status)
	}
	if len(v) == 0 {
		return "/admin/orders"
	}
	return "/admin/orders?" + v.Encode()
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	cookie := h.cookie(r)
	search := r.URL.Query().Get("q")
	status := r.URL.Query().Get("status")
	if status == "" {
		status = orders.FilterAll
	}

	m := orders.NewManager(h.client(r), flashNotifier{session: cookie})
	all, err := m.List(r.Context())
	if err != nil {
		if h.loggedOut(w, r, cookie, err) {
			return
		}
		slog.Error("Error fetching orders", "error", err)
	}

	var rows []orderRow
	for _, o := range orders.Filter(all, search, status) {
		rows = append(rows, newOrderRow(o))
	}

	h.render(w, r, cookie, "admin_orders.html", map[string]interface{}{
		"Orders":   rows,
		"Total":    len(all),
		"Search":   search,
		"Status":   status,
		"Statuses": models.Statuses,
	})
}

func (h *AdminHandler) ViewOrder(w http.ResponseWriter, r *http.Request) {
	cookie := h.cookie(r)
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	m := orders.NewManager(h.client(r), flashNotifier{session: cookie})
	o, err := m.Get(r.Context(), id)
	if err != nil {
		if h.loggedOut(w, r, cookie, err) {
			return
		}
		h.redirect(w, r, cookie, "/admin/orders")
		return
	}

	h.render(w, r, cookie, "admin_order.html", map[string]interface{}{
		"Order": newOrderRow(*o),
	})
}

func (h *AdminHandler) AdvanceOrder(w http.ResponseWriter, r *http.Request) {
	cookie := h.cookie(r)
	id := r.FormValue("id")
	next := models.OrderStatus(r.FormValue("status"))
	back := ordersURL(r.FormValue("q"), r.FormValue("filter"))

	m := orders.NewManager(h.client(r), flashNotifier{session: cookie})
	if _, err := m.List(r.Context()); err != nil {
		if h.loggedOut(w, r, cookie, err) {
			return
		}
		h.redirect(w, r, cookie, back)
		return
	}

	err := m.Advance(r.Context(), id, next)
	switch {
	case err == nil:
		slog.Info("Order status advanced", "order_id", id, "status", next)
	case errors.Is(err, orders.ErrInvalidTransition), errors.Is(err, orders.ErrUnknownOrder):
		slog.Warn("Rejected order status change", "order_id", id, "status", next, "error", err)
		cookie.AddFlash(FlashMessage{Type: notify.TypeError, Message: "That status change is not allowed for this order."})
	default:
		if h.loggedOut(w, r, cookie, err) {
			return
		}
		slog.Error("Error updating order status", "order_id", id, "error", err)
	}
	h.redirect(w, r, cookie, back)
}

package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/alextreichler/gizmogrid/internal/models"
)

const ordersPath = "/admin/orders"

type statusOption struct {
	Value string
	Label string
}

var orderStatusFilters = []statusOption{
	{Value: "", Label: "All"},
	{Value: models.OrderPending, Label: "Pending"},
	{Value: models.OrderCompleted, Label: "Completed"},
	{Value: models.OrderCancelled, Label: "Cancelled"},
}

// statusFilter defaults to Pending when the parameter is absent. An empty value
// means all orders.
func statusFilter(q url.Values) string {
	if !q.Has("status") {
		return models.OrderPending
	}
	return q.Get("status")
}

func ordersQuery(status string, page int) url.Values {
	q := url.Values{}
	q.Set("status", status)
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	return q
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	sess, holder := h.state(r)
	status := statusFilter(r.URL.Query())
	page := queryInt(r, "page", 1)

	data := map[string]interface{}{
		"Status":   status,
		"Statuses": orderStatusFilters,
		"Page":     page,
	}

	list, err := h.API.ListOrders(r.Context(), holder.User().Token, page, ordersPageLimit, status)
	if err != nil {
		data["Error"] = genericError
	} else {
		data["Orders"] = list.Orders
		data["Pager"] = NewPager(ordersPath, url.Values{"status": {status}}, page, list.Total)
	}

	h.render(w, r, sess, holder, "admin_orders.html", http.StatusOK, data)
}

// UpdateOrderStatus completes or cancels a pending order, then re-lists.
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	sess, holder := h.state(r)
	filter := r.FormValue("filter")
	back := listURL(ordersPath, ordersQuery(filter, formInt(r, "page", 1)))

	id := r.FormValue("id")
	status := r.FormValue("status")
	if id == "" {
		h.redirect(w, r, sess, back, errorFlash("Invalid ID."))
		return
	}
	if status != models.OrderCompleted && status != models.OrderCancelled {
		h.redirect(w, r, sess, back, errorFlash("Invalid status selected."))
		return
	}

	if err := h.API.UpdateOrderStatus(r.Context(), holder.User().Token, id, status); err != nil {
		slog.Error("Failed to update order", "id", id, "status", status, "error", err)
		h.redirect(w, r, sess, back, errorFlash(genericError))
		return
	}
	slog.Info("Order status updated", "id", id, "status", status)
	h.redirect(w, r, sess, back, successFlash("Order updated!"))
}

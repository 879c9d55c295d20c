package handlers

import (
	"net/http"
)

type OrderHandler struct {
	*Base
}

// MyOrders lists the orders placed with the current user's email. It doubles as
// the confirmation view after checkout.
func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	sess, holder := h.state(r)
	user := holder.User()
	data := map[string]interface{}{}

	orders, err := h.API.OrdersByEmail(r.Context(), user.Token, user.Email)
	if err != nil {
		data["Error"] = genericError
	} else {
		data["Orders"] = orders
	}

	h.render(w, r, sess, holder, "my_orders.html", http.StatusOK, data)
}

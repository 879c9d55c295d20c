package handlers

import (
	"log/slog"
	"net/http"
)

const featuredCount = 6

type Testimonial struct {
	Name string
	Text string
}

var testimonials = []Testimonial{
	{Name: "Jane Doe", Text: "Absolutely love the quality and service. Highly recommend!"},
	{Name: "John Smith", Text: "Fast delivery and amazing products. Will shop again!"},
	{Name: "Emily Stone", Text: "Great experience. The UI is clean and easy to use."},
}

type HomeHandler struct {
	*Base
}

func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	sess, holder := h.state(r)
	data := map[string]interface{}{
		"Testimonials": testimonials,
	}

	products, err := h.API.AllProducts(r.Context())
	if err != nil {
		data["Error"] = "Unable to fetch products."
	} else {
		if len(products) > featuredCount {
			products = products[:featuredCount]
		}
		data["Products"] = products
	}

	// Stats failures only cost the counters.
	usersCount, err := h.API.CountUsers(r.Context())
	if err != nil {
		slog.Warn("Stats error", "stat", "users", "error", err)
	}
	ordersCount, err := h.API.CountOrders(r.Context())
	if err != nil {
		slog.Warn("Stats error", "stat", "orders", "error", err)
	}
	data["UsersCount"] = usersCount
	data["OrdersCount"] = ordersCount

	h.render(w, r, sess, holder, "home.html", http.StatusOK, data)
}

// Catalog lists every product. ?expand=<id> shows one full description.
func (h *HomeHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	sess, holder := h.state(r)
	data := map[string]interface{}{
		"Expanded": r.URL.Query().Get("expand"),
	}

	products, err := h.API.AllProducts(r.Context())
	if err != nil {
		data["Error"] = genericError
	} else {
		data["Products"] = products
	}

	h.render(w, r, sess, holder, "products.html", http.StatusOK, data)
}

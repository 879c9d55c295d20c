package handlers

import (
	"log/slog"
	"net/http"

	"github.com/alextreichler/gizmogrid/internal/cart"
	"github.com/alextreichler/gizmogrid/internal/models"
)

type CartHandler struct {
	*Base
}

func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	sess, holder := h.state(r)
	items := holder.Cart()
	h.render(w, r, sess, holder, "cart.html", http.StatusOK, map[string]interface{}{
		"Items":      items,
		"OrderValue": cart.OrderValue(items),
	})
}

// Add puts a catalog product in the cart with quantity 1 unless it is already there.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	sess, holder := h.state(r)
	back := localPath(r.FormValue("next"), "/products")
	id := r.FormValue("product_id")

	products, err := h.API.AllProducts(r.Context())
	if err != nil {
		h.redirect(w, r, sess, back, errorFlash(genericError))
		return
	}

	var found *models.Product
	for i := range products {
		if products[i].ID == id {
			found = &products[i]
			break
		}
	}
	if found == nil {
		h.redirect(w, r, sess, back, errorFlash("Product not found."))
		return
	}

	holder.SetCart(cart.Add(holder.Cart(), *found))
	h.redirect(w, r, sess, back)
}

func (h *CartHandler) Increment(w http.ResponseWriter, r *http.Request) {
	sess, holder := h.state(r)
	holder.SetCart(cart.Increment(holder.Cart(), r.FormValue("product_id")))
	h.redirect(w, r, sess, "/cart")
}

func (h *CartHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	sess, holder := h.state(r)
	holder.SetCart(cart.Decrement(holder.Cart(), r.FormValue("product_id")))
	h.redirect(w, r, sess, "/cart")
}

// Checkout places the cart as an order. Without a token the shopper is sent to
// the login page and the cart is left alone.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sess, holder := h.state(r)
	user := holder.User()
	if !user.LoggedIn() {
		h.redirect(w, r, sess, "/login", errorFlash("Please log in to place your order."))
		return
	}

	items := holder.Cart()
	if len(items) == 0 {
		h.redirect(w, r, sess, "/cart", errorFlash("Your cart is empty."))
		return
	}

	order := models.Order{
		UserID:     user.UserID(),
		Email:      user.Email,
		OrderValue: cart.OrderValue(items).InexactFloat64(),
		Items:      items,
	}
	if err := h.API.CreateOrder(r.Context(), user.Token, order); err != nil {
		slog.Error("Failed to place order", "user_id", order.UserID, "error", err)
		h.redirect(w, r, sess, "/cart", errorFlash(genericError))
		return
	}

	slog.Info("Order placed", "user_id", order.UserID, "items", len(items), "order_value", order.OrderValue)
	holder.SetCart(nil)
	h.redirect(w, r, sess, "/orders", successFlash("Order placed successfully!"))
}

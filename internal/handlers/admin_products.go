package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/alextreichler/gizmogrid/internal/models"
	"github.com/alextreichler/gizmogrid/internal/session"
)

const productsPath = "/admin/products"

type productRow struct {
	models.Product
	EditURL string
}

func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	sess, holder := h.state(r)
	h.renderProducts(w, r, sess, holder, crudFormFromQuery(r), models.ProductDraft{}, http.StatusOK, "")
}

func (h *AdminHandler) renderProducts(w http.ResponseWriter, r *http.Request, sess *sessions.Session, holder *session.Holder, form crudForm, draft models.ProductDraft, status int, errMsg string) {
	data := map[string]interface{}{
		"Search": form.Search,
		"Page":   form.Page,
		"Errors": form.Errors,
	}

	list, err := h.API.ListProducts(r.Context(), form.Page, productsPageLimit, form.Search)
	if err != nil {
		errMsg = genericError
	} else {
		rows := make([]productRow, 0, len(list.Products))
		for _, p := range list.Products {
			rows = append(rows, productRow{Product: p, EditURL: form.editURL(productsPath, p.ID)})
			if form.EditID != "" && !form.filled && p.ID == form.EditID {
				draft = models.ProductDraftFrom(p)
				form.filled = true
			}
		}
		data["Products"] = rows
		data["Pager"] = NewPager(productsPath, searchQuery(form.Search), form.Page, list.Total)
	}
	if !form.filled {
		form.EditID = ""
	}

	data["EditID"] = form.EditID
	data["Draft"] = draft
	data["Error"] = errMsg
	data["CancelURL"] = listURL(productsPath, form.listQuery())
	h.render(w, r, sess, holder, "admin_products.html", status, data)
}

func (h *AdminHandler) SaveProduct(w http.ResponseWriter, r *http.Request) {
	sess, holder := h.state(r)
	form := crudFormFromPost(r)
	draft := productDraftFromForm(r)

	product, errs := validateProductDraft(draft)
	if len(errs) > 0 {
		form.Errors = errs
		h.renderProducts(w, r, sess, holder, form, draft, http.StatusUnprocessableEntity, "")
		return
	}

	token := holder.User().Token
	var err error
	var msg string
	if form.EditID == "" {
		err = h.API.CreateProduct(r.Context(), token, product)
		msg = "Product added successfully"
	} else {
		err = h.API.UpdateProduct(r.Context(), token, form.EditID, product)
		msg = "Product updated successfully"
	}
	if err != nil {
		slog.Error("Failed to save product", "edit_id", form.EditID, "error", err)
		h.renderProducts(w, r, sess, holder, form, draft, http.StatusOK, genericError)
		return
	}

	h.redirect(w, r, sess, listURL(productsPath, form.listQuery()), successFlash(msg))
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	sess, holder := h.state(r)
	form := crudFormFromPost(r)
	back := listURL(productsPath, form.listQuery())

	id := r.FormValue("id")
	if id == "" {
		h.redirect(w, r, sess, back, errorFlash("Invalid ID."))
		return
	}
	if err := h.API.DeleteProduct(r.Context(), holder.User().Token, id); err != nil {
		slog.Error("Failed to delete product", "id", id, "error", err)
		h.redirect(w, r, sess, back, errorFlash(genericError))
		return
	}
	h.redirect(w, r, sess, back, successFlash("Product Deleted Successfully"))
}

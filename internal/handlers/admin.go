package handlers

import (
	"net/http"
	"net/url"
	"strconv"
)

// Page sizes of the back-office listings.
const (
	usersPageLimit    = 5
	productsPageLimit = 2
	ordersPageLimit   = 3
)

// AdminHandler serves the back office. Every route is wrapped in RequireAdmin.
type AdminHandler struct {
	*Base
}

// Dashboard opens on user management.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// crudForm is the editing state of a management screen. EditID empty means
// create mode.
type crudForm struct {
	Page   int
	Search string
	EditID string
	Errors FieldErrors
	// filled is set when the draft came from a submitted form rather than
	// from the record being edited.
	filled bool
}

func crudFormFromQuery(r *http.Request) crudForm {
	return crudForm{
		Page:   queryInt(r, "page", 1),
		Search: r.URL.Query().Get("search"),
		EditID: r.URL.Query().Get("edit"),
	}
}

func crudFormFromPost(r *http.Request) crudForm {
	return crudForm{
		Page:   formInt(r, "page", 1),
		Search: r.FormValue("search"),
		EditID: r.FormValue("edit_id"),
		filled: true,
	}
}

// listQuery is the query string that brings the listing back to this view.
func (f crudForm) listQuery() url.Values {
	q := url.Values{}
	if f.Page > 1 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	return q
}

// editURL opens the record with id in the form, keeping page and search.
func (f crudForm) editURL(path, id string) string {
	q := f.listQuery()
	q.Set("edit", id)
	return listURL(path, q)
}

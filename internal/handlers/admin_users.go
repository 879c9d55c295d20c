package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gorilla/sessions"

	"github.com/alextreichler/gizmogrid/internal/models"
	"github.com/alextreichler/gizmogrid/internal/session"
)

const usersPath = "/admin/users"

type userRow struct {
	models.User
	EditURL string
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	sess, holder := h.state(r)
	h.renderUsers(w, r, sess, holder, crudFormFromQuery(r), models.UserDraft{}, http.StatusOK, "")
}

// renderUsers fetches the requested page and renders it with the form. In edit
// mode an unfilled draft is loaded from the listed record.
func (h *AdminHandler) renderUsers(w http.ResponseWriter, r *http.Request, sess *sessions.Session, holder *session.Holder, form crudForm, draft models.UserDraft, status int, errMsg string) {
	data := map[string]interface{}{
		"Search": form.Search,
		"Page":   form.Page,
		"Errors": form.Errors,
		"Roles":  []string{models.RoleUser, models.RoleAdmin},
	}

	list, err := h.API.ListUsers(r.Context(), holder.User().Token, form.Page, usersPageLimit, form.Search)
	if err != nil {
		errMsg = genericError
	} else {
		rows := make([]userRow, 0, len(list.Users))
		for _, u := range list.Users {
			rows = append(rows, userRow{User: u, EditURL: form.editURL(usersPath, u.UserID())})
			if form.EditID != "" && !form.filled && u.UserID() == form.EditID {
				draft = models.UserDraftFrom(u)
				form.filled = true
			}
		}
		data["Users"] = rows
		data["Pager"] = NewPager(usersPath, searchQuery(form.Search), form.Page, list.Total)
	}
	if !form.filled {
		// The record is not on this page; fall back to create mode.
		form.EditID = ""
	}

	data["EditID"] = form.EditID
	data["Draft"] = draft
	data["Error"] = errMsg
	data["CancelURL"] = listURL(usersPath, form.listQuery())
	h.render(w, r, sess, holder, "admin_users.html", status, data)
}

// SaveUser creates a user in create mode or updates the one being edited, then
// goes back to the listing with a cleared form.
func (h *AdminHandler) SaveUser(w http.ResponseWriter, r *http.Request) {
	sess, holder := h.state(r)
	form := crudFormFromPost(r)
	draft := userDraftFromForm(r)

	if errs := validateUserDraft(draft, form.EditID != ""); len(errs) > 0 {
		form.Errors = errs
		h.renderUsers(w, r, sess, holder, form, draft, http.StatusUnprocessableEntity, "")
		return
	}

	token := holder.User().Token
	var err error
	var msg string
	if form.EditID == "" {
		err = h.API.CreateUser(r.Context(), token, draft)
		msg = "User added successfully"
	} else {
		err = h.API.UpdateUser(r.Context(), token, form.EditID, draft)
		msg = "User information updated successfully"
	}
	if err != nil {
		slog.Error("Failed to save user", "edit_id", form.EditID, "error", err)
		h.renderUsers(w, r, sess, holder, form, draft, http.StatusOK, genericError)
		return
	}

	h.redirect(w, r, sess, listURL(usersPath, form.listQuery()), successFlash(msg))
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	sess, holder := h.state(r)
	form := crudFormFromPost(r)
	back := listURL(usersPath, form.listQuery())

	id := r.FormValue("id")
	if id == "" {
		h.redirect(w, r, sess, back, errorFlash("Invalid ID."))
		return
	}
	if err := h.API.DeleteUser(r.Context(), holder.User().Token, id); err != nil {
		slog.Error("Failed to delete user", "id", id, "error", err)
		h.redirect(w, r, sess, back, errorFlash(genericError))
		return
	}
	h.redirect(w, r, sess, back, successFlash("User deleted successfully"))
}

func searchQuery(search string) url.Values {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	return q
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/alextreichler/gizmogrid/internal/models"
)

type AuthHandler struct {
	*Base
}

func (h *AuthHandler) LoginGet(w http.ResponseWriter, r *http.Request) {
	sess, holder := h.state(r)
	h.render(w, r, sess, holder, "login.html", http.StatusOK, map[string]interface{}{
		"Email": "",
	})
}

func (h *AuthHandler) LoginPost(w http.ResponseWriter, r *http.Request) {
	sess, holder := h.state(r)
	creds := models.Credentials{
		Email:    formValue(r, "email"),
		Password: r.FormValue("password"),
	}

	errs := FieldErrors{}
	errs.required("email", "Email", creds.Email)
	errs.required("password", "Password", creds.Password)
	if len(errs) > 0 {
		h.render(w, r, sess, holder, "login.html", http.StatusUnprocessableEntity, map[string]interface{}{
			"Email":  creds.Email,
			"Errors": errs,
		})
		return
	}

	user, err := h.API.Login(r.Context(), creds)
	if err != nil || !user.LoggedIn() {
		slog.Info("Login failed", "email", creds.Email, "error", err)
		h.render(w, r, sess, holder, "login.html", http.StatusOK, map[string]interface{}{
			"Email": creds.Email,
			"Error": genericRetryError,
		})
		return
	}

	user.Password = ""
	holder = h.rotate(sess, holder)
	holder.SetUser(*user)
	slog.Info("Login successful", "user_id", user.UserID(), "role", user.Role)
	h.redirect(w, r, sess, "/", successFlash("Welcome, "+displayName(*user)+"!"))
}

// Logout forgets the user but keeps the cart.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, holder := h.state(r)
	holder.SetUser(models.User{})
	h.rotate(sess, holder)
	h.redirect(w, r, sess, "/", successFlash("Logged out successfully!"))
}

func (h *AuthHandler) RegisterGet(w http.ResponseWriter, r *http.Request) {
	sess, holder := h.state(r)
	h.render(w, r, sess, holder, "register.html", http.StatusOK, map[string]interface{}{
		"Draft": models.RegisterDraft{},
	})
}

func (h *AuthHandler) RegisterPost(w http.ResponseWriter, r *http.Request) {
	sess, holder := h.state(r)
	draft := registerDraftFromForm(r)

	if errs := validateRegisterDraft(draft); len(errs) > 0 {
		draft.Password = ""
		h.render(w, r, sess, holder, "register.html", http.StatusUnprocessableEntity, map[string]interface{}{
			"Draft":  draft,
			"Errors": errs,
		})
		return
	}

	if err := h.API.Register(r.Context(), draft); err != nil {
		draft.Password = ""
		h.render(w, r, sess, holder, "register.html", http.StatusOK, map[string]interface{}{
			"Draft": draft,
			"Error": genericRetryError,
		})
		return
	}

	h.redirect(w, r, sess, "/login", successFlash("Registration successful!"))
}

func displayName(u models.User) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Email
}

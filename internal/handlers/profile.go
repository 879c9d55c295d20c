package handlers

import (
	"net/http"

	"github.com/alextreichler/gizmogrid/internal/models"
)

type ProfileHandler struct {
	*Base
}

func (h *ProfileHandler) View(w http.ResponseWriter, r *http.Request) {
	sess, holder := h.state(r)
	user := holder.User()
	data := map[string]interface{}{}

	profile, err := h.API.Profile(r.Context(), user.Token, user.UserID())
	if err != nil {
		data["Error"] = genericError
		data["Draft"] = models.ProfileDraft{}
	} else {
		data["Draft"] = models.ProfileDraft{
			FirstName: profile.FirstName,
			LastName:  profile.LastName,
			Email:     profile.Email,
		}
	}

	h.render(w, r, sess, holder, "profile.html", http.StatusOK, data)
}

// Update saves the profile and then shows it re-fetched from the API.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, holder := h.state(r)
	user := holder.User()
	draft := profileDraftFromForm(r)

	if errs := validateProfileDraft(draft); len(errs) > 0 {
		draft.Password = ""
		h.render(w, r, sess, holder, "profile.html", http.StatusUnprocessableEntity, map[string]interface{}{
			"Draft":  draft,
			"Errors": errs,
		})
		return
	}

	if err := h.API.UpdateProfile(r.Context(), user.Token, user.UserID(), draft); err != nil {
		draft.Password = ""
		h.render(w, r, sess, holder, "profile.html", http.StatusOK, map[string]interface{}{
			"Draft": draft,
			"Error": genericError,
		})
		return
	}

	// Later screens (order history) key off the held email.
	user.FirstName = draft.FirstName
	user.LastName = draft.LastName
	user.Email = draft.Email
	holder.SetUser(user)

	h.redirect(w, r, sess, "/profile", successFlash("Data saved successfully."))
}

package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/alextreichler/gizmogrid/internal/api"
	"github.com/alextreichler/gizmogrid/internal/cart"
	"github.com/alextreichler/gizmogrid/internal/session"
)

const (
	sessionName  = "gizmogrid-session"
	sessionIDKey = "sid"

	// Shown for every failed API call.
	genericError = "Something went wrong"
	// Login and registration use a slightly longer wording.
	genericRetryError = "Something went wrong. Please try again."
)

// Base carries what every screen needs: the API client, the cookie store that
// identifies the browser, and the registry holding its user and cart.
type Base struct {
	API          *api.Client
	SessionStore sessions.Store
	Registry     *session.Registry
	Templates    *TemplateCache
}

// state returns the cookie session and the holder bound to it, assigning a new
// browser id on first visit. Callers must save the session before writing.
func (b *Base) state(r *http.Request) (*sessions.Session, *session.Holder) {
	sess, err := b.SessionStore.Get(r, sessionName)
	if err != nil {
		// A cookie signed with an old key decodes to a fresh session.
		slog.Debug("Discarding unreadable session cookie", "error", err)
	}
	id, _ := sess.Values[sessionIDKey].(string)
	if id == "" {
		id = session.NewID()
		sess.Values[sessionIDKey] = id
	}
	return sess, b.Registry.Get(id)
}

// rotate moves the browser to a fresh session id, carrying the cart over, and
// drops the old holder. Called whenever the signed-in user changes.
func (b *Base) rotate(sess *sessions.Session, old *session.Holder) *session.Holder {
	oldID, _ := sess.Values[sessionIDKey].(string)
	id := session.NewID()
	sess.Values[sessionIDKey] = id

	fresh := b.Registry.Get(id)
	fresh.SetCart(old.Cart())
	if oldID != "" {
		b.Registry.Delete(oldID)
	}
	return fresh
}

// render executes a page inside the layout. Output is buffered so a template
// error still yields a clean 500.
func (b *Base) render(w http.ResponseWriter, r *http.Request, sess *sessions.Session, holder *session.Holder, name string, status int, data map[string]interface{}) {
	tmpl := b.Templates.Get(name)
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	snap := holder.Snapshot()
	data["Flashes"] = GetFlash(sess)
	data["CsrfField"] = csrf.TemplateField(r)
	data["User"] = snap.User
	data["CartCount"] = cart.Count(snap.Cart)
	data["Path"] = r.URL.Path

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("Failed to execute template", "name", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := sess.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// redirect stores flashes and sends a 303 to target.
func (b *Base) redirect(w http.ResponseWriter, r *http.Request, sess *sessions.Session, target string, flashes ...FlashMessage) {
	for _, f := range flashes {
		sess.AddFlash(f)
	}
	if err := sess.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// RequireLogin sends visitors without a token to the login page.
func (b *Base) RequireLogin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, holder := b.state(r)
		if !holder.IsLoggedIn() {
			slog.Info("RequireLogin: not logged in, redirecting to /login", "path", r.URL.Path)
			b.redirect(w, r, sess, "/login", errorFlash("You must be logged in to access this page."))
			return
		}
		next(w, r)
	}
}

// RequireAdmin lets only users with the admin role through.
func (b *Base) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, holder := b.state(r)
		if !holder.IsAdmin() {
			slog.Info("RequireAdmin: not an admin, redirecting to /login", "path", r.URL.Path)
			b.redirect(w, r, sess, "/login", errorFlash("You must be logged in as an administrator to access this page."))
			return
		}
		next(w, r)
	}
}

func errorFlash(msg string) FlashMessage   { return FlashMessage{Type: "error", Message: msg} }
func successFlash(msg string) FlashMessage { return FlashMessage{Type: "success", Message: msg} }

// queryInt reads a positive integer query parameter.
func queryInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// formInt reads a positive integer form value.
func formInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.FormValue(key))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// localPath accepts only same-site paths as redirect targets.
func localPath(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	if u, err := url.Parse(target); err != nil || u.Host != "" {
		return fallback
	}
	return target
}

// listURL appends params to path.
func listURL(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}

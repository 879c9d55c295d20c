package handlers

import (
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"

	"github.com/alextreichler/gizmogrid/internal/api"
	"github.com/alextreichler/gizmogrid/internal/imageproxy"
	"github.com/alextreichler/gizmogrid/internal/session"
)

// Options wires the storefront together.
type Options struct {
	API             *api.Client
	SessionStore    sessions.Store
	Registry        *session.Registry
	Images          *imageproxy.Proxy
	LoginRateWindow time.Duration
	// Assets holds templates/ and static/.
	Assets fs.FS
}

// NewRouter builds every route of the storefront. CSRF protection, logging and
// security headers are applied by the caller around the returned handler.
func NewRouter(opts Options) (http.Handler, error) {
	templates := NewTemplateCache()
	if opts.Images != nil {
		templates.AddFunc("thumb", opts.Images.URL)
	}
	if err := templates.Load(opts.Assets, "templates"); err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	static, err := fs.Sub(opts.Assets, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}

	base := &Base{
		API:          opts.API,
		SessionStore: opts.SessionStore,
		Registry:     opts.Registry,
		Templates:    templates,
	}
	home := &HomeHandler{Base: base}
	shop := &CartHandler{Base: base}
	orders := &OrderHandler{Base: base}
	auth := &AuthHandler{Base: base}
	profile := &ProfileHandler{Base: base}
	admin := &AdminHandler{Base: base}

	limiter := NewRateLimiter(opts.LoginRateWindow)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Handle("/static/*", http.StripPrefix("/static", http.FileServer(http.FS(static))))
	if opts.Images != nil {
		r.Handle("/img", opts.Images)
	}
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/", home.Index)
	r.Get("/products", home.Catalog)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", shop.View)
		r.Post("/add", shop.Add)
		r.Post("/increment", shop.Increment)
		r.Post("/decrement", shop.Decrement)
		r.Post("/checkout", shop.Checkout)
	})

	r.Get("/orders", base.RequireLogin(orders.MyOrders))

	r.Get("/login", auth.LoginGet)
	r.Post("/login", limiter.Middleware(auth.LoginPost))
	r.Get("/register", auth.RegisterGet)
	r.Post("/register", limiter.Middleware(auth.RegisterPost))
	r.Post("/logout", auth.Logout)

	r.Get("/profile", base.RequireLogin(profile.View))
	r.Post("/profile", base.RequireLogin(profile.Update))

	r.Route("/admin", func(r chi.Router) {
		r.Get("/", base.RequireAdmin(admin.Dashboard))
		r.Get("/users", base.RequireAdmin(admin.ListUsers))
		r.Post("/users", base.RequireAdmin(admin.SaveUser))
		r.Post("/users/delete", base.RequireAdmin(admin.DeleteUser))
		r.Get("/products", base.RequireAdmin(admin.ListProducts))
		r.Post("/products", base.RequireAdmin(admin.SaveProduct))
		r.Post("/products/delete", base.RequireAdmin(admin.DeleteProduct))
		r.Get("/orders", base.RequireAdmin(admin.ListOrders))
		r.Post("/orders/update", base.RequireAdmin(admin.UpdateOrderStatus))
	})

	return r, nil
}

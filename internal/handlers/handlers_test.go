package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/alextreichler/gizmogrid/internal/api"
	"github.com/alextreichler/gizmogrid/internal/imageproxy"
	"github.com/alextreichler/gizmogrid/internal/models"
	"github.com/alextreichler/gizmogrid/internal/session"
	"github.com/alextreichler/gizmogrid/web"
)

const testPassword = "secret"

type apiCall struct {
	Method string
	Path   string
	Query  url.Values
	Auth   string
	Body   string
}

// fakeAPI is an in-memory stand-in for the storefront REST API that records
// every request it receives.
type fakeAPI struct {
	mu       sync.Mutex
	calls    []apiCall
	products []models.Product
	users    []models.User
	orders   []models.Order
	// accounts are the users that can log in with testPassword, by email.
	accounts map[string]models.User
	// fail answers "METHOD /path" with the given status.
	fail   map[string]int
	server *httptest.Server
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		accounts: map[string]models.User{},
		fail:     map[string]int{},
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	q := r.URL.Query()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, apiCall{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  q,
		Auth:   r.Header.Get("Authorization"),
		Body:   string(body),
	})
	if status, ok := f.fail[r.Method+" "+r.URL.Path]; ok {
		w.WriteHeader(status)
		return
	}

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	path := r.URL.Path

	switch {
	case r.Method == http.MethodGet && path == "/api/products/all":
		writeJSON(w, models.ProductPage{Products: f.products})
	case r.Method == http.MethodGet && path == "/api/products/":
		var matched []models.Product
		for _, p := range f.products {
			if matches(p.ProductName, q.Get("search")) {
				matched = append(matched, p)
			}
		}
		items, total := pageOf(matched, page, limit)
		writeJSON(w, models.ProductPage{Products: items, Total: total})
	case r.Method == http.MethodGet && path == "/api/users/count":
		writeJSON(w, models.UserCount{TotalUsers: len(f.users)})
	case r.Method == http.MethodGet && path == "/api/orders/count":
		writeJSON(w, models.OrderCount{TotalOrders: len(f.orders)})
	case r.Method == http.MethodGet && path == "/api/users/":
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var matched []models.User
		for _, u := range f.users {
			if matches(u.FirstName+" "+u.LastName+" "+u.Email, q.Get("search")) {
				matched = append(matched, u)
			}
		}
		items, total := pageOf(matched, page, limit)
		writeJSON(w, models.UserPage{Users: items, Total: total})
	case r.Method == http.MethodGet && path == "/api/orders/":
		var matched []models.Order
		for _, o := range f.orders {
			if q.Get("status") == "" || o.Status == q.Get("status") {
				matched = append(matched, o)
			}
		}
		items, total := pageOf(matched, page, limit)
		writeJSON(w, models.OrderPage{Orders: items, Total: total})
	case r.Method == http.MethodGet && strings.HasPrefix(path, "/api/orders/"):
		email := strings.TrimPrefix(path, "/api/orders/")
		out := []models.Order{}
		for _, o := range f.orders {
			if o.Email == email {
				out = append(out, o)
			}
		}
		writeJSON(w, out)
	case r.Method == http.MethodPost && path == "/api/users/login":
		var creds models.Credentials
		json.Unmarshal(body, &creds)
		u, ok := f.accounts[creds.Email]
		if !ok || creds.Password != testPassword {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, u)
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/profile"):
		id := strings.TrimSuffix(strings.TrimPrefix(path, "/api/users/"), "/profile")
		for _, u := range f.accounts {
			if u.UserID() == id {
				writeJSON(w, models.User{ID: id, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email})
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodGet:
		w.WriteHeader(http.StatusNotFound)
	default:
		writeJSON(w, map[string]string{})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func matches(s, search string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(search))
}

// pageOf returns one page of items and the number of pages.
func pageOf[T any](items []T, page, limit int) ([]T, int) {
	if limit < 1 {
		limit = 1
	}
	if page < 1 {
		page = 1
	}
	total := (len(items) + limit - 1) / limit
	start := min((page-1)*limit, len(items))
	end := min(start+limit, len(items))
	return items[start:end], total
}

func (f *fakeAPI) callsTo(method, path string) []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []apiCall
	for _, c := range f.calls {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// writes counts every non-GET request.
func (f *fakeAPI) writes() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []apiCall
	for _, c := range f.calls {
		if c.Method != http.MethodGet {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeAPI) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *fakeAPI) set(fn func(f *fakeAPI)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

type testApp struct {
	api    *fakeAPI
	server *httptest.Server
	client *http.Client
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	fake := newFakeAPI(t)

	registry := session.NewRegistry(0, nil)
	t.Cleanup(registry.Close)

	router, err := NewRouter(Options{
		API:          api.NewClient(fake.server.URL, 5*time.Second),
		SessionStore: sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef")),
		Registry:     registry,
		Images:       imageproxy.New([]byte("test-image-key"), 100, time.Second),
		Assets:       web.FS,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testApp{api: fake, server: srv, client: &http.Client{Jar: jar}}
}

type pageResult struct {
	Status int
	Path   string
	Query  url.Values
	Body   string
}

func (a *testApp) result(t *testing.T, resp *http.Response, err error) pageResult {
	t.Helper()
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return pageResult{
		Status: resp.StatusCode,
		Path:   resp.Request.URL.Path,
		Query:  resp.Request.URL.Query(),
		Body:   string(body),
	}
}

// get follows redirects and returns the final page.
func (a *testApp) get(t *testing.T, target string) pageResult {
	t.Helper()
	resp, err := a.client.Get(a.server.URL + target)
	return a.result(t, resp, err)
}

// post submits a form and follows the 303 back to a GET.
func (a *testApp) post(t *testing.T, target string, form url.Values) pageResult {
	t.Helper()
	resp, err := a.client.PostForm(a.server.URL+target, form)
	return a.result(t, resp, err)
}

// login registers u as an account on the fake API and signs in through the form.
func (a *testApp) login(t *testing.T, u models.User) pageResult {
	t.Helper()
	a.api.set(func(f *fakeAPI) { f.accounts[u.Email] = u })
	p := a.post(t, "/login", url.Values{"email": {u.Email}, "password": {testPassword}})
	require.Equal(t, "/", p.Path)
	return p
}

var (
	ada = models.User{
		AltID:     "u1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Role:      models.RoleUser,
		Token:     "user-token",
	}
	root = models.User{
		AltID:     "a1",
		FirstName: "Root",
		LastName:  "Admin",
		Email:     "root@example.com",
		Role:      models.RoleAdmin,
		Token:     "admin-token",
	}
	widget = models.Product{ID: "p1", ProductName: "Widget", Description: "A small widget", Price: 25, ImgURL: "http://img.example.com/w.png"}
	gadget = models.Product{ID: "p2", ProductName: "Gadget", Description: "A shiny gadget", Price: 10, ImgURL: "http://img.example.com/g.png"}
)

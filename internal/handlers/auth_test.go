package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alextreichler/gizmogrid/internal/models"
)

func TestLogin_SuccessStoresUser(t *testing.T) {
	app := newTestApp(t)

	p := app.login(t, ada)
	assert.Contains(t, p.Body, "Welcome, Ada!")
	assert.Contains(t, p.Body, "My Orders")
	assert.Contains(t, p.Body, "Logout")
	assert.NotContains(t, p.Body, `href="/admin"`)

	calls := app.api.callsTo(http.MethodPost, "/api/users/login")
	require.Len(t, calls, 1)
	var creds models.Credentials
	require.NoError(t, json.Unmarshal([]byte(calls[0].Body), &creds))
	assert.Equal(t, models.Credentials{Email: ada.Email, Password: testPassword}, creds)
}

func TestLogin_IssuesNewSessionID(t *testing.T) {
	app := newTestApp(t)
	withCatalog(app)
	app.post(t, "/cart/add", url.Values{"product_id": {widget.ID}})

	site, err := url.Parse(app.server.URL)
	require.NoError(t, err)
	before := app.client.Jar.Cookies(site)
	require.NotEmpty(t, before)

	// A second browser holding the cookie issued before login.
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	jar.SetCookies(site, before)
	other := &testApp{api: app.api, server: app.server, client: &http.Client{Jar: jar}}

	app.login(t, ada)
	assert.NotEqual(t, sessionCookie(t, before), sessionCookie(t, app.client.Jar.Cookies(site)))

	p := other.get(t, "/profile")
	assert.Equal(t, "/login", p.Path)
	assert.Contains(t, p.Body, "My Cart (0)")

	p = app.get(t, "/profile")
	assert.Equal(t, "/profile", p.Path)
	p = app.get(t, "/cart")
	assert.Contains(t, p.Body, "Widget")
}

func sessionCookie(t *testing.T, cookies []*http.Cookie) string {
	t.Helper()
	for _, c := range cookies {
		if c.Name == sessionName {
			return c.Value
		}
	}
	t.Fatalf("no %s cookie", sessionName)
	return ""
}

func TestLogin_AdminSeesAdminLink(t *testing.T) {
	app := newTestApp(t)

	p := app.login(t, root)
	assert.Contains(t, p.Body, `href="/admin"`)
}

func TestLogin_FailureLeavesUserUnset(t *testing.T) {
	app := newTestApp(t)
	app.api.set(func(f *fakeAPI) { f.accounts[ada.Email] = ada })

	p := app.post(t, "/login", url.Values{"email": {ada.Email}, "password": {"wrong"}})
	assert.Equal(t, http.StatusOK, p.Status)
	assert.Equal(t, "/login", p.Path)
	assert.Contains(t, p.Body, genericRetryError)
	assert.Contains(t, p.Body, `value="ada@example.com"`)

	p = app.get(t, "/orders")
	assert.Equal(t, "/login", p.Path)
}

func TestLogin_ValidationSkipsAPI(t *testing.T) {
	app := newTestApp(t)

	p := app.post(t, "/login", url.Values{"email": {""}, "password": {""}})
	assert.Equal(t, http.StatusUnprocessableEntity, p.Status)
	assert.Contains(t, p.Body, "Email is required.")
	assert.Contains(t, p.Body, "Password is required.")
	assert.Empty(t, app.api.callsTo(http.MethodPost, "/api/users/login"))
}

func TestLogout_KeepsCart(t *testing.T) {
	app := newTestApp(t)
	app.api.set(func(f *fakeAPI) { f.products = []models.Product{widget} })

	app.login(t, ada)
	app.post(t, "/cart/add", url.Values{"product_id": {widget.ID}})

	p := app.post(t, "/logout", nil)
	assert.Equal(t, "/", p.Path)
	assert.Contains(t, p.Body, "Logged out successfully!")
	assert.Contains(t, p.Body, "Login")
	assert.Contains(t, p.Body, "My Cart (1)")

	p = app.get(t, "/cart")
	assert.Contains(t, p.Body, "Widget")
}

func TestRegister_Success(t *testing.T) {
	app := newTestApp(t)

	p := app.post(t, "/register", url.Values{
		"firstName": {"Grace"},
		"lastName":  {"Hopper"},
		"email":     {"grace@example.com"},
		"password":  {"cobol"},
	})
	assert.Equal(t, "/login", p.Path)
	assert.Contains(t, p.Body, "Registration successful!")

	calls := app.api.callsTo(http.MethodPost, "/api/users/register")
	require.Len(t, calls, 1)
	var d models.RegisterDraft
	require.NoError(t, json.Unmarshal([]byte(calls[0].Body), &d))
	assert.Equal(t, models.RegisterDraft{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", Password: "cobol"}, d)
}

func TestRegister_ValidationAndFailure(t *testing.T) {
	app := newTestApp(t)

	p := app.post(t, "/register", url.Values{"firstName": {"Grace"}, "email": {"not-an-email"}})
	assert.Equal(t, http.StatusUnprocessableEntity, p.Status)
	assert.Contains(t, p.Body, "Last name is required.")
	assert.Contains(t, p.Body, "Please enter a valid email address.")
	assert.Contains(t, p.Body, `value="Grace"`)
	assert.Empty(t, app.api.writes())

	app.api.set(func(f *fakeAPI) { f.fail["POST /api/users/register"] = http.StatusConflict })
	p = app.post(t, "/register", url.Values{
		"firstName": {"Grace"},
		"lastName":  {"Hopper"},
		"email":     {"grace@example.com"},
		"password":  {"cobol"},
	})
	assert.Equal(t, "/register", p.Path)
	assert.Contains(t, p.Body, genericRetryError)
}

func TestProfile_UpdatePatchesAndKeepsEmailInSync(t *testing.T) {
	app := newTestApp(t)
	app.login(t, ada)

	p := app.get(t, "/profile")
	require.Equal(t, http.StatusOK, p.Status)
	assert.Contains(t, p.Body, `value="Lovelace"`)

	p = app.post(t, "/profile", url.Values{
		"firstName": {"Ada"},
		"lastName":  {"King"},
		"email":     {"ada.king@example.com"},
		"password":  {""},
	})
	assert.Equal(t, "/profile", p.Path)
	assert.Contains(t, p.Body, "Data saved successfully.")

	calls := app.api.callsTo(http.MethodPatch, "/api/users/u1/profile")
	require.Len(t, calls, 1)
	assert.Equal(t, "Bearer user-token", calls[0].Auth)
	assert.JSONEq(t, `{"firstName":"Ada","lastName":"King","email":"ada.king@example.com"}`, calls[0].Body)

	app.get(t, "/orders")
	assert.Len(t, app.api.callsTo(http.MethodGet, "/api/orders/ada.king@example.com"), 1)
}

func TestProfile_RequiresLogin(t *testing.T) {
	app := newTestApp(t)

	p := app.get(t, "/profile")
	assert.Equal(t, "/login", p.Path)
	assert.Contains(t, p.Body, "You must be logged in to access this page.")
}

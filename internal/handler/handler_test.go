package handler

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/amstore/ams-go/internal/cache"
	"github.com/amstore/ams-go/internal/middleware"
	"github.com/amstore/ams-go/internal/render"
	"github.com/amstore/ams-go/internal/session"
	"github.com/amstore/ams-go/internal/state"
	"github.com/amstore/ams-go/internal/store"
	"github.com/amstore/ams-go/internal/testutil"
	"github.com/amstore/ams-go/web"
)

// testApp wires a full seeded application over a temp database.
type testApp struct {
	server *httptest.Server
	client *http.Client
	store  *store.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	st := store.New(db)
	if err := st.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	sm := session.New(db, true)
	stateManager := state.NewManager(st, sm)
	if err := stateManager.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("templates fs: %v", err)
	}

	fragments := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = fragments.Close() })

	renderer, err := render.New(render.Config{
		TemplatesFS: templatesFS,
		State:       stateManager,
		Fragments:   fragments,
		IsDev:       true,
	})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	authHandler := NewAuthHandler(stateManager, renderer)
	frontendHandler := NewFrontendHandler(stateManager, renderer)
	adminHandler := NewAdminHandler(stateManager, renderer)

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Use(middleware.LoadUser(stateManager))

	r.Get(RouteRoot, frontendHandler.Home)
	r.Get(RouteProductBySlug, frontendHandler.Product)
	r.Get(RouteCart, frontendHandler.CartPage)
	r.Post(RouteCartAdd, frontendHandler.CartAdd)
	r.Post(RouteCartRemove, frontendHandler.CartRemove)
	r.Get(RouteCheckout, frontendHandler.CheckoutForm)
	r.Post(RouteCheckout, frontendHandler.Checkout)
	r.Get(RouteBlog, frontendHandler.Blog)
	r.Get(RouteBlogPost, frontendHandler.BlogPost)

	r.Get(RouteAdminLogin, authHandler.LoginForm)
	r.Post(RouteAdminLogin, authHandler.Login)
	r.Post(RouteAdminLogout, authHandler.Logout)

	r.Route(RouteAdmin, func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/dashboard", adminHandler.Dashboard)
		r.Get("/products", adminHandler.Products)
		r.Post("/products/{id}/delete", adminHandler.ProductDelete)
		r.Get("/settings", adminHandler.SettingsForm)
		r.Post("/settings", adminHandler.SettingsSave)
		r.Get("/change-password", authHandler.ChangePasswordForm)
		r.Post("/change-password", authHandler.ChangePassword)
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}

	return &testApp{
		server: server,
		client: &http.Client{Jar: jar},
		store:  st,
	}
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.Get(a.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.PostForm(a.server.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestHomePage(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.get(t, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "Smart Phone X200") {
		t.Error("homepage should list the seeded catalog")
	}
	if !strings.Contains(body, store.DefaultSettings().HomepageHeroTitle) {
		t.Error("homepage should show the hero title from settings")
	}
}

func TestProductPage(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.get(t, "/product/smart-phone-x200")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "Smart Phone X200") {
		t.Error("product page should show the product title")
	}

	resp, _ = app.get(t, "/product/no-such-slug")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d for missing slug, want 404", resp.StatusCode)
	}
}

func TestAdminRequiresLogin(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.get(t, "/admin/dashboard")
	if resp.Request.URL.Path != RouteAdminLogin {
		t.Errorf("anonymous admin request landed on %s, want %s", resp.Request.URL.Path, RouteAdminLogin)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name  string
		email string
		pass  string
	}{
		{"unknown email", "nobody@site.com", "whatever"},
		{"wrong password", store.DefaultAdminEmail, "wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := app.postForm(t, "/admin/login", url.Values{
				"email":    {tt.email},
				"password": {tt.pass},
			})
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			// Both failure modes produce the same generic message.
			if !strings.Contains(body, "Invalid credentials") {
				t.Error("login failure should show the generic error")
			}
		})
	}
}

func TestLoginAndForcedPasswordChange(t *testing.T) {
	app := newTestApp(t)

	// First login with seeded credentials lands on the password-change gate.
	resp, _ := app.postForm(t, "/admin/login", url.Values{
		"email":    {store.DefaultAdminEmail},
		"password": {store.DefaultAdminPassword},
	})
	if resp.Request.URL.Path != RouteAdminChangePassword {
		t.Fatalf("landed on %s, want %s", resp.Request.URL.Path, RouteAdminChangePassword)
	}

	// Every other admin page redirects back to the gate.
	resp, _ = app.get(t, "/admin/products")
	if resp.Request.URL.Path != RouteAdminChangePassword {
		t.Errorf("landed on %s, want %s", resp.Request.URL.Path, RouteAdminChangePassword)
	}

	// A too-short password is rejected and stays on the gate.
	resp, _ = app.postForm(t, "/admin/change-password", url.Values{"password": {"abc"}})
	if resp.Request.URL.Path != RouteAdminChangePassword {
		t.Errorf("landed on %s, want %s", resp.Request.URL.Path, RouteAdminChangePassword)
	}

	// Changing the password clears the flag and unlocks the back office.
	resp, _ = app.postForm(t, "/admin/change-password", url.Values{"password": {"fresh-secret"}})
	if resp.Request.URL.Path != RouteAdminDashboard {
		t.Fatalf("landed on %s, want %s", resp.Request.URL.Path, RouteAdminDashboard)
	}

	resp, _ = app.get(t, "/admin/products")
	if resp.StatusCode != http.StatusOK || resp.Request.URL.Path != RouteAdminProducts {
		t.Errorf("admin products not reachable after password change: %d %s",
			resp.StatusCode, resp.Request.URL.Path)
	}

	// The new credential is live immediately; the old one is dead.
	admin, ok, err := app.store.FindUserByEmail(context.Background(), store.DefaultAdminEmail)
	if err != nil || !ok {
		t.Fatalf("FindUserByEmail: ok=%v err=%v", ok, err)
	}
	if admin.Password != "fresh-secret" {
		t.Errorf("stored password = %q, want %q", admin.Password, "fresh-secret")
	}
	if admin.RequiresPasswordChange {
		t.Error("RequiresPasswordChange should be cleared")
	}
}

func TestCartAndCheckout(t *testing.T) {
	app := newTestApp(t)

	// Two units of p1, one of p2.
	app.postForm(t, "/cart/add", url.Values{"product_id": {"p1"}})
	app.postForm(t, "/cart/add", url.Values{"product_id": {"p1"}})
	app.postForm(t, "/cart/add", url.Values{"product_id": {"p2"}})

	resp, body := app.get(t, "/cart")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "Smart Phone X200") || !strings.Contains(body, "Premium Leather Bag") {
		t.Error("cart should show both lines")
	}

	resp, body = app.postForm(t, "/checkout", url.Values{
		"name":    {"Jane Doe"},
		"email":   {"jane@example.com"},
		"address": {"1 Main St"},
		"city":    {"Riyadh"},
		"phone":   {"555-0100"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "Thank you for your order") {
		t.Error("checkout should render the confirmation page")
	}

	orders, err := app.store.ListOrders(context.Background())
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("len(orders) = %d, want 1", len(orders))
	}
	order := orders[0]
	if order.Status != "pending" {
		t.Errorf("Status = %q, want pending", order.Status)
	}
	if order.ItemCount() != 3 {
		t.Errorf("ItemCount = %d, want 3", order.ItemCount())
	}
	// 699 * 2 for the phone plus the bag's 129 sale price.
	want := 699.0*2 + 129
	if order.Total != want {
		t.Errorf("Total = %v, want %v", order.Total, want)
	}

	// The cart is empty afterward; checkout again bounces to the storefront.
	resp, _ = app.get(t, "/checkout")
	if resp.Request.URL.Path != "/" {
		t.Errorf("empty-cart checkout landed on %s, want /", resp.Request.URL.Path)
	}
}

func TestCartRemove(t *testing.T) {
	app := newTestApp(t)

	app.postForm(t, "/cart/add", url.Values{"product_id": {"p1"}})
	app.postForm(t, "/cart/add", url.Values{"product_id": {"p1"}})

	resp, body := app.postForm(t, "/cart/remove/p1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "Your cart is empty") {
		t.Error("removing the only line should empty the cart entirely")
	}
}

func TestMissingProductAddToCart(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.postForm(t, "/cart/add", url.Values{"product_id": {"no-such"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "Product not found") {
		t.Error("adding an unknown product should flash an error")
	}
}

func TestSettingsSaveRefreshesSnapshot(t *testing.T) {
	app := newTestApp(t)

	// Log in and clear the forced password change.
	app.postForm(t, "/admin/login", url.Values{
		"email":    {store.DefaultAdminEmail},
		"password": {store.DefaultAdminPassword},
	})
	app.postForm(t, "/admin/change-password", url.Values{"password": {"fresh-secret"}})

	app.postForm(t, "/admin/settings", url.Values{
		"site_name":     {"Fresh Name"},
		"primary_color": {"#ff0000"},
		"hero_title":    {"New Hero"},
	})

	// The public site renders the new name without a restart.
	_, body := app.get(t, "/")
	if !strings.Contains(body, "Fresh Name") {
		t.Error("storefront should show the updated site name")
	}
	if !strings.Contains(body, "New Hero") {
		t.Error("storefront should show the updated hero title")
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/amstore/ams-go/internal/model"
	"github.com/amstore/ams-go/internal/render"
	"github.com/amstore/ams-go/internal/state"
	"github.com/amstore/ams-go/internal/store"
	"github.com/amstore/ams-go/internal/util"
)

// AdminHandler serves the back-office: dashboard, product management,
// orders, and site settings.
type AdminHandler struct {
	store    *store.Store
	state    *state.Manager
	renderer *render.Renderer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(st *state.Manager, renderer *render.Renderer) *AdminHandler {
	return &AdminHandler{
		store:    st.Store(),
		state:    st,
		renderer: renderer,
	}
}

// DashboardData is the dashboard payload.
type DashboardData struct {
	ProductCount int
	OrderCount   int
	UserCount    int
	Revenue      float64
	RecentOrders []model.Order
}

// Dashboard renders collection counts, revenue, and the most recent orders.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.store.ListProducts(ctx)
	if err != nil {
		logAndInternalError(w, "listing products", "error", err)
		return
	}
	orders, err := h.store.ListOrders(ctx)
	if err != nil {
		logAndInternalError(w, "listing orders", "error", err)
		return
	}
	users, err := h.store.ListUsers(ctx)
	if err != nil {
		logAndInternalError(w, "listing users", "error", err)
		return
	}

	data := DashboardData{
		ProductCount: len(products),
		OrderCount:   len(orders),
		UserCount:    len(users),
	}
	for i := range orders {
		data.Revenue += orders[i].Total
	}
	// Orders are stored most-recent-first, so the head of the collection is
	// already the recency view.
	if len(orders) > 5 {
		orders = orders[:5]
	}
	data.RecentOrders = orders

	h.renderer.RenderPage(w, r, "admin/dashboard", render.TemplateData{
		Title: "Dashboard",
		Data:  data,
	})
}

// Products renders the product management list.
func (h *AdminHandler) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListProducts(r.Context())
	if err != nil {
		logAndInternalError(w, "listing products", "error", err)
		return
	}

	h.renderer.RenderPage(w, r, "admin/products", render.TemplateData{
		Title: "Manage Products",
		Data:  products,
	})
}

// ProductForm renders the edit form for an existing product, or a blank form
// when the id is "new".
func (h *AdminHandler) ProductForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product := model.Product{
		Images: []string{"https://picsum.photos/400/400"},
		Stock:  10,
		Rating: 5,
	}
	if id != "" && id != "new" {
		var ok bool
		var err error
		product, ok, err = h.store.FindProductByID(r.Context(), id)
		if err != nil {
			logAndInternalError(w, "finding product", "id", id, "error", err)
			return
		}
		if !ok {
			flashError(w, r, h.renderer, RouteAdminProducts, "Product not found")
			return
		}
	}

	h.renderer.RenderPage(w, r, "admin/product_form", render.TemplateData{
		Title: "Edit Product",
		Data:  product,
	})
}

// ProductSave upserts a product from the form. Title and price are required;
// the slug is re-derived from the title on every save.
func (h *AdminHandler) ProductSave(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteAdminProducts) {
		return
	}

	id := chi.URLParam(r, "id")
	title := strings.TrimSpace(r.PostFormValue("title"))
	priceStr := strings.TrimSpace(r.PostFormValue("price"))
	if title == "" || priceStr == "" {
		flashError(w, r, h.renderer, RouteAdminProducts, "Title and price are required")
		return
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		flashError(w, r, h.renderer, RouteAdminProducts, "Invalid price")
		return
	}

	product := model.Product{
		ID:          id,
		Title:       title,
		Slug:        util.Slugify(title),
		Description: r.PostFormValue("description"),
		Price:       price,
		Category:    r.PostFormValue("category"),
		Images:      splitLines(r.PostFormValue("images")),
		Specs:       parseSpecs(r.PostFormValue("specs")),
		CreatedAt:   time.Now().UTC(),
	}

	if saleStr := strings.TrimSpace(r.PostFormValue("sale_price")); saleStr != "" {
		sale, err := strconv.ParseFloat(saleStr, 64)
		if err != nil {
			flashError(w, r, h.renderer, RouteAdminProducts, "Invalid sale price")
			return
		}
		product.SalePrice = &sale
	}
	if stockStr := strings.TrimSpace(r.PostFormValue("stock")); stockStr != "" {
		if stock, err := strconv.Atoi(stockStr); err == nil {
			product.Stock = stock
		}
	}

	if id == "" || id == "new" {
		product.ID = "p-" + uuid.NewString()
	} else if existing, ok, err := h.store.FindProductByID(r.Context(), id); err == nil && ok {
		// Keep fields the form does not manage.
		product.Rating = existing.Rating
		product.ReviewsCount = existing.ReviewsCount
		product.CreatedAt = existing.CreatedAt
	}

	if err := h.store.SaveProduct(r.Context(), product); err != nil {
		logAndInternalError(w, "saving product", "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, RouteAdminProducts, "Product saved")
}

// ProductDelete removes a product. Deleting an absent id is a silent no-op.
func (h *AdminHandler) ProductDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteProduct(r.Context(), id); err != nil {
		logAndInternalError(w, "deleting product", "id", id, "error", err)
		return
	}
	flashSuccess(w, r, h.renderer, RouteAdminProducts, "Product deleted")
}

// Orders renders the full order list, most recent first.
func (h *AdminHandler) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListOrders(r.Context())
	if err != nil {
		logAndInternalError(w, "listing orders", "error", err)
		return
	}

	h.renderer.RenderPage(w, r, "admin/orders", render.TemplateData{
		Title: "Orders",
		Data:  orders,
	})
}

// SettingsForm renders the site settings form.
func (h *AdminHandler) SettingsForm(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.Settings(r.Context())
	if err != nil {
		logAndInternalError(w, "reading settings", "error", err)
		return
	}

	h.renderer.RenderPage(w, r, "admin/settings", render.TemplateData{
		Title: "Site Settings",
		Data:  settings,
	})
}

// SettingsSave overwrites the settings record wholesale and refreshes the
// shared snapshot so theme color and titles update immediately.
func (h *AdminHandler) SettingsSave(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteAdminSettings) {
		return
	}

	settings := model.SiteSettings{
		SiteName:            strings.TrimSpace(r.PostFormValue("site_name")),
		PrimaryColor:        strings.TrimSpace(r.PostFormValue("primary_color")),
		Address:             strings.TrimSpace(r.PostFormValue("address")),
		SupportEmail:        strings.TrimSpace(r.PostFormValue("support_email")),
		HomepageHeroTitle:   r.PostFormValue("hero_title"),
		HomepageHeroSubtext: r.PostFormValue("hero_subtext"),
		MaintenanceMode:     r.PostFormValue("maintenance_mode") == "on",
	}

	if err := h.store.SaveSettings(r.Context(), settings); err != nil {
		logAndInternalError(w, "saving settings", "error", err)
		return
	}
	if err := h.state.RefreshSettings(r.Context()); err != nil {
		logAndInternalError(w, "refreshing settings", "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, RouteAdminSettings, "Settings saved")
}

// splitLines parses a textarea into trimmed, non-empty lines.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// parseSpecs parses "key: value" lines into the spec map.
func parseSpecs(s string) map[string]string {
	specs := make(map[string]string)
	for _, line := range strings.Split(s, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key != "" && value != "" {
			specs[key] = value
		}
	}
	return specs
}

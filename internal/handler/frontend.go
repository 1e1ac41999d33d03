// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/amstore/ams-go/internal/model"
	"github.com/amstore/ams-go/internal/render"
	"github.com/amstore/ams-go/internal/state"
	"github.com/amstore/ams-go/internal/store"
)

// FrontendHandler serves the public storefront: catalog, cart, checkout, blog.
type FrontendHandler struct {
	store    *store.Store
	state    *state.Manager
	renderer *render.Renderer
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(st *state.Manager, renderer *render.Renderer) *FrontendHandler {
	return &FrontendHandler{
		store:    st.Store(),
		state:    st,
		renderer: renderer,
	}
}

// HomeData is the homepage payload.
type HomeData struct {
	Products []model.Product
}

// Home renders the homepage: hero copy from settings plus the product grid.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListProducts(r.Context())
	if err != nil {
		logAndInternalError(w, "listing products", "error", err)
		return
	}

	h.renderer.RenderPage(w, r, "public/home", render.TemplateData{
		Data: HomeData{Products: products},
	})
}

// Product renders the product detail page for a slug. A missing slug is a
// 404, not an error.
func (h *FrontendHandler) Product(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	product, ok, err := h.store.FindProductBySlug(r.Context(), slug)
	if err != nil {
		logAndInternalError(w, "finding product", "slug", slug, "error", err)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}

	h.renderer.RenderPage(w, r, "public/product", render.TemplateData{
		Title: product.Title,
		Data:  &product,
	})
}

// CartData is the cart page payload.
type CartData struct {
	Items []model.CartItem
	Total float64
}

// CartPage renders the shopping cart.
func (h *FrontendHandler) CartPage(w http.ResponseWriter, r *http.Request) {
	items, err := h.state.Cart(r.Context())
	if err != nil {
		logAndInternalError(w, "reading cart", "error", err)
		return
	}

	h.renderer.RenderPage(w, r, "public/cart", render.TemplateData{
		Title: "Your Cart",
		Data:  CartData{Items: items, Total: state.CartTotal(items)},
	})
}

// CartAdd adds one unit of the posted product id to the cart.
func (h *FrontendHandler) CartAdd(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteCart) {
		return
	}

	id := r.PostFormValue("product_id")
	product, ok, err := h.store.FindProductByID(r.Context(), id)
	if err != nil {
		logAndInternalError(w, "finding product", "id", id, "error", err)
		return
	}
	if !ok {
		flashError(w, r, h.renderer, RouteRoot, "Product not found")
		return
	}

	if err := h.state.AddToCart(r.Context(), product); err != nil {
		logAndInternalError(w, "adding to cart", "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, RouteCart, "Added to cart")
}

// CartRemove drops the whole cart line for the product id.
func (h *FrontendHandler) CartRemove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.state.RemoveFromCart(r.Context(), id); err != nil {
		logAndInternalError(w, "removing from cart", "error", err)
		return
	}
	http.Redirect(w, r, RouteCart, http.StatusSeeOther)
}

// CheckoutForm renders the checkout page, or sends an empty cart back to the
// storefront.
func (h *FrontendHandler) CheckoutForm(w http.ResponseWriter, r *http.Request) {
	items, err := h.state.Cart(r.Context())
	if err != nil {
		logAndInternalError(w, "reading cart", "error", err)
		return
	}
	if len(items) == 0 {
		flashError(w, r, h.renderer, RouteRoot, "Your cart is empty.")
		return
	}

	h.renderer.RenderPage(w, r, "public/checkout", render.TemplateData{
		Title: "Checkout",
		Data:  CartData{Items: items, Total: state.CartTotal(items)},
	})
}

// Checkout folds the cart into a new pending order, clears the cart, and
// renders the confirmation page.
func (h *FrontendHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteCheckout) {
		return
	}

	items, err := h.state.Cart(r.Context())
	if err != nil {
		logAndInternalError(w, "reading cart", "error", err)
		return
	}
	if len(items) == 0 {
		flashError(w, r, h.renderer, RouteRoot, "Your cart is empty.")
		return
	}

	order := model.Order{
		ID:           "ord-" + uuid.NewString(),
		CustomerName: strings.TrimSpace(r.PostFormValue("name")),
		Email:        strings.TrimSpace(r.PostFormValue("email")),
		Address:      strings.TrimSpace(r.PostFormValue("address")),
		City:         strings.TrimSpace(r.PostFormValue("city")),
		Phone:        strings.TrimSpace(r.PostFormValue("phone")),
		Items:        items,
		Total:        state.CartTotal(items),
		Status:       model.OrderStatusPending,
		CreatedAt:    time.Now().UTC(),
	}

	if order.CustomerName == "" || order.Email == "" || order.Address == "" ||
		order.City == "" || order.Phone == "" {
		flashError(w, r, h.renderer, RouteCheckout, "All shipping fields are required.")
		return
	}

	if err := h.store.CreateOrder(r.Context(), order); err != nil {
		logAndInternalError(w, "creating order", "error", err)
		return
	}
	if err := h.state.ClearCart(r.Context()); err != nil {
		logAndInternalError(w, "clearing cart", "error", err)
		return
	}

	h.renderer.RenderPage(w, r, "public/checkout_success", render.TemplateData{
		Title: "Order Received",
		Data:  order,
	})
}

// Blog renders the post index.
func (h *FrontendHandler) Blog(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.ListPosts(r.Context())
	if err != nil {
		logAndInternalError(w, "listing posts", "error", err)
		return
	}

	h.renderer.RenderPage(w, r, "public/blog", render.TemplateData{
		Title: "Blog",
		Data:  posts,
	})
}

// BlogPost renders a single post by slug.
func (h *FrontendHandler) BlogPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, ok, err := h.store.FindPostBySlug(r.Context(), slug)
	if err != nil {
		logAndInternalError(w, "finding post", "slug", slug, "error", err)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}

	h.renderer.RenderPage(w, r, "public/blog_post", render.TemplateData{
		Title: post.Title,
		Data:  post,
	})
}

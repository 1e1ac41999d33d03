// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api serves the read-only JSON API over the catalog and blog
// collections.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amstore/ams-go/internal/middleware"
	"github.com/amstore/ams-go/internal/model"
	"github.com/amstore/ams-go/internal/store"
)

// Handler serves the v1 JSON endpoints.
type Handler struct {
	store *store.Store
}

// NewHandler creates a new API Handler.
func NewHandler(st *store.Store) *Handler {
	return &Handler{store: st}
}

// listResponse wraps a collection payload with its length.
type listResponse struct {
	Count int `json:"count"`
	Items any `json:"items"`
}

// Products returns the full product collection.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListProducts(r.Context())
	if err != nil {
		slog.Error("api: listing products", "error", err)
		middleware.WriteAPIError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	writeJSON(w, http.StatusOK, listResponse{Count: len(products), Items: products})
}

// ProductBySlug returns a single product, or a 404 JSON error.
func (h *Handler) ProductBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	product, ok, err := h.store.FindProductBySlug(r.Context(), slug)
	if err != nil {
		slog.Error("api: finding product", "slug", slug, "error", err)
		middleware.WriteAPIError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	if !ok {
		middleware.WriteAPIError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Posts returns the full blog collection.
func (h *Handler) Posts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.ListPosts(r.Context())
	if err != nil {
		slog.Error("api: listing posts", "error", err)
		middleware.WriteAPIError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	if posts == nil {
		posts = []model.BlogPost{}
	}
	writeJSON(w, http.StatusOK, listResponse{Count: len(posts), Items: posts})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("api: encoding response", "error", err)
	}
}

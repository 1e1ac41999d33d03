// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Product represents a catalog item. Slug is derived from the title on save;
// uniqueness is not enforced by the service, so a colliding slug resolves to
// the first match on lookup.
type Product struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Slug         string            `json:"slug"`
	Description  string            `json:"description"`
	Price        float64           `json:"price"`
	SalePrice    *float64          `json:"salePrice,omitempty"`
	Category     string            `json:"category"`
	Images       []string          `json:"images"`
	Stock        int               `json:"stock"`
	Specs        map[string]string `json:"specs"`
	Rating       float64           `json:"rating"`
	ReviewsCount int               `json:"reviewsCount"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// EffectivePrice returns the sale price when set, otherwise the list price.
func (p *Product) EffectivePrice() float64 {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// OnSale returns true if a sale price is set.
func (p *Product) OnSale() bool {
	return p.SalePrice != nil
}

// MainImage returns the first image URL, or empty if none.
func (p *Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// CartItem is a product line in the shopping cart: the product plus a
// quantity of at least 1. Cart items live in session state only and are
// folded into an Order at checkout.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal returns the effective price times the quantity.
func (c *CartItem) LineTotal() float64 {
	return c.EffectivePrice() * float64(c.Quantity)
}

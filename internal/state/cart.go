// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package state

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/amstore/ams-go/internal/model"
)

// Cart returns the session's cart lines in insertion order. An empty or
// absent cart yields nil; a cart payload that fails to parse is an error.
func (m *Manager) Cart(ctx context.Context) ([]model.CartItem, error) {
	raw := m.sessions.GetBytes(ctx, sessionKeyCart)
	if len(raw) == 0 {
		return nil, nil
	}

	var items []model.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parsing session cart: %w", err)
	}
	return items, nil
}

// AddToCart increments the quantity of an existing line for the product id,
// or appends a new line with quantity 1. Existing line order is preserved.
func (m *Manager) AddToCart(ctx context.Context, product model.Product) error {
	items, err := m.Cart(ctx)
	if err != nil {
		return err
	}

	found := false
	for i := range items {
		if items[i].ID == product.ID {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		items = append(items, model.CartItem{Product: product, Quantity: 1})
	}

	return m.saveCart(ctx, items)
}

// RemoveFromCart drops the whole line for the product id; there is no
// partial-quantity decrement.
func (m *Manager) RemoveFromCart(ctx context.Context, id string) error {
	items, err := m.Cart(ctx)
	if err != nil {
		return err
	}

	kept := items[:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}

	return m.saveCart(ctx, kept)
}

// ClearCart empties the cart (used after a successful checkout).
func (m *Manager) ClearCart(ctx context.Context) error {
	m.sessions.Remove(ctx, sessionKeyCart)
	return nil
}

// saveCart serializes the cart back into the session.
func (m *Manager) saveCart(ctx context.Context, items []model.CartItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding session cart: %w", err)
	}
	m.sessions.Put(ctx, sessionKeyCart, raw)
	return nil
}

// CartTotal sums the effective price times quantity across all lines.
func CartTotal(items []model.CartItem) float64 {
	total := 0.0
	for i := range items {
		total += items[i].LineTotal()
	}
	return total
}

// CartCount returns the total number of units in the cart.
func CartCount(items []model.CartItem) int {
	n := 0
	for i := range items {
		n += items[i].Quantity
	}
	return n
}

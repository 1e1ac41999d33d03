// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/amstore/ams-go/internal/model"
)

// Collection keys in the kv store. One additional key, the session token,
// lives in the sessions table managed by scs.
const (
	KeySettings = "ams_settings"
	KeyUsers    = "ams_users"
	KeyProducts = "ams_products"
	KeyOrders   = "ams_orders"
	KeyPosts    = "ams_posts"
)

// CollectionKeys lists every collection key, in seed order.
var CollectionKeys = []string{KeySettings, KeyUsers, KeyProducts, KeyPosts, KeyOrders}

// Store is the domain service. Every operation reads a whole collection from
// the kv accessor, works on it in memory, and writes the whole collection
// back. Nothing is cached: concurrent writers race with last-write-wins
// semantics, a documented property of this design.
type Store struct {
	kv *KV
}

// New creates a Store over the given database.
func New(db *sql.DB) *Store {
	return &Store{kv: NewKV(db)}
}

// KV exposes the underlying accessor (used by the demo reset).
func (s *Store) KV() *KV {
	return s.kv
}

// readCollection parses the collection stored under key. An absent key yields
// an empty collection; a value that fails to parse is the one condition that
// fails loudly.
func readCollection[T any](ctx context.Context, kv *KV, key string) ([]T, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("parsing collection %q: %w", key, err)
	}
	return items, nil
}

// writeCollection serializes the whole collection under key.
func writeCollection[T any](ctx context.Context, kv *KV, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding collection %q: %w", key, err)
	}
	return kv.Put(ctx, key, string(raw))
}

// upsert replaces the entity matching by id in place, or appends it.
func upsert[T any](items []T, entity T, sameID func(T) bool) []T {
	for i := range items {
		if sameID(items[i]) {
			items[i] = entity
			return items
		}
	}
	return append(items, entity)
}

// deleteFirst removes the first entity matching by id; no-op if absent.
func deleteFirst[T any](items []T, sameID func(T) bool) []T {
	for i := range items {
		if sameID(items[i]) {
			return append(items[:i], items[i+1:]...)
		}
	}
	return items
}

// findFirst returns the first entity matching the predicate.
func findFirst[T any](items []T, match func(T) bool) (T, bool) {
	for i := range items {
		if match(items[i]) {
			return items[i], true
		}
	}
	var zero T
	return zero, false
}

// ---------------------------------------------------------------------------
// Settings (singleton)

// Settings returns the site settings, falling back to the seed defaults when
// the record is absent.
func (s *Store) Settings(ctx context.Context) (model.SiteSettings, error) {
	raw, ok, err := s.kv.Get(ctx, KeySettings)
	if err != nil {
		return model.SiteSettings{}, err
	}
	if !ok {
		return DefaultSettings(), nil
	}

	var settings model.SiteSettings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return model.SiteSettings{}, fmt.Errorf("parsing collection %q: %w", KeySettings, err)
	}
	return settings, nil
}

// SaveSettings replaces the entire settings record unconditionally.
func (s *Store) SaveSettings(ctx context.Context, settings model.SiteSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding collection %q: %w", KeySettings, err)
	}
	return s.kv.Put(ctx, KeySettings, string(raw))
}

// ---------------------------------------------------------------------------
// Users

// ListUsers returns all users.
func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	return readCollection[model.User](ctx, s.kv, KeyUsers)
}

// FindUserByEmail scans for the first user with the given email.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (model.User, bool, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return model.User{}, false, err
	}
	u, ok := findFirst(users, func(u model.User) bool { return u.Email == email })
	return u, ok, nil
}

// FindUserByID scans for the first user with the given id.
func (s *Store) FindUserByID(ctx context.Context, id string) (model.User, bool, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return model.User{}, false, err
	}
	u, ok := findFirst(users, func(u model.User) bool { return u.ID == id })
	return u, ok, nil
}

// SaveUser upserts the user: replaced in place if the id exists, appended
// otherwise.
func (s *Store) SaveUser(ctx context.Context, user model.User) error {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return err
	}
	users = upsert(users, user, func(u model.User) bool { return u.ID == user.ID })
	return writeCollection(ctx, s.kv, KeyUsers, users)
}

// ---------------------------------------------------------------------------
// Products

// ListProducts returns the whole catalog.
func (s *Store) ListProducts(ctx context.Context) ([]model.Product, error) {
	return readCollection[model.Product](ctx, s.kv, KeyProducts)
}

// FindProductByID scans for the first product with the given id.
func (s *Store) FindProductByID(ctx context.Context, id string) (model.Product, bool, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return model.Product{}, false, err
	}
	p, ok := findFirst(products, func(p model.Product) bool { return p.ID == id })
	return p, ok, nil
}

// FindProductBySlug scans for the first product with the given slug. Slug
// uniqueness is not enforced, so a collision resolves to the first match.
func (s *Store) FindProductBySlug(ctx context.Context, slug string) (model.Product, bool, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return model.Product{}, false, err
	}
	p, ok := findFirst(products, func(p model.Product) bool { return p.Slug == slug })
	return p, ok, nil
}

// SaveProduct upserts the product, keeping its position stable on replace.
func (s *Store) SaveProduct(ctx context.Context, product model.Product) error {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return err
	}
	products = upsert(products, product, func(p model.Product) bool { return p.ID == product.ID })
	return writeCollection(ctx, s.kv, KeyProducts, products)
}

// DeleteProduct removes the product with the given id. Deleting an absent id
// leaves the collection unchanged.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return err
	}
	products = deleteFirst(products, func(p model.Product) bool { return p.ID == id })
	return writeCollection(ctx, s.kv, KeyProducts, products)
}

// ---------------------------------------------------------------------------
// Orders

// ListOrders returns all orders, most recent first.
func (s *Store) ListOrders(ctx context.Context) ([]model.Order, error) {
	return readCollection[model.Order](ctx, s.kv, KeyOrders)
}

// FindOrderByID scans for the first order with the given id.
func (s *Store) FindOrderByID(ctx context.Context, id string) (model.Order, bool, error) {
	orders, err := s.ListOrders(ctx)
	if err != nil {
		return model.Order{}, false, err
	}
	o, ok := findFirst(orders, func(o model.Order) bool { return o.ID == id })
	return o, ok, nil
}

// CreateOrder prepends the order so the collection stays most-recent-first.
// Orders are immutable after creation; there is no update path.
func (s *Store) CreateOrder(ctx context.Context, order model.Order) error {
	orders, err := s.ListOrders(ctx)
	if err != nil {
		return err
	}
	orders = append([]model.Order{order}, orders...)
	return writeCollection(ctx, s.kv, KeyOrders, orders)
}

// ---------------------------------------------------------------------------
// Blog posts (read-only)

// ListPosts returns all blog posts.
func (s *Store) ListPosts(ctx context.Context) ([]model.BlogPost, error) {
	return readCollection[model.BlogPost](ctx, s.kv, KeyPosts)
}

// FindPostBySlug scans for the first post with the given slug.
func (s *Store) FindPostBySlug(ctx context.Context, slug string) (model.BlogPost, bool, error) {
	posts, err := s.ListPosts(ctx)
	if err != nil {
		return model.BlogPost{}, false, err
	}
	p, ok := findFirst(posts, func(p model.BlogPost) bool { return p.Slug == slug })
	return p, ok, nil
}

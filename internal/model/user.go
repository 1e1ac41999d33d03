// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the storefront's domain records: users, products,
// orders, blog posts, and site settings. All records are plain structs whose
// JSON tags define the persisted collection format.
package model

import "time"

// User roles.
const (
	RoleAdmin    = "ADMIN"
	RoleManager  = "MANAGER"
	RoleCustomer = "CUSTOMER"
)

// User represents a store account. Email is the lookup key and must be
// unique within the users collection.
//
// Password holds the raw credential: this design stores and compares
// passwords in plaintext (a reproduced property of the original storefront,
// see DESIGN.md), so the field serializes with the collection.
type User struct {
	ID                     string    `json:"id"`
	Email                  string    `json:"email"`
	Password               string    `json:"passwordHash"`
	Name                   string    `json:"name"`
	Role                   string    `json:"role"`
	RequiresPasswordChange bool      `json:"requiresPasswordChange"`
	CreatedAt              time.Time `json:"createdAt"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanAccessAdmin returns true for roles allowed into the back-office.
func (u *User) CanAccessAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager
}

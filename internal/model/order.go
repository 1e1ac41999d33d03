// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Order statuses.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
)

// Order is created at checkout and immutable afterward; there is no update
// path. The orders collection is kept most-recent-first.
type Order struct {
	ID           string     `json:"id"`
	CustomerName string     `json:"customerName"`
	Email        string     `json:"email"`
	Address      string     `json:"address"`
	City         string     `json:"city"`
	Phone        string     `json:"phone"`
	Items        []CartItem `json:"items"`
	Total        float64    `json:"total"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// ItemCount returns the total number of units across all lines.
func (o *Order) ItemCount() int {
	n := 0
	for i := range o.Items {
		n += o.Items[i].Quantity
	}
	return n
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth provides credential verification. This design stores and
// compares passwords in plaintext, reproducing the original storefront's
// behavior; the comparison is constant-time so the check does not leak match
// length through timing. See DESIGN.md before "fixing" this.
package auth

import (
	"crypto/subtle"
	"fmt"
)

// MinPasswordLength is the minimum length accepted for a new password,
// matching the change-password form constraint.
const MinPasswordLength = 6

// CheckPassword compares a submitted password against the stored credential.
func CheckPassword(password, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1
}

// ValidateNewPassword enforces the minimum length for password changes.
func ValidateNewPassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// Package repository defines the persistence layer over MongoDB and Redis.
// This file collects the sentinel errors shared across repositories.  The
// handlers and middleware branch on these values with errors.Is to pick an
// HTTP status; error text is never inspected.
package repository

import "errors"

// ErrEmailExists is returned by UserRepo.Create when the unique email
// index rejects a duplicate. Handlers translate it into HTTP 400.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when a user lookup matches no document,
// including lookups by a malformed or tampered identifier.
var ErrUserNotFound = errors.New("user not found")

// ErrProductNotFound is returned when a product lookup or delete matches
// no document. Handlers translate it into HTTP 404.
var ErrProductNotFound = errors.New("product not found")

// ErrCouponNotFound is returned when no matching coupon exists for the
// requesting user.
var ErrCouponNotFound = errors.New("coupon not found")

// ErrSessionNotFound is returned by SessionRepo.Get when no refresh token
// is stored for the user, either because none was ever set or because the
// TTL elapsed.
var ErrSessionNotFound = errors.New("session not found")

// ErrCacheMiss is returned by ProductCache.Get when the featured products
// key is absent; callers fall back to the primary store.
var ErrCacheMiss = errors.New("cache miss")

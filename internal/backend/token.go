// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package backend

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the portal token claims the station relies on.
type TokenClaims struct {
	UserID    string
	Role      string
	Name      string
	ExpiresAt time.Time
}

// Expired reports whether the token is past its exp claim at now.
func (c *TokenClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseToken reads the claims of a portal token without verifying its
// signature; the portal verifies every request. An expired token is
// returned together with ErrTokenExpired.
func ParseToken(token string) (*TokenClaims, error) {
	if token == "" {
		return nil, errors.New("token is empty")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("malformed token: %w", err)
	}

	out := &TokenClaims{
		UserID: firstStringClaim(claims, "id", "_id", "userId", "sub"),
		Role:   getStringClaim(claims, "role"),
		Name:   getStringClaim(claims, "name"),
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}

	if out.Expired(time.Now()) {
		return out, ErrTokenExpired
	}
	return out, nil
}

// getStringClaim extracts a string claim value.
func getStringClaim(claims jwt.MapClaims, key string) string {
	if val, ok := claims[key].(string); ok {
		return val
	}
	return ""
}

func firstStringClaim(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if v := getStringClaim(claims, k); v != "" {
			return v
		}
	}
	return ""
}

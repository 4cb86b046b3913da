package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrValidation = errors.New("phone number must be exactly 10 digits")
	ErrNotFound   = errors.New("no pending code for this phone number")
	ErrExpired    = errors.New("code has expired")
	ErrMismatch   = errors.New("incorrect code")

	ErrTransport   = errors.New("sms delivery failed")
	ErrRateLimited = errors.New("too many code requests")
)

// PendingCode is the single outstanding code for a phone number.
// It leaves the process only through the SMS transport, or through the
// debug echo on the non-production fallback path.
type PendingCode struct {
	Phone     string
	Code      string
	ExpiresAt time.Time
}

func (c PendingCode) ExpiredAt(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Receipt reports how a code reached (or pretended to reach) the phone.
// UsedFallback marks deliveries that were skipped or absorbed by the
// permissive policy; DebugCode is only set on those.
type Receipt struct {
	Delivered    bool
	UsedFallback bool
	DebugCode    string
}

// CodeStore owns the phone -> pending code mapping.
type CodeStore interface {
	Issue(ctx context.Context, phone string) (PendingCode, error)
	Verify(ctx context.Context, phone, code string) error
	Count() int
}

// Deliverer pushes a freshly issued code toward the phone owner.
type Deliverer interface {
	Deliver(ctx context.Context, phone, code string) (Receipt, error)
}

// Transport is the raw SMS provider capability the delivery adapter
// wraps. Configured reports whether credentials are present at all.
type Transport interface {
	Send(ctx context.Context, phone, message string) error
	Name() string
	Configured() bool
}

// RateLimiter gates issuance per phone number. A nil limiter means
// unlimited.
type RateLimiter interface {
	Allow(ctx context.Context, phone string) (bool, error)
}

// ProviderError is a structured failure returned by the SMS provider
// itself (e.g. insufficient balance), as opposed to a failed call.
type ProviderError struct {
	Provider string
	Code     string
	Detail   string
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Provider, e.Detail, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Detail)
}

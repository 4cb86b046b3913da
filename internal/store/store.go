// Package store holds the in-process phone -> pending code mapping.
// Entries live for a fixed TTL, are consumed on successful verification,
// and are swept on a coarse ticker so abandoned issuance requests cannot
// grow the map without bound.
package store

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/innerlight-app/otp-service/internal/domain"
	"github.com/rs/zerolog"
)

type Store struct {
	mu    sync.Mutex
	codes map[string]domain.PendingCode

	ttl        time.Duration
	sweepEvery time.Duration
	log        zerolog.Logger
}

func New(ttl, sweepEvery time.Duration, log zerolog.Logger) *Store {
	return &Store{
		codes:      make(map[string]domain.PendingCode),
		ttl:        ttl,
		sweepEvery: sweepEvery,
		log:        log.With().Str("component", "otp_store").Logger(),
	}
}

// Issue generates a fresh 6-digit code for phone and records it with the
// store's TTL. Any previous pending code for the same phone is replaced.
func (s *Store) Issue(_ context.Context, phone string) (domain.PendingCode, error) {
	if !validPhone(phone) {
		return domain.PendingCode{}, domain.ErrValidation
	}

	code, err := generateCode()
	if err != nil {
		return domain.PendingCode{}, fmt.Errorf("generate code: %w", err)
	}

	pc := domain.PendingCode{
		Phone:     phone,
		Code:      code,
		ExpiresAt: time.Now().Add(s.ttl),
	}

	s.mu.Lock()
	s.codes[phone] = pc
	s.mu.Unlock()

	return pc, nil
}

// Verify checks the submitted code against the pending entry for phone.
// Expiry is checked before equality so a stale-but-matching code is never
// accepted; an expired entry is evicted as part of the check. On a match
// the entry is consumed, so the same code cannot verify twice. The whole
// check-then-delete sequence runs under the lock.
func (s *Store) Verify(_ context.Context, phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pc, ok := s.codes[phone]
	if !ok {
		return domain.ErrNotFound
	}
	if pc.ExpiredAt(time.Now()) {
		delete(s.codes, phone)
		return domain.ErrExpired
	}
	if pc.Code != code {
		return domain.ErrMismatch
	}

	delete(s.codes, phone)
	return nil
}

// Count reports the number of pending entries, expired or not.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.codes)
}

// StartSweep runs the periodic eviction loop until ctx is canceled.
func (s *Store) StartSweep(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.sweepEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					s.log.Debug().Int("evicted", n).Msg("sweep evicted expired codes")
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Sweep evicts every expired entry and returns how many were removed.
func (s *Store) Sweep() int {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for phone, pc := range s.codes {
		if pc.ExpiredAt(now) {
			delete(s.codes, phone)
			evicted++
		}
	}
	return evicted
}

func validPhone(phone string) bool {
	if len(phone) != 10 {
		return false
	}
	for _, c := range phone {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// generateCode draws uniformly from [100000, 999999] and renders it
// zero-padded.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

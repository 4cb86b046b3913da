package service

import (
	"context"
	"errors"
	"time"

	"github.com/innerlight-app/otp-service/internal/audit"
	"github.com/innerlight-app/otp-service/internal/domain"
	"github.com/innerlight-app/otp-service/internal/metrics"
)

// SendResult is what the REST layer needs to render a send-otp success:
// whether the fallback fired and, if so, the code to echo.
type SendResult struct {
	UsedFallback bool
	DebugCode    string
}

type OTPService struct {
	store     domain.CodeStore
	deliverer domain.Deliverer
	limiter   domain.RateLimiter // nil disables rate limiting
	audit     *audit.Logger
}

func NewOTPService(store domain.CodeStore, deliverer domain.Deliverer, limiter domain.RateLimiter, auditLog *audit.Logger) *OTPService {
	return &OTPService{store: store, deliverer: deliverer, limiter: limiter, audit: auditLog}
}

// SendCode issues a fresh code for phone and pushes it through delivery.
// The mapping is updated before the delivery attempt, so a verify racing
// ahead of a slow send is valid; the code's validity is defined by the
// stored state, not by delivery completion.
func (s *OTPService) SendCode(ctx context.Context, phone string) (SendResult, error) {
	start := time.Now()
	defer func() { metrics.RecordSendDuration(time.Since(start)) }()

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, phone)
		if err == nil && !ok {
			metrics.RecordRateLimited()
			return SendResult{}, domain.ErrRateLimited
		}
	}

	pc, err := s.store.Issue(ctx, phone)
	if err != nil {
		return SendResult{}, err
	}
	metrics.RecordIssued()

	receipt, err := s.deliverer.Deliver(ctx, phone, pc.Code)
	if err != nil {
		metrics.RecordDelivery("failed")
		return SendResult{}, err
	}

	if receipt.UsedFallback {
		metrics.RecordDelivery("fallback")
	} else {
		metrics.RecordDelivery("sent")
	}
	s.audit.CodeIssued(ctx, phone, receipt.UsedFallback)

	return SendResult{
		UsedFallback: receipt.UsedFallback,
		DebugCode:    receipt.DebugCode,
	}, nil
}

// VerifyCode checks the submitted code and consumes it on success.
func (s *OTPService) VerifyCode(ctx context.Context, phone, code string) error {
	err := s.store.Verify(ctx, phone, code)
	switch {
	case err == nil:
		metrics.RecordVerify("verified")
		s.audit.CodeVerified(ctx, phone)
		return nil
	case errors.Is(err, domain.ErrNotFound):
		metrics.RecordVerify("not_found")
		s.audit.VerifyRejected(ctx, phone, "not_found")
	case errors.Is(err, domain.ErrExpired):
		metrics.RecordVerify("expired")
		s.audit.VerifyRejected(ctx, phone, "expired")
	case errors.Is(err, domain.ErrMismatch):
		metrics.RecordVerify("mismatch")
		s.audit.VerifyRejected(ctx, phone, "mismatch")
	}
	return err
}

// PendingCount reports the current store size; surfaced by health.
func (s *OTPService) PendingCount() int {
	return s.store.Count()
}

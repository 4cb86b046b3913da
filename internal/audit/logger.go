package audit

import (
	"context"
	"strings"

	appCtx "github.com/innerlight-app/otp-service/internal/pkg/context"
	"github.com/rs/zerolog"
)

// Logger provides structured audit logging for verification events.
// Phone numbers are masked; codes never appear here.
type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// CodeIssued logs a successful issuance, noting whether delivery used
// the non-production fallback.
func (l *Logger) CodeIssued(ctx context.Context, phone string, usedFallback bool) {
	l.log.Info().
		Str("action", "code_issued").
		Str("phone", MaskPhone(phone)).
		Bool("used_fallback", usedFallback).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("Verification code issued")
}

// CodeVerified logs a successful, consuming verification.
func (l *Logger) CodeVerified(ctx context.Context, phone string) {
	l.log.Info().
		Str("action", "code_verified").
		Str("phone", MaskPhone(phone)).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("Phone number verified")
}

// VerifyRejected logs a failed verification attempt with its reason
// category (not_found, expired, mismatch).
func (l *Logger) VerifyRejected(ctx context.Context, phone, reason string) {
	l.log.Warn().
		Str("action", "verify_rejected").
		Str("phone", MaskPhone(phone)).
		Str("reason", reason).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("Verification attempt rejected")
}

// MaskPhone keeps the first two and last two digits.
func MaskPhone(phone string) string {
	if len(phone) < 5 {
		return strings.Repeat("x", len(phone))
	}
	return phone[:2] + strings.Repeat("x", len(phone)-4) + phone[len(phone)-2:]
}

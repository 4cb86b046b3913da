package sms

import (
	"context"

	"github.com/innerlight-app/otp-service/internal/domain"
	"github.com/rs/zerolog"
)

func providerError(provider, code, detail string) error {
	return &domain.ProviderError{Provider: provider, Code: code, Detail: detail}
}

// NoopTransport logs instead of sending. Useful for local runs that want
// the strict delivery path exercised without a provider account.
type NoopTransport struct {
	log zerolog.Logger
}

func NewNoop(log zerolog.Logger) *NoopTransport {
	return &NoopTransport{log: log.With().Str("component", "noop_sms").Logger()}
}

func (t *NoopTransport) Name() string { return "noop" }

func (t *NoopTransport) Configured() bool { return true }

func (t *NoopTransport) Send(_ context.Context, phone, message string) error {
	t.log.Info().Str("phone", phone).Str("message", message).Msg("NOOP send sms")
	return nil
}

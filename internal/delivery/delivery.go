// Package delivery decides how hard to try getting a code onto a phone.
// Production runs strict: a transport failure is a failure. Everywhere
// else the adapter falls back to echoing the code so testing is never
// blocked by the SMS provider.
package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/innerlight-app/otp-service/internal/domain"
	"github.com/rs/zerolog"
)

type Policy int

const (
	PolicyStrict Policy = iota
	PolicyPermissive
)

func (p Policy) String() string {
	if p == PolicyStrict {
		return "strict"
	}
	return "permissive"
}

// PolicyForEnv maps the runtime environment onto a delivery policy.
func PolicyForEnv(appEnv string) Policy {
	if appEnv == "production" {
		return PolicyStrict
	}
	return PolicyPermissive
}

type Adapter struct {
	transport domain.Transport
	policy    Policy
	log       zerolog.Logger
}

func New(transport domain.Transport, policy Policy, log zerolog.Logger) *Adapter {
	return &Adapter{
		transport: transport,
		policy:    policy,
		log:       log.With().Str("component", "delivery").Str("policy", policy.String()).Logger(),
	}
}

// Deliver attempts transmission and applies the fallback chain:
//
//  1. transport unconfigured + permissive: skip the send, succeed, echo
//     the code;
//  2. provider reports a structured failure + permissive: succeed, echo
//     the code, log the provider detail;
//  3. the call itself fails + permissive: same fallback;
//  4. strict: any failure surfaces as domain.ErrTransport with the
//     provider detail attached for the API caller.
func (a *Adapter) Deliver(ctx context.Context, phone, code string) (domain.Receipt, error) {
	if a.transport == nil || !a.transport.Configured() {
		if a.policy == PolicyPermissive {
			a.log.Info().Msg("sms transport not configured, echoing code for testing")
			return fallbackReceipt(code), nil
		}
		return domain.Receipt{}, fmt.Errorf("%w: transport not configured", domain.ErrTransport)
	}

	err := a.transport.Send(ctx, phone, smsBody(code))
	if err == nil {
		return domain.Receipt{Delivered: true}, nil
	}

	var perr *domain.ProviderError
	structured := errors.As(err, &perr)

	if a.policy == PolicyPermissive {
		evt := a.log.Warn().Str("provider", a.transport.Name()).Bool("structured", structured)
		if structured {
			evt = evt.Str("provider_code", perr.Code).Str("provider_detail", perr.Detail)
		} else {
			evt = evt.Err(err)
		}
		evt.Msg("sms send failed, falling back to code echo")
		return fallbackReceipt(code), nil
	}

	a.log.Error().Err(err).Str("provider", a.transport.Name()).Msg("sms send failed in strict mode")
	return domain.Receipt{}, fmt.Errorf("%w: %v", domain.ErrTransport, err)
}

func fallbackReceipt(code string) domain.Receipt {
	return domain.Receipt{Delivered: true, UsedFallback: true, DebugCode: code}
}

func smsBody(code string) string {
	return fmt.Sprintf("Your InnerLight verification code is %s. It expires in 5 minutes.", code)
}

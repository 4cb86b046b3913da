package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/innerlight-app/otp-service/internal/audit"
	"github.com/innerlight-app/otp-service/internal/domain"
	"github.com/innerlight-app/otp-service/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct{ mock.Mock }

func (m *MockStore) Issue(ctx context.Context, phone string) (domain.PendingCode, error) {
	args := m.Called(ctx, phone)
	return args.Get(0).(domain.PendingCode), args.Error(1)
}
func (m *MockStore) Verify(ctx context.Context, phone, code string) error {
	return m.Called(ctx, phone, code).Error(0)
}
func (m *MockStore) Count() int {
	return m.Called().Int(0)
}

type MockDeliverer struct{ mock.Mock }

func (m *MockDeliverer) Deliver(ctx context.Context, phone, code string) (domain.Receipt, error) {
	args := m.Called(ctx, phone, code)
	return args.Get(0).(domain.Receipt), args.Error(1)
}

type MockLimiter struct{ mock.Mock }

func (m *MockLimiter) Allow(ctx context.Context, phone string) (bool, error) {
	args := m.Called(ctx, phone)
	return args.Bool(0), args.Error(1)
}

func newService(store domain.CodeStore, d domain.Deliverer, l domain.RateLimiter) *service.OTPService {
	return service.NewOTPService(store, d, l, audit.New(zerolog.Nop()))
}

func TestSendCode_Success(t *testing.T) {
	store := new(MockStore)
	del := new(MockDeliverer)
	pc := domain.PendingCode{Phone: "9876543210", Code: "483920"}

	store.On("Issue", mock.Anything, "9876543210").Return(pc, nil)
	del.On("Deliver", mock.Anything, "9876543210", "483920").
		Return(domain.Receipt{Delivered: true}, nil)

	res, err := newService(store, del, nil).SendCode(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.False(t, res.UsedFallback)
	assert.Empty(t, res.DebugCode)

	store.AssertExpectations(t)
	del.AssertExpectations(t)
}

func TestSendCode_FallbackExposesCode(t *testing.T) {
	store := new(MockStore)
	del := new(MockDeliverer)

	store.On("Issue", mock.Anything, "9876543210").
		Return(domain.PendingCode{Phone: "9876543210", Code: "007123"}, nil)
	del.On("Deliver", mock.Anything, "9876543210", "007123").
		Return(domain.Receipt{Delivered: true, UsedFallback: true, DebugCode: "007123"}, nil)

	res, err := newService(store, del, nil).SendCode(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.True(t, res.UsedFallback)
	assert.Equal(t, "007123", res.DebugCode)
}

func TestSendCode_ValidationErrorSkipsDelivery(t *testing.T) {
	store := new(MockStore)
	del := new(MockDeliverer)

	store.On("Issue", mock.Anything, "12345").
		Return(domain.PendingCode{}, domain.ErrValidation)

	_, err := newService(store, del, nil).SendCode(context.Background(), "12345")
	assert.ErrorIs(t, err, domain.ErrValidation)
	del.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendCode_TransportErrorPropagates(t *testing.T) {
	store := new(MockStore)
	del := new(MockDeliverer)

	store.On("Issue", mock.Anything, "9876543210").
		Return(domain.PendingCode{Phone: "9876543210", Code: "483920"}, nil)
	del.On("Deliver", mock.Anything, "9876543210", "483920").
		Return(domain.Receipt{}, domain.ErrTransport)

	_, err := newService(store, del, nil).SendCode(context.Background(), "9876543210")
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestSendCode_RateLimited(t *testing.T) {
	store := new(MockStore)
	del := new(MockDeliverer)
	lim := new(MockLimiter)

	lim.On("Allow", mock.Anything, "9876543210").Return(false, nil)

	_, err := newService(store, del, lim).SendCode(context.Background(), "9876543210")
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	store.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
}

func TestSendCode_LimiterErrorFailsOpen(t *testing.T) {
	store := new(MockStore)
	del := new(MockDeliverer)
	lim := new(MockLimiter)

	lim.On("Allow", mock.Anything, "9876543210").Return(false, errors.New("redis down"))
	store.On("Issue", mock.Anything, "9876543210").
		Return(domain.PendingCode{Phone: "9876543210", Code: "483920"}, nil)
	del.On("Deliver", mock.Anything, "9876543210", "483920").
		Return(domain.Receipt{Delivered: true}, nil)

	_, err := newService(store, del, lim).SendCode(context.Background(), "9876543210")
	assert.NoError(t, err)
}

func TestVerifyCode_Outcomes(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"verified", nil},
		{"not_found", domain.ErrNotFound},
		{"expired", domain.ErrExpired},
		{"mismatch", domain.ErrMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := new(MockStore)
			store.On("Verify", mock.Anything, "9876543210", "483920").Return(tc.err)

			err := newService(store, new(MockDeliverer), nil).
				VerifyCode(context.Background(), "9876543210", "483920")
			if tc.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.err)
			}
		})
	}
}

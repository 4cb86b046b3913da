package sms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/innerlight-app/otp-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "9876543210", r.PostForm.Get("numbers"))
		assert.NotEmpty(t, r.Header.Get("Authorization"))

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSend_Success(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"return":true,"request_id":"abc","message":["SMS sent successfully."]}`)
	tr := NewFast2SMS(Options{BaseURL: srv.URL, APIKey: "key"})

	err := tr.Send(context.Background(), "9876543210", "your code is 483920")
	assert.NoError(t, err)
}

func TestSend_StructuredFailure(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"return":false,"status_code":996,"message":"You don't have sufficient wallet balance"}`)
	tr := NewFast2SMS(Options{BaseURL: srv.URL, APIKey: "key"})

	err := tr.Send(context.Background(), "9876543210", "your code is 483920")
	require.Error(t, err)

	var perr *domain.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "fast2sms", perr.Provider)
	assert.Contains(t, perr.Detail, "wallet balance")
}

func TestSend_NonJSONErrorBody(t *testing.T) {
	srv := newServer(t, http.StatusBadGateway, "upstream unavailable")
	tr := NewFast2SMS(Options{BaseURL: srv.URL, APIKey: "key"})

	err := tr.Send(context.Background(), "9876543210", "your code is 483920")
	var perr *domain.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "HTTP_502", perr.Code)
}

func TestSend_TimeoutIsCallError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	tr := NewFast2SMS(Options{BaseURL: srv.URL, APIKey: "key", Timeout: 20 * time.Millisecond})

	err := tr.Send(context.Background(), "9876543210", "your code is 483920")
	require.Error(t, err)

	var perr *domain.ProviderError
	assert.False(t, errors.As(err, &perr), "a timed-out call is not a structured provider failure")
}

func TestConfigured(t *testing.T) {
	assert.False(t, NewFast2SMS(Options{}).Configured())
	assert.True(t, NewFast2SMS(Options{APIKey: "key"}).Configured())
}

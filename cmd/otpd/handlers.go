package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/otpgate/pkg/channel"
	"github.com/dmitrymomot/otpgate/pkg/logger"
	"github.com/dmitrymomot/otpgate/pkg/stepup"
)

const maxRequestBody = 16 * 1024

type issueRequest struct {
	SessionID string `json:"session_id" validate:"required,max=128"`
	Channel   string `json:"channel" validate:"max=16"`
	Mobile    string `json:"mobile" validate:"omitempty,max=32"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
}

type issueResponse struct {
	SessionID   string `json:"session_id"`
	Channel     string `json:"channel"`
	Destination string `json:"destination"`
	ExpiresAt   string `json:"expires_at"`
}

type verifyRequest struct {
	SessionID string `json:"session_id" validate:"required,max=128"`
	// Code may be blank; the lifecycle reports that as its own outcome.
	Code string `json:"code" validate:"max=64"`
}

type verifyResponse struct {
	Valid   bool   `json:"valid"`
	Outcome string `json:"outcome"`
	Message string `json:"message"`
}

type pendingResponse struct {
	Channel     string `json:"channel"`
	Destination string `json:"destination"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type api struct {
	svc      *stepup.Service
	validate *validator.Validate
	log      *slog.Logger
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func newAPI(svc *stepup.Service, validate *validator.Validate, log *slog.Logger) *api {
	return &api{svc: svc, validate: validate, log: logger.OrDiscard(log)}
}

func (a *api) issue(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if !a.decode(w, r, &req) {
		return
	}

	res, err := a.svc.Issue(r.Context(), stepup.IssueRequest{
		SessionID: req.SessionID,
		Channel:   req.Channel,
		SMS:       req.Mobile,
		Email:     req.Email,
	})
	if err != nil {
		a.issueError(w, r, res, err)
		return
	}

	writeJSON(w, http.StatusCreated, issueResponse{
		SessionID:   req.SessionID,
		Channel:     res.Channel.String(),
		Destination: res.Destination,
		ExpiresAt:   res.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (a *api) issueError(w http.ResponseWriter, r *http.Request, res stepup.IssueResult, err error) {
	switch {
	case errors.Is(err, stepup.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, stepup.ErrThrottled):
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
		writeError(w, http.StatusTooManyRequests, "throttled", "Too many OTP requests. Please wait before requesting a new code.")
	case errors.Is(err, stepup.ErrNoDestination):
		writeError(w, http.StatusUnprocessableEntity, "no_destination", fmt.Sprintf("No %s destination available.", strings.ToLower(res.Channel.String())))
	case errors.Is(err, channel.ErrChannelNotConfigured), errors.Is(err, channel.ErrUnknownChannel):
		writeError(w, http.StatusUnprocessableEntity, "channel_unavailable", "The requested channel is not available.")
	case errors.Is(err, stepup.ErrDeliveryFailed):
		writeError(w, http.StatusBadGateway, "delivery_failed", res.Message)
	default:
		a.log.ErrorContext(r.Context(), "OTP issuance failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "Unable to issue an OTP code.")
	}
}

func (a *api) verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !a.decode(w, r, &req) {
		return
	}

	out := a.svc.Verify(r.Context(), req.SessionID, req.Code)
	writeJSON(w, http.StatusOK, verifyResponse{
		Valid:   out.OK(),
		Outcome: out.Kind.String(),
		Message: out.Message,
	})
}

func (a *api) pending(w http.ResponseWriter, r *http.Request) {
	ch, dest, ok := a.svc.MaskedDestination(r.Context(), chi.URLParam(r, "sessionID"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "No pending OTP for this session.")
		return
	}
	writeJSON(w, http.StatusOK, pendingResponse{Channel: ch.String(), Destination: dest})
}

// decode reads a JSON body into v and validates it, writing a 400 on failure.
func (a *api) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid request body.")
		return false
	}
	if err := a.validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request."
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, ", ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: code, Message: msg})
}

package respond

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/FACorreiaa/planmesh-api/internal/types"
)

const maxBodyBytes = 1 << 20

type ctxKey struct{}

// Envelope wraps every JSON response body.
type Envelope struct {
	Status    string `json:"status"`
	Code      int    `json:"code"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Data      any    `json:"data,omitempty"`
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok
}

func JSON(w http.ResponseWriter, r *http.Request, code int, data any, message string) {
	write(w, r, Envelope{Status: "success", Code: code, Message: message, Data: data})
}

func Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	write(w, r, Envelope{Status: "error", Code: code, Message: message})
}

// ServiceError maps a domain error onto a status code and a client-safe
// message. Server-side failures are logged with their full cause.
func ServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	code, message := Classify(err)
	if code >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.Int("status", code),
			slog.Any("error", err))
	}
	Error(w, r, code, message)
}

func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, types.ErrConfiguration):
		return http.StatusServiceUnavailable, "itinerary generation is not configured on this server"
	case errors.Is(err, types.ErrGeneration):
		return http.StatusBadGateway, "failed to generate a valid plan, please try again"
	case errors.Is(err, types.ErrDuplicateAccount):
		return http.StatusConflict, "an account with this email already exists"
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, types.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid password"
	case errors.Is(err, types.ErrUnauthenticated):
		return http.StatusUnauthorized, "not logged in"
	case errors.Is(err, types.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, types.ErrBadRequest):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// Decode reads a JSON body into dst. Failures wrap types.ErrBadRequest.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", types.ErrBadRequest)
		}
		return fmt.Errorf("%w: malformed JSON body: %v", types.ErrBadRequest, err)
	}
	return nil
}

// Validate checks v against its validate tags. Failures wrap
// types.ErrBadRequest and name every offending field.
func Validate(v any) error {
	err := types.Validator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", types.ErrBadRequest, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			fields = append(fields, fmt.Sprintf("%s must satisfy %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			continue
		}
		fields = append(fields, fmt.Sprintf("%s must satisfy %s", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", types.ErrBadRequest, strings.Join(fields, "; "))
}

func write(w http.ResponseWriter, r *http.Request, env Envelope) {
	if id, ok := RequestIDFromContext(r.Context()); ok {
		env.RequestID = id
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.Code)
	_ = json.NewEncoder(w).Encode(env)
}

package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/solune/storefront/pkg/errors"
)

// errorEnvelope is the failure payload written by services that share the
// storefront response format.
type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// DecodeError converts a non-2xx response from a downstream service into an
// *apperrors.AppError. The body is consumed but not closed.
//
// When the body carries the shared error envelope, its code and message are
// preserved so callers can branch on apperrors.Code. Anything else is mapped
// by status class.
func DecodeError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if readErr == nil && len(body) > 0 {
		var env errorEnvelope
		if err := json.Unmarshal(body, &env); err == nil && env.Code != "" {
			return &apperrors.AppError{
				Code:    env.Code,
				Message: env.Message,
				Status:  resp.StatusCode,
			}
		}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return apperrors.AuthFailed("downstream rejected credentials")
	case resp.StatusCode == http.StatusNotFound:
		return &apperrors.AppError{
			Code:    apperrors.CodeProductNotFound,
			Message: "resource not found",
			Status:  http.StatusNotFound,
			Err:     apperrors.ErrNotFound,
		}
	case resp.StatusCode == http.StatusGatewayTimeout:
		return apperrors.Timeout("downstream request")
	case resp.StatusCode >= 500:
		return apperrors.DBConnection(fmt.Errorf("downstream returned %d", resp.StatusCode))
	default:
		return apperrors.Internal(fmt.Errorf("downstream returned %d", resp.StatusCode))
	}
}

// IsUnavailable reports whether err indicates the downstream dependency is
// unreachable, either because the circuit breaker rejected the call or the
// service answered with a 5xx.
func IsUnavailable(err error) bool {
	if errors.Is(err, ErrCircuitOpen) {
		return true
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Code == apperrors.CodeDBConnectionError || appErr.Code == apperrors.CodeTimeout
	}
	return false
}

package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jsamuelsen/oracle/internal/domain"
)

// maxErrorBody caps how much of an error body is read for its message.
const maxErrorBody = 64 << 10

// ErrorResponse is the error envelope used by both Google and OpenAI style APIs:
//
//	{"error": {"code": 400, "message": "...", "status": "INVALID_ARGUMENT"}}
//	{"error": {"message": "...", "type": "invalid_request_error", "code": "invalid_api_key"}}
//
// Code differs in type between the two and is left out.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	Message string      `json:"message,omitempty"`
}

// ErrorDetail contains error information from external services.
type ErrorDetail struct {
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
	Type    string `json:"type,omitempty"`
}

// GetMessage returns the error message from either nested or top-level format.
func (e *ErrorResponse) GetMessage() string {
	if e.Error.Message != "" {
		return e.Error.Message
	}

	return e.Message
}

// ParseErrorResponse attempts to parse an error response body.
// Returns nil if the body is empty or cannot be parsed.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&errResp); err != nil {
		return nil
	}

	if errResp.GetMessage() == "" {
		return nil
	}

	return &errResp
}

// MapHTTPError maps an HTTP response or a client error to a domain error.
//
// Every failure of the interpretation service is a domain.ErrUnavailable;
// the reason distinguishes authentication, quota and server problems.
func MapHTTPError(resp *http.Response, clientErr error, serviceName, operation string) error {
	if clientErr != nil {
		return MapClientError(clientErr, serviceName, operation)
	}

	if resp == nil {
		return domain.NewUnavailableError(serviceName, "no response received")
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	message := ""
	if resp.Body != nil {
		if errResp := ParseErrorResponse(resp.Body); errResp != nil {
			message = errResp.GetMessage()
		}
	}

	return MapStatus(resp.StatusCode, message, serviceName, operation)
}

// MapClientError translates a failure to obtain any response. Context errors
// stay reachable with errors.Is so the caller can tell an interrupt apart.
func MapClientError(err error, serviceName, operation string) error {
	var unavailable *domain.UnavailableError
	if errors.As(err, &unavailable) {
		return err
	}

	switch {
	case errors.Is(err, context.Canceled):
		return domain.NewUnavailableErrorWithCause(serviceName,
			fmt.Sprintf("%s interrupted", operation), err)

	case errors.Is(err, context.DeadlineExceeded) || isTimeout(err):
		return domain.NewUnavailableErrorWithCause(serviceName,
			fmt.Sprintf("%s timed out", operation), err)

	default:
		return domain.NewUnavailableErrorWithCause(serviceName,
			fmt.Sprintf("%s failed: %v", operation, err), err)
	}
}

// MapStatus translates an HTTP status and server message to a domain error.
func MapStatus(status int, message, serviceName, operation string) error {
	if message == "" {
		message = defaultMessageForStatus(status, operation)
	}
	message = firstLine(message)

	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return domain.NewUnavailableError(serviceName, "authentication rejected: "+message)

	case status == http.StatusTooManyRequests:
		return domain.NewUnavailableError(serviceName, "rate limit exceeded: "+message)

	case status == http.StatusNotFound:
		return domain.NewUnavailableError(serviceName, "not found: "+message)

	case status >= http.StatusInternalServerError:
		return domain.NewUnavailableError(serviceName, message)

	default:
		return domain.NewUnavailableError(serviceName, "request rejected: "+message)
	}
}

// defaultMessageForStatus returns a default message for an HTTP status.
func defaultMessageForStatus(status int, operation string) string {
	switch status {
	case http.StatusUnauthorized:
		return "invalid or missing API key"
	case http.StatusForbidden:
		return "access denied"
	case http.StatusTooManyRequests:
		return "quota exhausted"
	case http.StatusServiceUnavailable:
		return "service temporarily unavailable"
	default:
		return fmt.Sprintf("%s failed with status %d", operation, status)
	}
}

// firstLine keeps error output to one line; some servers return stack traces.
func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidCredentials is a 401 on the login submission itself: wrong
	// username or password, never a session problem.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSessionEnded is returned by the gateway after it has already cleared
	// storage, written the flash notice and navigated to login. Callers must
	// treat the request as terminal and propagate without further handling.
	ErrSessionEnded = errors.New("session ended")

	// ErrOperationInFlight rejects a second mutating call on a flow whose
	// previous submit has not yet resolved.
	ErrOperationInFlight = errors.New("operation already in flight")

	// ErrMissingInput marks locally rejected input; it never reaches the network.
	ErrMissingInput = errors.New("required input missing")

	// ErrNoLinkToken means a link/confirm action was attempted with no social
	// temp token in store; the flow redirects to login instead of calling out.
	ErrNoLinkToken = errors.New("no social link token present")

	// ErrNoTokenInResponse means the backend reported success but returned no
	// usable token field.
	ErrNoTokenInResponse = errors.New("response carried no token")
)

// ErrorKind discriminates the failure classes of a gateway call.
type ErrorKind string

const (
	KindTimeout ErrorKind = "timeout"
	KindNetwork ErrorKind = "network"
	KindHTTP    ErrorKind = "http"
)

// APIError is the tagged failure type surfaced by the gateway. Callers switch
// on Kind first, then on Status/Code for HTTP failures, instead of probing
// optional fields.
type APIError struct {
	Kind       ErrorKind
	Status     int           // HTTP status; zero for timeout/network
	Code       string        // server error code, when the body carried one
	Message    string        // server message or a transport description
	RetryAfter time.Duration // only set for rate-limited responses
	Body       any           // parsed response body, when any
}

func (e *APIError) Error() string {
	switch e.Kind {
	case KindTimeout:
		return "request timed out"
	case KindNetwork:
		return "network error: " + e.Message
	}
	if e.Code != "" {
		return fmt.Sprintf("http %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// NewTimeoutError builds the distinct condition for a client-aborted call.
func NewTimeoutError() *APIError {
	return &APIError{Kind: KindTimeout, Code: CodeRequestTimeout}
}

// NewNetworkError builds the condition for a call that got no response at all.
func NewNetworkError(cause error) *APIError {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return &APIError{Kind: KindNetwork, Code: CodeNetworkError, Message: msg}
}

// NewHTTPError builds a server-classified failure.
func NewHTTPError(status int, code, message string, body any) *APIError {
	return &APIError{Kind: KindHTTP, Status: status, Code: code, Message: message, Body: body}
}

// NewRateLimitError builds the 429 condition. A missing retry hint defaults
// to 60 seconds.
func NewRateLimitError(code, message string, retryAfterSecs int, body any) *APIError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &APIError{
		Kind:       KindHTTP,
		Status:     429,
		Code:       code,
		Message:    message,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Body:       body,
	}
}

// AsAPIError unwraps err into an *APIError if one is in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsTimeout reports whether err is the request-timeout condition.
func IsTimeout(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == KindTimeout
}

// IsNetwork reports whether err is the no-response transport condition.
func IsNetwork(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == KindNetwork
}

// IsHTTPStatus reports whether err is an HTTP failure with the given status.
func IsHTTPStatus(err error, status int) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == KindHTTP && apiErr.Status == status
}

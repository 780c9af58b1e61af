package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a failure reported by the backend itself: a non-2xx status,
// or an {"error": ...} body inside an otherwise successful response. Both
// are treated identically by callers.
type APIError struct {
	Message    string
	Code       string
	Status     int
	RetryAfter int  // seconds, if the upstream provided one
	Timeout    bool // set for client-enforced aborts
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("backend error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend error: %s", e.Message)
}

// IsRateLimited reports whether err is an upstream rate-limit rejection.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusTooManyRequests ||
		apiErr.Code == "rate_limited" || apiErr.RetryAfter > 0
}

// IsTimeout reports whether err is the client-enforced abort, as opposed to
// a generic transport failure.
func IsTimeout(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Timeout
}

// IsSemantic reports whether err is an {"error": ...} the backend embedded
// in a successful HTTP response. Partial-capability gaps like a missing
// forecast come back this way.
func IsSemantic(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Timeout {
		return false
	}
	return apiErr.Status == 0 || (apiErr.Status >= 200 && apiErr.Status < 300)
}

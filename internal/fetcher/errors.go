package fetcher

import "fmt"

// AuthError covers 401/403 responses. Surfaced to the UI as an access-denied
// message.
type AuthError struct {
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("access denied (%d)", e.StatusCode)
}

// NotFoundError covers 404: the referenced entity is gone or never existed.
type NotFoundError struct {
	Status string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Status)
}

// NetworkError covers transport failures and server-side 5xx responses.
type NetworkError struct {
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func statusError(code int, status string) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == 401 || code == 403:
		return &AuthError{StatusCode: code}
	case code == 404:
		return &NotFoundError{Status: status}
	default:
		return &NetworkError{StatusCode: code}
	}
}

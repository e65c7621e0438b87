package accounting

import "fmt"

// APIError is returned when the provider rejects an API request.
type APIError struct {
	// Body is the provider's response body.
	Body string

	// StatusCode is the HTTP status returned by the provider.
	StatusCode int
}

// AuthError is returned when the token refresh exchange fails.
type AuthError struct {
	// Body is the token endpoint's response body.
	Body string

	// StatusCode is the HTTP status returned by the token endpoint.
	StatusCode int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Body)
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("token refresh failed with status %d: %s", e.StatusCode, e.Body)
}

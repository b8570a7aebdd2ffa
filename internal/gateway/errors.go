package gateway

import "fmt"

// RequestError is the single error type for failed API calls. Any
// transport failure, non-2xx status, or response without a truthy
// success field is normalized into one of these, carrying the server's
// message when it sent one.
type RequestError struct {
	Status  int    // HTTP status, 0 for transport failures
	Message string
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("request failed: %s", e.Message)
}

func requestErr(status int, message, fallback string) *RequestError {
	if message == "" {
		message = fallback
	}
	return &RequestError{Status: status, Message: message}
}

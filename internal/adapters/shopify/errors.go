package shopify

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type httpStatusError struct {
	statusCode int
	status     string
	body       string
}

func (e *httpStatusError) Error() string {
	if strings.TrimSpace(e.body) == "" {
		return fmt.Sprintf("shopify request failed: %s", e.status)
	}
	return fmt.Sprintf("shopify request failed: %s: %s", e.status, e.body)
}

func newHTTPStatusError(statusCode int, status string, body []byte) error {
	return &httpStatusError{
		statusCode: statusCode,
		status:     status,
		body:       strings.TrimSpace(string(body)),
	}
}

// isThrottled reports whether err is a storefront 429.
func isThrottled(err error) bool {
	var httpErr *httpStatusError
	return errors.As(err, &httpErr) && httpErr.statusCode == http.StatusTooManyRequests
}

package anthropic

import (
	"errors"
	"net/http"

	sdk "github.com/anthropics/anthropic-sdk-go"
)

// StatusCode returns the HTTP status of an API error, or 0 when err did not
// come from an API response.
func StatusCode(err error) int {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsRateLimited reports a 429 or an overloaded (529) response.
func IsRateLimited(err error) bool {
	code := StatusCode(err)
	return code == http.StatusTooManyRequests || code == 529
}

// IsAuthError reports a rejected or unauthorized API key.
func IsAuthError(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// IsRetryable reports errors worth retrying with the same key: rate limits
// and server-side failures.
func IsRetryable(err error) bool {
	code := StatusCode(err)
	return IsRateLimited(err) || code >= http.StatusInternalServerError
}

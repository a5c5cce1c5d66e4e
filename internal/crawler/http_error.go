package crawler

import (
	"fmt"
	"net/http"
	"strings"
)

// NewHTTPStatusError reports a non-success response. Callers match on
// StatusCode via StatusOf.
func NewHTTPStatusError(platform, url string, statusCode int, body string) error {
	kind := ErrorKindHTTP
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = ErrorKindForbidden
	case http.StatusTooManyRequests:
		kind = ErrorKindRateLimited
	}
	msg := fmt.Sprintf("http status=%d", statusCode)

	snippet := strings.TrimSpace(body)
	const maxSnippet = 512
	if len(snippet) > maxSnippet {
		snippet = snippet[:maxSnippet]
	}
	if snippet != "" {
		msg = msg + " body=" + snippet
	}

	return Error{
		Kind:       kind,
		Platform:   platform,
		URL:        url,
		Msg:        msg,
		StatusCode: statusCode,
	}
}

func IsSuccessStatus(code int) bool {
	return code >= 200 && code <= 299
}

package sheets

import (
	"errors"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

var transientCodes = map[int]bool{
	http.StatusForbidden:          true, // per-user rate limits surface as 403
	http.StatusTooManyRequests:    true,
	http.StatusServiceUnavailable: true,
}

// IsTransient reports whether a Sheets or Drive call is worth repeating.
func IsTransient(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return transientCodes[apiErr.Code]
}

func isAlreadyExists(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusBadRequest && strings.Contains(strings.ToLower(apiErr.Message), "already exists")
}

package service

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
)

var (
	// ErrValidation indicates the supplied input is missing or malformed.
	ErrValidation = errors.New("validation error")
	// ErrNotFound indicates no channel, video or playlist matched the input.
	ErrNotFound = errors.New("not found")
	// ErrQuotaExceeded signals the YouTube API billing quota has been exhausted.
	ErrQuotaExceeded = errors.New("youtube quota exceeded")
	// ErrUpstream signals an error occurred while contacting an upstream service.
	ErrUpstream = errors.New("upstream error")
)

// upstreamError classifies a remote failure as quota exhaustion or a
// generic upstream error.
func upstreamError(op string, err error) error {
	if isQuotaError(err) {
		return fmt.Errorf("%w: %s: %v", ErrQuotaExceeded, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrUpstream, op, err)
}

func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	if strings.Contains(strings.ToLower(err.Error()), "quota") {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		for _, item := range gerr.Errors {
			if strings.Contains(strings.ToLower(item.Reason), "quota") {
				return true
			}
		}
	}
	return false
}

package service

import (
	"fmt"
	"regexp"
	"strings"
)

// HintKind tags the shape an identifier was classified as.
type HintKind int

const (
	// HintFreeformQuery is anything that needs a search to resolve.
	HintFreeformQuery HintKind = iota
	// HintExplicitID is a raw channel ID.
	HintExplicitID
	// HintURLEmbeddedID is a channel ID lifted from a /channel/ URL.
	HintURLEmbeddedID
	// HintHandle is an @handle.
	HintHandle
)

func (k HintKind) String() string {
	switch k {
	case HintExplicitID:
		return "explicit-id"
	case HintURLEmbeddedID:
		return "url-embedded-id"
	case HintHandle:
		return "handle"
	default:
		return "freeform-query"
	}
}

// IdentifierHint is the classified form of user input.
type IdentifierHint struct {
	Kind  HintKind
	Value string
}

// ChannelID returns the channel ID carried by the hint, if any.
func (h IdentifierHint) ChannelID() (string, bool) {
	if h.Kind == HintExplicitID || h.Kind == HintURLEmbeddedID {
		return h.Value, true
	}
	return "", false
}

const (
	channelIDPrefix    = "UC"
	channelURLFragment = "youtube.com/channel/"
	handlePrefix       = "@"
)

var urlChannelIDPattern = regexp.MustCompile(`youtube\.com/channel/(UC[A-Za-z0-9_-]{22})`)

// Classify maps raw input onto an IdentifierHint. Rules are applied in order:
// explicit ID, ID embedded in a channel URL, handle, then freeform query.
func Classify(input string) (IdentifierHint, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return IdentifierHint{}, fmt.Errorf("%w: channel identifier is required", ErrValidation)
	}

	if strings.HasPrefix(trimmed, channelIDPrefix) && len(trimmed) > 20 {
		return IdentifierHint{Kind: HintExplicitID, Value: trimmed}, nil
	}
	if strings.Contains(trimmed, channelURLFragment) {
		if m := urlChannelIDPattern.FindStringSubmatch(trimmed); len(m) == 2 {
			return IdentifierHint{Kind: HintURLEmbeddedID, Value: m[1]}, nil
		}
	}
	if strings.HasPrefix(trimmed, handlePrefix) {
		return IdentifierHint{Kind: HintHandle, Value: trimmed}, nil
	}
	return IdentifierHint{Kind: HintFreeformQuery, Value: trimmed}, nil
}

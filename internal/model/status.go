package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStatus is returned when a status string does not name a ProcessingStatus.
var ErrUnknownStatus = errors.New("unknown processing status")

// ProcessingStatus is the terminal outcome of rating one article URL.
// Exactly one status is assigned per completed attempt and it never changes.
type ProcessingStatus int

const (
	// StatusOK indicates the article was fetched, parsed and scored.
	StatusOK ProcessingStatus = iota

	// StatusFetchError indicates a transport or HTTP-level failure while
	// reaching or reading the source page (connection error, non-2xx status).
	StatusFetchError

	// StatusParsingError indicates the page was fetched but is not
	// recognizable as an article.
	StatusParsingError

	// StatusTimeout indicates that either the fetch stage or the
	// processing stage exceeded its budget.
	StatusTimeout
)

// statusNames maps statuses to their wire representation.
var statusNames = map[ProcessingStatus]string{
	StatusOK:           "OK",
	StatusFetchError:   "FETCH_ERROR",
	StatusParsingError: "PARSING_ERROR",
	StatusTimeout:      "TIMEOUT",
}

// AllStatuses returns every ProcessingStatus in declaration order.
func AllStatuses() []ProcessingStatus {
	return []ProcessingStatus{StatusOK, StatusFetchError, StatusParsingError, StatusTimeout}
}

// String returns the wire representation of the status.
func (s ProcessingStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsValid reports whether s is one of the four declared statuses.
func (s ProcessingStatus) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}

// ParseProcessingStatus converts a wire string back into a ProcessingStatus.
// Matching is case-insensitive.
func ParseProcessingStatus(value string) (ProcessingStatus, error) {
	upper := strings.ToUpper(strings.TrimSpace(value))
	for status, name := range statusNames {
		if name == upper {
			return status, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStatus, value)
}

// MarshalText implements encoding.TextMarshaler so the status is encoded
// as its name in JSON and YAML.
func (s ProcessingStatus) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ProcessingStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseProcessingStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

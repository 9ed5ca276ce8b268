package enums

import "fmt"

// DocumentStatus reflects the outcome of the initial extraction attempt.
type DocumentStatus string

const (
	DocumentStatusUploaded  DocumentStatus = "uploaded"
	DocumentStatusProcessed DocumentStatus = "processed"
	DocumentStatusFailed    DocumentStatus = "failed"
)

var validDocumentStatuses = []DocumentStatus{
	DocumentStatusUploaded,
	DocumentStatusProcessed,
	DocumentStatusFailed,
}

// String implements fmt.Stringer.
func (d DocumentStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DocumentStatus.
func (d DocumentStatus) IsValid() bool {
	for _, candidate := range validDocumentStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDocumentStatus converts raw input into a DocumentStatus.
func ParseDocumentStatus(value string) (DocumentStatus, error) {
	for _, candidate := range validDocumentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid document status %q", value)
}

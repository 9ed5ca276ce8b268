package enums

import "fmt"

// UsageAction is a quota-consuming operation recorded in the usage ledger.
type UsageAction string

const (
	UsageActionUpload  UsageAction = "upload"
	UsageActionConvert UsageAction = "convert"
	UsageActionProtect UsageAction = "protect"
	UsageActionAnalyze UsageAction = "analyze"
	UsageActionOCRText UsageAction = "ocr_text"
)

var validUsageActions = []UsageAction{
	UsageActionUpload,
	UsageActionConvert,
	UsageActionProtect,
	UsageActionAnalyze,
	UsageActionOCRText,
}

// String implements fmt.Stringer.
func (u UsageAction) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UsageAction.
func (u UsageAction) IsValid() bool {
	for _, candidate := range validUsageActions {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUsageAction converts raw input into a UsageAction.
func ParseUsageAction(value string) (UsageAction, error) {
	for _, candidate := range validUsageActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid usage action %q", value)
}

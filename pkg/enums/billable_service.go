package enums

import "fmt"

// BillableService names a priced operation in the catalog.
type BillableService string

const (
	ServiceConvertDocx BillableService = "convert_docx"
	ServiceProtect     BillableService = "protect"
	ServiceOCRText     BillableService = "ocr_text"
	ServiceTextCounter BillableService = "text_counter"
)

var validBillableServices = []BillableService{
	ServiceConvertDocx,
	ServiceProtect,
	ServiceOCRText,
	ServiceTextCounter,
}

// String implements fmt.Stringer.
func (s BillableService) String() string {
	return string(s)
}

// IsValid reports whether the value is a recognized catalog key.
func (s BillableService) IsValid() bool {
	for _, candidate := range validBillableServices {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseBillableService converts raw input into a BillableService.
func ParseBillableService(value string) (BillableService, error) {
	for _, candidate := range validBillableServices {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid billable service %q", value)
}

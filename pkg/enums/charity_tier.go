package enums

import "fmt"

// CharityTier keys the charity percentage table. The free plan has no row of
// its own and is charged at CharityTierOneTime.
type CharityTier string

const (
	CharityTierOneTime CharityTier = "one_time"
	CharityTierPremium CharityTier = "premium"
	CharityTierPro     CharityTier = "pro"
)

var validCharityTiers = []CharityTier{
	CharityTierOneTime,
	CharityTierPremium,
	CharityTierPro,
}

// String implements fmt.Stringer.
func (c CharityTier) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CharityTier.
func (c CharityTier) IsValid() bool {
	for _, candidate := range validCharityTiers {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCharityTier converts raw input into a CharityTier.
func ParseCharityTier(value string) (CharityTier, error) {
	for _, candidate := range validCharityTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid charity tier %q", value)
}

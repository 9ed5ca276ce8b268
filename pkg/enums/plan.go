package enums

import (
	"fmt"
	"strings"
)

// Plan is the subscription plan stored on a user or subscription row.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
	PlanPro     Plan = "pro"
)

var validPlans = []Plan{
	PlanFree,
	PlanPremium,
	PlanPro,
}

// String implements fmt.Stringer.
func (p Plan) String() string {
	return string(p)
}

// IsValid reports whether the value is a known Plan.
func (p Plan) IsValid() bool {
	for _, candidate := range validPlans {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsPaid reports whether the plan is a paying subscription.
func (p Plan) IsPaid() bool {
	return p == PlanPremium || p == PlanPro
}

// ParsePlan converts raw input into a Plan. Matching ignores case and
// surrounding whitespace.
func ParsePlan(value string) (Plan, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validPlans {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid plan %q", value)
}

// NormalizePlan returns the parsed plan or PlanFree for empty and unknown values.
func NormalizePlan(value string) Plan {
	plan, err := ParsePlan(value)
	if err != nil {
		return PlanFree
	}
	return plan
}

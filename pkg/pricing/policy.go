// Package pricing holds the service catalog and the charity percentage table.
// A Policy is immutable once built; every charge reads the same instance.
package pricing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pdflex/pdflex-backend/pkg/config"
	"github.com/pdflex/pdflex-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// ErrUnknownService is returned when a service is not in the catalog.
var ErrUnknownService = errors.New("unknown service")

const (
	defaultFreeMonthlyLimit = 20
	defaultCharityID        = int64(1)
)

var (
	defaultPrices = map[enums.BillableService]int64{
		enums.ServiceConvertDocx: 100,
		enums.ServiceProtect:     30,
		enums.ServiceOCRText:     20,
		enums.ServiceTextCounter: 20,
	}
	defaultPercents = map[enums.CharityTier]decimal.Decimal{
		enums.CharityTierOneTime: decimal.RequireFromString("0.15"),
		enums.CharityTierPremium: decimal.RequireFromString("0.20"),
		enums.CharityTierPro:     decimal.RequireFromString("0.25"),
	}
	one = decimal.NewFromInt(1)
)

// Policy prices services and decides the charity share of a charge.
type Policy struct {
	prices           map[enums.BillableService]int64
	percents         map[enums.CharityTier]decimal.Decimal
	freeMonthlyLimit int
	defaultCharityID int64
}

// Default returns the reference catalog.
func Default() Policy {
	p, err := build(defaultPrices, defaultPercents, defaultFreeMonthlyLimit, defaultCharityID)
	if err != nil {
		panic(err)
	}
	return p
}

// New builds a Policy from configuration. Unknown keys, negative prices and
// percentages outside [0,1] are rejected.
func New(cfg config.PricingConfig) (Policy, error) {
	prices := make(map[enums.BillableService]int64, len(cfg.PricesCents))
	for raw, cents := range cfg.PricesCents {
		svc, err := enums.ParseBillableService(raw)
		if err != nil {
			return Policy{}, fmt.Errorf("pricing: %w (recognized: %v)", err, serviceKeys())
		}
		prices[svc] = cents
	}

	percents := make(map[enums.CharityTier]decimal.Decimal, len(cfg.CharityPercents))
	for raw, value := range cfg.CharityPercents {
		if raw == string(enums.PlanFree) {
			return Policy{}, errors.New("pricing: the free plan is charged at the one_time percent; set one_time instead of free")
		}
		tier, err := enums.ParseCharityTier(raw)
		if err != nil {
			return Policy{}, fmt.Errorf("pricing: %w (recognized: one_time, premium, pro)", err)
		}
		pct, err := decimal.NewFromString(value)
		if err != nil {
			return Policy{}, fmt.Errorf("pricing: charity percent for %s: %w", tier, err)
		}
		percents[tier] = pct
	}

	limit := cfg.FreeMonthlyLimit
	if limit <= 0 {
		limit = defaultFreeMonthlyLimit
	}
	charityID := cfg.DefaultCharityID
	if charityID <= 0 {
		charityID = defaultCharityID
	}
	return build(prices, percents, limit, charityID)
}

func build(prices map[enums.BillableService]int64, percents map[enums.CharityTier]decimal.Decimal, limit int, charityID int64) (Policy, error) {
	if len(prices) == 0 {
		return Policy{}, errors.New("pricing: catalog is empty")
	}
	for svc, cents := range prices {
		if cents < 0 {
			return Policy{}, fmt.Errorf("pricing: negative price for %s", svc)
		}
	}
	if _, ok := percents[enums.CharityTierOneTime]; !ok {
		return Policy{}, errors.New("pricing: one_time charity percent is required")
	}
	for tier, pct := range percents {
		if pct.IsNegative() || pct.GreaterThan(one) {
			return Policy{}, fmt.Errorf("pricing: charity percent for %s must be within [0,1], got %s", tier, pct)
		}
	}

	p := Policy{
		prices:           make(map[enums.BillableService]int64, len(prices)),
		percents:         make(map[enums.CharityTier]decimal.Decimal, len(percents)),
		freeMonthlyLimit: limit,
		defaultCharityID: charityID,
	}
	for k, v := range prices {
		p.prices[k] = v
	}
	for k, v := range percents {
		p.percents[k] = v
	}
	return p, nil
}

// PriceFor returns the price of service in cents.
func (p Policy) PriceFor(service string) (int64, error) {
	cents, ok := p.prices[enums.BillableService(service)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownService, service)
	}
	return cents, nil
}

// Services lists the catalog keys in sorted order.
func (p Policy) Services() []string {
	out := make([]string, 0, len(p.prices))
	for svc := range p.prices {
		out = append(out, string(svc))
	}
	sort.Strings(out)
	return out
}

// EffectiveTier maps a plan onto the percentage table. The free plan is
// charged at the one-time purchase tier, as is anything unrecognized.
func (p Policy) EffectiveTier(plan enums.Plan) enums.CharityTier {
	switch plan {
	case enums.PlanPremium:
		return enums.CharityTierPremium
	case enums.PlanPro:
		return enums.CharityTierPro
	default:
		return enums.CharityTierOneTime
	}
}

// CharityPercentFor returns the fraction donated for plan. It never fails.
func (p Policy) CharityPercentFor(plan enums.Plan) decimal.Decimal {
	if pct, ok := p.percents[p.EffectiveTier(plan)]; ok {
		return pct
	}
	return p.percents[enums.CharityTierOneTime]
}

// CharityShare returns the donated cents for a charge. Without the donate
// flag the share is always zero.
func (p Policy) CharityShare(amountCents int64, plan enums.Plan, donate bool) int64 {
	if !donate {
		return 0
	}
	return CharityCents(amountCents, p.CharityPercentFor(plan))
}

// FreeMonthlyLimit is the number of quota-consuming actions a free user may
// perform per UTC calendar month.
func (p Policy) FreeMonthlyLimit() int {
	return p.freeMonthlyLimit
}

// DefaultCharityID is the donation target used when nothing else is set.
func (p Policy) DefaultCharityID() int64 {
	return p.defaultCharityID
}

// CharityCents computes amount × percent rounded half up to whole cents.
func CharityCents(amountCents int64, percent decimal.Decimal) int64 {
	if amountCents <= 0 || !percent.IsPositive() {
		return 0
	}
	share := decimal.NewFromInt(amountCents).Mul(percent).Round(0).IntPart()
	if share > amountCents {
		return amountCents
	}
	return share
}

// CentsToEUR converts minor units to euros rounded to two decimals for display.
func CentsToEUR(cents int64) float64 {
	f, _ := decimal.New(cents, -2).Round(2).Float64()
	return f
}

// PercentWhole renders a fraction as a whole percent, e.g. 0.15 -> 15.
func PercentWhole(percent decimal.Decimal) int64 {
	return percent.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func serviceKeys() []string {
	out := make([]string, 0, len(defaultPrices))
	for svc := range defaultPrices {
		out = append(out, string(svc))
	}
	sort.Strings(out)
	return out
}

package core

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// NoPaybackLabel is shown when converting to mains water never pays off.
const NoPaybackLabel = "sin recuperación"

var (
	twelve = decimal.NewFromInt(12)

	// maxPaybackMonths bounds PaybackMonths; anything longer never pays off.
	maxPaybackMonths = decimal.NewFromInt(math.MaxInt32)
)

// SavingsInput describes a customer moving from bottled water to a mains-fed
// dispenser. All amounts are ARS.
type SavingsInput struct {
	BottlePrice     decimal.Decimal `json:"bottlePrice"`
	BottlesPerMonth decimal.Decimal `json:"bottlesPerMonth"`
	KitPrice        decimal.Decimal `json:"kitPrice"`
	Maintenance     decimal.Decimal `json:"maintenance"`
}

// DefaultSavingsInput returns the values the calculator starts with.
func DefaultSavingsInput() SavingsInput {
	return SavingsInput{
		BottlePrice:     decimal.NewFromInt(7500),
		BottlesPerMonth: decimal.NewFromInt(4),
		KitPrice:        decimal.NewFromInt(120000),
		Maintenance:     decimal.NewFromInt(140000),
	}
}

// SavingsResult is the yearly comparison. PaybackMonths is only meaningful
// when HasPayback is true.
type SavingsResult struct {
	AnnualBottleCost decimal.Decimal `json:"annualBottleCost"`
	FirstYearCost    decimal.Decimal `json:"firstYearCost"`
	FollowingYears   decimal.Decimal `json:"followingYearsCost"`
	FirstYearSavings decimal.Decimal `json:"firstYearSavings"`
	YearlySavings    decimal.Decimal `json:"yearlySavings"`
	PaybackMonths    int             `json:"paybackMonths"`
	HasPayback       bool            `json:"hasPayback"`
}

// PaybackLabel returns the months to recover the kit, or NoPaybackLabel.
func (r SavingsResult) PaybackLabel() string {
	if !r.HasPayback {
		return NoPaybackLabel
	}
	return strconv.Itoa(r.PaybackMonths)
}

// CalculateSavings compares a year of bottled water against the kit plus
// maintenance. Negative inputs count as zero.
func CalculateSavings(in SavingsInput) SavingsResult {
	price := nonNegative(in.BottlePrice)
	bottles := nonNegative(in.BottlesPerMonth)
	kit := nonNegative(in.KitPrice)
	maint := nonNegative(in.Maintenance)

	annual := price.Mul(bottles).Mul(twelve)
	first := kit.Add(maint)

	r := SavingsResult{
		AnnualBottleCost: annual,
		FirstYearCost:    first,
		FollowingYears:   maint,
		FirstYearSavings: annual.Sub(first),
		YearlySavings:    annual.Sub(maint),
	}
	if r.YearlySavings.IsPositive() {
		// kit / (yearly / 12) == kit * 12 / yearly
		months := kit.Mul(twelve).DivRound(r.YearlySavings, 8).Ceil()
		if months.LessThanOrEqual(maxPaybackMonths) {
			r.PaybackMonths = int(months.IntPart())
			r.HasPayback = true
		}
	}
	return r
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

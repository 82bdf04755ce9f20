package billing

import "github.com/shopspring/decimal"

var (
	secondsPerMinute = decimal.NewFromInt(60)
	secondsPerHour   = decimal.NewFromInt(3600)
)

// UnitsInput carries the raw quantity fields of a form row or import row.
// DurationSeconds, when set, wins over the minutes/seconds pair. Units is
// only consulted for the project basis.
type UnitsInput struct {
	Minutes         int64
	Seconds         int64
	DurationSeconds *int64
	Units           decimal.Decimal
}

// Quantity is the basis-normalized result. DurationSeconds is nil exactly
// when the basis is project.
type Quantity struct {
	Units           decimal.Decimal
	DurationSeconds *int64
}

// ResolveUnits converts raw duration or count input into billing units.
// Zero duration is not an error; it resolves to zero units (the pricing
// resolver decides whether that is billable).
func ResolveUnits(basis ChargeBasis, in UnitsInput) (Quantity, error) {
	if basis == BasisProject {
		units := in.Units
		if units.LessThan(decimal.NewFromInt(1)) {
			units = decimal.NewFromInt(1)
		}
		return Quantity{Units: units}, nil
	}

	total := totalSeconds(in)
	totalDec := decimal.NewFromInt(total)

	var units decimal.Decimal
	switch basis {
	case BasisSecond:
		units = totalDec
	case BasisMinute:
		units = totalDec.Div(secondsPerMinute)
	case BasisHour:
		units = totalDec.Div(secondsPerHour)
	default:
		return Quantity{}, ErrUnknownBasis
	}

	return Quantity{Units: units, DurationSeconds: &total}, nil
}

func totalSeconds(in UnitsInput) int64 {
	if in.DurationSeconds != nil {
		if *in.DurationSeconds < 0 {
			return 0
		}
		return *in.DurationSeconds
	}

	seconds := in.Seconds
	if seconds < 0 {
		seconds = 0
	}
	if seconds > 59 {
		seconds = 59
	}

	total := in.Minutes*60 + seconds
	if total < 0 {
		return 0
	}
	return total
}

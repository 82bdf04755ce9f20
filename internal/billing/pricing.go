package billing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrUnpriceable marks an entry whose inputs cannot produce an amount: a
// time-based entry with no duration, or a manual mode missing its manual
// value.
var ErrUnpriceable = errors.New("entry cannot be priced")

// PriceInput feeds the pricing resolver. ClientRate is the client's
// default rate at the moment of pricing; it is only consulted in auto
// mode and the result is snapshotted onto the entry.
type PriceInput struct {
	Mode        PricingMode
	Basis       ChargeBasis
	Units       decimal.Decimal
	ClientRate  decimal.Decimal
	ManualRate  *decimal.Decimal
	ManualTotal *decimal.Decimal
}

// Price is the resolved monetary outcome of one work entry. RateSnapshot
// is invalid (null) exactly when the mode is manual_total.
type Price struct {
	RateSnapshot decimal.NullDecimal
	AmountDue    decimal.Decimal
}

// ResolvePrice computes the rate snapshot and amount due for one entry.
// Amounts are rounded to 2 places and never negative.
func ResolvePrice(in PriceInput) (Price, error) {
	switch in.Mode {
	case ModeManualTotal:
		if in.ManualTotal == nil {
			return Price{}, fmt.Errorf("%w: manual_total mode needs an amount", ErrUnpriceable)
		}
		return Price{AmountDue: clampAmount(*in.ManualTotal)}, nil

	case ModeManualRate:
		if in.ManualRate == nil {
			return Price{}, fmt.Errorf("%w: manual_rate mode needs a rate", ErrUnpriceable)
		}
		return priceByRate(in, *in.ManualRate)

	case ModeAuto:
		return priceByRate(in, in.ClientRate)
	}

	return Price{}, ErrUnknownMode
}

func priceByRate(in PriceInput, rate decimal.Decimal) (Price, error) {
	// A time-based entry with no time cannot be rate-priced.
	if in.Basis != BasisProject && in.Units.IsZero() {
		return Price{}, fmt.Errorf("%w: time-based entry has no duration", ErrUnpriceable)
	}

	return Price{
		RateSnapshot: decimal.NullDecimal{Decimal: rate, Valid: true},
		AmountDue:    clampAmount(in.Units.Mul(rate)),
	}, nil
}

func clampAmount(amount decimal.Decimal) decimal.Decimal {
	rounded := amount.Round(2)
	if rounded.IsNegative() {
		return decimal.Zero
	}
	return rounded
}

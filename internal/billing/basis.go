package billing

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownBasis = errors.New("unknown charge basis")
	ErrUnknownMode  = errors.New("unknown pricing mode")
)

// ChargeBasis is the unit a client is billed by: a slice of time, or a
// whole project.
type ChargeBasis string

const (
	BasisSecond  ChargeBasis = "second"
	BasisMinute  ChargeBasis = "minute"
	BasisHour    ChargeBasis = "hour"
	BasisProject ChargeBasis = "project"
)

func ParseChargeBasis(value string) (ChargeBasis, error) {
	switch ChargeBasis(strings.ToLower(strings.TrimSpace(value))) {
	case BasisSecond:
		return BasisSecond, nil
	case BasisMinute:
		return BasisMinute, nil
	case BasisHour:
		return BasisHour, nil
	case BasisProject:
		return BasisProject, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBasis, value)
}

// PricingMode records how an entry's price was determined: the client's
// default rate, a manually supplied rate, or a manual flat total.
type PricingMode string

const (
	ModeAuto        PricingMode = "auto"
	ModeManualRate  PricingMode = "manual_rate"
	ModeManualTotal PricingMode = "manual_total"
)

func ParsePricingMode(value string) (PricingMode, error) {
	switch PricingMode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeAuto:
		return ModeAuto, nil
	case ModeManualRate:
		return ModeManualRate, nil
	case ModeManualTotal:
		return ModeManualTotal, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, value)
}

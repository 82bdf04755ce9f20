package billing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal   { return decimal.RequireFromString(s) }
func decp(s string) *decimal.Decimal { d := decimal.RequireFromString(s); return &d }

func TestResolvePrice(t *testing.T) {
	tests := []struct {
		name       string
		in         PriceInput
		wantRate   string // "" means null snapshot
		wantAmount string
		wantErr    error
	}{
		{
			name: "auto mode snapshots client rate",
			in: PriceInput{
				Mode:       ModeAuto,
				Basis:      BasisMinute,
				Units:      dec("1.5"),
				ClientRate: dec("100"),
			},
			wantRate:   "100",
			wantAmount: "150",
		},
		{
			name: "manual rate overrides client rate",
			in: PriceInput{
				Mode:       ModeManualRate,
				Basis:      BasisProject,
				Units:      dec("2"),
				ClientRate: dec("100"),
				ManualRate: decp("4000"),
			},
			wantRate:   "4000",
			wantAmount: "8000",
		},
		{
			name: "manual total ignores units and rate",
			in: PriceInput{
				Mode:        ModeManualTotal,
				Basis:       BasisHour,
				Units:       dec("0"),
				ClientRate:  dec("100"),
				ManualTotal: decp("2500"),
			},
			wantRate:   "",
			wantAmount: "2500",
		},
		{
			name: "negative manual total clamps to zero",
			in: PriceInput{
				Mode:        ModeManualTotal,
				Basis:       BasisProject,
				Units:       dec("1"),
				ManualTotal: decp("-500"),
			},
			wantRate:   "",
			wantAmount: "0",
		},
		{
			name: "negative rate clamps amount to zero",
			in: PriceInput{
				Mode:       ModeAuto,
				Basis:      BasisHour,
				Units:      dec("2"),
				ClientRate: dec("-50"),
			},
			wantRate:   "-50",
			wantAmount: "0",
		},
		{
			name: "amount rounds to two places",
			in: PriceInput{
				Mode:       ModeAuto,
				Basis:      BasisHour,
				Units:      dec("0.333333"),
				ClientRate: dec("100"),
			},
			wantRate:   "100",
			wantAmount: "33.33",
		},
		{
			name: "zero units on project basis still prices",
			in: PriceInput{
				Mode:       ModeAuto,
				Basis:      BasisProject,
				Units:      dec("1"),
				ClientRate: dec("300"),
			},
			wantRate:   "300",
			wantAmount: "300",
		},
		{
			name: "time-based entry with no duration is unpriceable",
			in: PriceInput{
				Mode:       ModeAuto,
				Basis:      BasisMinute,
				Units:      dec("0"),
				ClientRate: dec("100"),
			},
			wantErr: ErrUnpriceable,
		},
		{
			name: "manual rate without a rate is unpriceable",
			in: PriceInput{
				Mode:  ModeManualRate,
				Basis: BasisProject,
				Units: dec("1"),
			},
			wantErr: ErrUnpriceable,
		},
		{
			name: "manual total without an amount is unpriceable",
			in: PriceInput{
				Mode:  ModeManualTotal,
				Basis: BasisProject,
				Units: dec("1"),
			},
			wantErr: ErrUnpriceable,
		},
		{
			name:    "unknown mode is rejected",
			in:      PriceInput{Mode: "barter", Basis: BasisHour, Units: dec("1")},
			wantErr: ErrUnknownMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePrice(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolvePrice: %v", err)
			}
			if tt.wantRate == "" {
				if got.RateSnapshot.Valid {
					t.Errorf("rate snapshot = %s, want null", got.RateSnapshot.Decimal)
				}
			} else {
				if !got.RateSnapshot.Valid {
					t.Fatal("rate snapshot is null, want value")
				}
				if want := dec(tt.wantRate); !got.RateSnapshot.Decimal.Equal(want) {
					t.Errorf("rate snapshot = %s, want %s", got.RateSnapshot.Decimal, want)
				}
			}
			if want := dec(tt.wantAmount); !got.AmountDue.Equal(want) {
				t.Errorf("amount due = %s, want %s", got.AmountDue, want)
			}
		})
	}
}

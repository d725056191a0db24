/*
Package generic provides the domain-agnostic building blocks of the reconciler.

PURPOSE:
  Calendar and clock primitives, decimal quantities and error types shared
  by the attendance engine, the stores and the HTTP layer. Nothing in this
  package knows about shifts, checkpoints or rosters.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity with a unit (e.g., 8.17 hours)
  - WorkerID: Type-safe worker identifier

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal so reported hours round exactly
  2. Comparability: TimePoint values are safe map keys
  3. Type Safety: Strong typing for IDs

USAGE:
  net := generic.HoursFromDuration(8*time.Hour + 10*time.Minute).Round(2)
  // net.Value == 8.17

SEE ALSO:
  - time.go: TimePoint and ClockTime
  - period.go: Period ranges
  - errors.go: Sentinel and structured errors
*/
package generic

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const UnitHours Unit = "hours"

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

// ZeroHours is an hour quantity of zero.
func ZeroHours() Amount { return Amount{Value: decimal.Zero, Unit: UnitHours} }

var nanosPerHour = decimal.NewFromInt(int64(time.Hour))

// HoursFromDuration converts d to an exact, unrounded hour quantity.
func HoursFromDuration(d time.Duration) Amount {
	return Amount{Value: decimal.NewFromInt(int64(d)).Div(nanosPerHour), Unit: UnitHours}
}

// Duration converts an hour quantity back to a duration, truncated to the nanosecond.
func (a Amount) Duration() time.Duration {
	return time.Duration(a.Value.Mul(nanosPerHour).IntPart())
}

// ParseHours parses a decimal hour quantity such as "8.17".
func ParseHours(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid hours %q: %w", s, err)
	}
	return Amount{Value: d, Unit: UnitHours}, nil
}

func (a Amount) Zero() Amount              { return Amount{Value: decimal.Zero, Unit: a.Unit} }
func (a Amount) Add(b Amount) Amount       { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount       { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) Round(places int32) Amount { return Amount{Value: a.Value.Round(places), Unit: a.Unit} }
func (a Amount) IsNegative() bool          { return a.Value.IsNegative() }
func (a Amount) IsZero() bool              { return a.Value.IsZero() }
func (a Amount) IsPositive() bool          { return a.Value.IsPositive() }
func (a Amount) GreaterThan(b Amount) bool { return a.Value.GreaterThan(b.Value) }
func (a Amount) Equal(b Amount) bool       { return a.Value.Equal(b.Value) }
func (a Amount) Float64() float64          { f, _ := a.Value.Float64(); return f }
func (a Amount) String() string            { return a.Value.StringFixed(2) }
func (a Amount) Max(b Amount) Amount {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type WorkerID string

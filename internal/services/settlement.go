package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidRecord is matched by every InvalidRecordError.
var ErrInvalidRecord = errors.New("invalid expense record")

// ExpenseRecord is one payment toward a group's shared pool. Payer and Amount
// hold the raw values produced by the storage driver or a decoded request body.
type ExpenseRecord struct {
	Payer  any
	Amount any
}

// BalanceSheet maps a payer id to the signed amount it is owed (positive) or
// owes (negative) after an equal split.
type BalanceSheet map[int64]decimal.Decimal

// Total sums every balance. It is zero up to the 2-place rounding of each entry.
func (b BalanceSheet) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range b {
		total = total.Add(v)
	}
	return total
}

// MarshalJSON writes the sheet as an object keyed by payer id with numeric
// values fixed to two decimal places.
func (b BalanceSheet) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.Number, len(b))
	for payer, balance := range b {
		out[strconv.FormatInt(payer, 10)] = json.Number(balance.StringFixed(2))
	}
	return json.Marshal(out)
}

// InvalidRecordError reports a record whose payer or amount could not be
// coerced to the required numeric type.
type InvalidRecordError struct {
	Index int
	Field string
	Value any
	Err   error
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid expense record %d: %s %#v: %v", e.Index, e.Field, e.Value, e.Err)
}

func (e *InvalidRecordError) Unwrap() error { return e.Err }

func (e *InvalidRecordError) Is(target error) bool { return target == ErrInvalidRecord }

// CalculateSettlement splits the total spend of a group evenly across every
// distinct payer in records and returns each payer's balance rounded half to
// even at two decimal places. Members that never paid are not part of the
// split. An empty input yields an empty sheet.
func CalculateSettlement(records []ExpenseRecord) (BalanceSheet, error) {
	totals := make(map[int64]decimal.Decimal)

	for i, rec := range records {
		payer, err := ParsePayerID(rec.Payer)
		if err != nil {
			return nil, &InvalidRecordError{Index: i, Field: "payer", Value: rec.Payer, Err: err}
		}
		amount, err := ParseAmount(rec.Amount)
		if err != nil {
			return nil, &InvalidRecordError{Index: i, Field: "amount", Value: rec.Amount, Err: err}
		}
		totals[payer] = totals[payer].Add(amount)
	}

	balances := make(BalanceSheet, len(totals))
	if len(totals) == 0 {
		return balances, nil
	}

	grandTotal := decimal.Zero
	for _, paid := range totals {
		grandTotal = grandTotal.Add(paid)
	}
	share := grandTotal.Div(decimal.NewFromInt(int64(len(totals))))

	for payer, paid := range totals {
		balances[payer] = paid.Sub(share).RoundBank(2)
	}
	return balances, nil
}

// ParsePayerID coerces a raw payer value to an integer id. Floats must be
// integral; text must be a base-10 integer.
func ParsePayerID(v any) (int64, error) {
	switch p := v.(type) {
	case int:
		return int64(p), nil
	case int8:
		return int64(p), nil
	case int16:
		return int64(p), nil
	case int32:
		return int64(p), nil
	case int64:
		return p, nil
	case uint:
		return uintToInt64(uint64(p))
	case uint8:
		return int64(p), nil
	case uint16:
		return int64(p), nil
	case uint32:
		return int64(p), nil
	case uint64:
		return uintToInt64(p)
	case float32:
		return floatToInt64(float64(p))
	case float64:
		return floatToInt64(p)
	case json.Number:
		return parseIntText(string(p))
	case string:
		return parseIntText(p)
	case []byte:
		return parseIntText(string(p))
	case decimal.Decimal:
		if !p.IsInteger() {
			return 0, errors.New("not an integer")
		}
		if !p.BigInt().IsInt64() {
			return 0, errors.New("out of range")
		}
		return p.IntPart(), nil
	case nil:
		return 0, errors.New("missing value")
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

// Amounts must lie inside float64's finite range and carry no more fractional
// digits than a float64 can express.
const (
	maxAmountIntegerDigits = 309
	maxAmountScale         = 340

	// bits of a coefficient with maxAmountIntegerDigits+maxAmountScale digits
	maxAmountCoefficientBits = 2160
)

var maxFiniteAmount = decimal.NewFromFloat(math.MaxFloat64)

// ParseAmount coerces a raw amount to a finite decimal. Sign is not checked.
func ParseAmount(v any) (decimal.Decimal, error) {
	d, err := coerceAmount(v)
	if err != nil {
		return decimal.Zero, err
	}
	if err := checkAmountRange(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// checkAmountRange only looks at the coefficient length and the exponent
// before doing any arithmetic, so oversized inputs are rejected cheaply.
func checkAmountRange(d decimal.Decimal) error {
	exp := int64(d.Exponent())
	if exp < -maxAmountScale {
		return errors.New("too many decimal places")
	}
	if d.IsZero() {
		return nil
	}
	// a coefficient this long cannot fit once the scale bound above holds
	if d.Coefficient().BitLen() > maxAmountCoefficientBits {
		return errors.New("out of range")
	}
	if int64(d.NumDigits())+exp > maxAmountIntegerDigits {
		return errors.New("out of range")
	}
	if d.Abs().GreaterThan(maxFiniteAmount) {
		return errors.New("out of range")
	}
	return nil
}

func coerceAmount(v any) (decimal.Decimal, error) {
	switch a := v.(type) {
	case decimal.Decimal:
		return a, nil
	case int:
		return decimal.NewFromInt(int64(a)), nil
	case int8:
		return decimal.NewFromInt(int64(a)), nil
	case int16:
		return decimal.NewFromInt(int64(a)), nil
	case int32:
		return decimal.NewFromInt(int64(a)), nil
	case int64:
		return decimal.NewFromInt(a), nil
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(a)), 0), nil
	case uint8:
		return decimal.NewFromInt(int64(a)), nil
	case uint16:
		return decimal.NewFromInt(int64(a)), nil
	case uint32:
		return decimal.NewFromInt(int64(a)), nil
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(a), 0), nil
	case float32:
		if math.IsNaN(float64(a)) || math.IsInf(float64(a), 0) {
			return decimal.Zero, errors.New("not a finite number")
		}
		return decimal.NewFromFloat32(a), nil
	case float64:
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return decimal.Zero, errors.New("not a finite number")
		}
		return decimal.NewFromFloat(a), nil
	case json.Number:
		return parseDecimalText(string(a))
	case string:
		return parseDecimalText(a)
	case []byte:
		return parseDecimalText(string(a))
	case nil:
		return decimal.Zero, errors.New("missing value")
	default:
		return decimal.Zero, fmt.Errorf("unsupported type %T", v)
	}
}

func parseIntText(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errors.New("not an integer")
	}
	return id, nil
}

// decimal.NewFromString rejects NaN and Inf spellings, so any value it accepts is finite.
func parseDecimalText(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, errors.New("not a number")
	}
	return d, nil
}

func uintToInt64(u uint64) (int64, error) {
	if u > math.MaxInt64 {
		return 0, errors.New("out of range")
	}
	return int64(u), nil
}

func floatToInt64(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, errors.New("not an integer")
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, errors.New("out of range")
	}
	return int64(f), nil
}

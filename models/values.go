// ABOUTME: JSON value types with loose wire forms
// ABOUTME: Ref encodes an optional id as string|null, DealValue as integer|""
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Ref is an optional reference to another record. The empty Ref encodes as null.
type Ref string

func (r Ref) String() string { return string(r) }

// MarshalJSON implements json.Marshaler.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(r))
}

// UnmarshalJSON accepts a string or null. Numeric ids keep their literal text.
func (r *Ref) UnmarshalJSON(data []byte) error {
	*r = Ref(looseText(data))
	return nil
}

// DealValue is a non-negative whole amount that may be unset.
// Unset encodes as "" to stay compatible with exported documents.
type DealValue struct {
	amount int64
	set    bool
}

// NewDealValue returns a set value, clamped at zero.
func NewDealValue(amount int64) DealValue {
	if amount < 0 {
		amount = 0
	}
	return DealValue{amount: amount, set: true}
}

// IsSet reports whether the value carries an amount.
func (v DealValue) IsSet() bool { return v.set }

// Amount returns the amount and whether it is set.
func (v DealValue) Amount() (int64, bool) { return v.amount, v.set }

// OrZero returns the amount, treating unset as zero.
func (v DealValue) OrZero() int64 {
	if !v.set {
		return 0
	}
	return v.amount
}

func (v DealValue) String() string {
	if !v.set {
		return ""
	}
	return strconv.FormatInt(v.amount, 10)
}

// maxDealValue is the smallest rounded amount that no longer fits in an int64.
const maxDealValue = float64(math.MaxInt64)

// ParseDealValue normalizes user input: blank stays unset, anything else is
// rounded to the nearest integer and floored at zero.
func ParseDealValue(raw string) (DealValue, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DealValue{}, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return DealValue{}, NewValidationError("value", fmt.Sprintf("%q is not a number", raw))
	}
	v, ok := roundValue(f)
	if !ok {
		return DealValue{}, NewValidationError("value", "is too large")
	}
	return v, nil
}

// roundValue rounds half up, matching how amounts have always been stored.
// It reports false when the rounded amount does not fit.
func roundValue(f float64) (DealValue, bool) {
	r := math.Floor(f + 0.5)
	if r >= maxDealValue {
		return DealValue{}, false
	}
	if r <= 0 {
		return NewDealValue(0), true
	}
	return NewDealValue(int64(r)), true
}

// storedValue decodes an amount already persisted. Amounts beyond the int64
// range saturate so a loaded document never loses its deals.
func storedValue(f float64) DealValue {
	if v, ok := roundValue(f); ok {
		return v
	}
	return NewDealValue(math.MaxInt64)
}

// MarshalJSON implements json.Marshaler.
func (v DealValue) MarshalJSON() ([]byte, error) {
	if !v.set {
		return []byte(`""`), nil
	}
	return []byte(strconv.FormatInt(v.amount, 10)), nil
}

// UnmarshalJSON accepts numbers, numeric strings, "" and null. Anything else
// decodes as unset since it never counted toward any total.
func (v *DealValue) UnmarshalJSON(data []byte) error {
	*v = DealValue{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	var text string
	switch data[0] {
	case '"':
		text = strings.TrimSpace(looseText(data))
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		text = string(data)
	default:
		return nil
	}
	if text == "" {
		return nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil //nolint:nilerr // non-numeric text is an unset value, not a decode failure
	}
	if math.IsNaN(f) {
		return nil
	}
	*v = storedValue(f)
	return nil
}

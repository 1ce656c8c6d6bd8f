package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxMoney is the largest value a numeric(12,2) column holds.
const MaxMoney = 9_999_999_999.99

var maxMoneyDec = decimal.NewFromFloat(MaxMoney)

// ErrAmountOutOfRange is returned for non-finite values and values beyond MaxMoney.
var ErrAmountOutOfRange = errors.New("amount out of range")

// Round2 rounds x to 2 decimal places (half away from zero).
// Non-finite values are returned unchanged.
func Round2(x float64) float64 {
	if !isFinite(x) {
		return x
	}
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}

func isFinite(x float64) bool {
	return !math.IsInf(x, 0) && !math.IsNaN(x)
}

// SumMoney adds values exactly and rounds the result to 2 decimal places.
func SumMoney(values ...float64) float64 {
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(decimal.NewFromFloat(v))
	}
	return sum.Round(2).InexactFloat64()
}

// SubMoney returns a-b rounded to 2 decimal places.
func SubMoney(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Round(2).InexactFloat64()
}

// ParseAmount reads a number that may arrive as a JSON number or a string,
// without rounding. Empty strings parse to 0. Results must be finite and
// within ±MaxMoney.
func ParseAmount(v any) (float64, error) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, nil
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		return ParseAmount(string(x))
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(x, ",", ""))
		if s == "" {
			return 0, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", x)
		}
		if d.Abs().GreaterThan(maxMoneyDec) {
			return 0, fmt.Errorf("%w: %q", ErrAmountOutOfRange, x)
		}
		return d.InexactFloat64(), nil
	default:
		return 0, fmt.Errorf("invalid amount of type %T", v)
	}
	if !isFinite(f) || math.Abs(f) > MaxMoney {
		return 0, fmt.Errorf("%w: %v", ErrAmountOutOfRange, f)
	}
	return f, nil
}

// FlexFloat decodes from a JSON number or a numeric string. It is not
// rounded here; money fields are rounded by NormalizeDTO.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	var raw any
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = s
	} else {
		n, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return fmt.Errorf("invalid number %s", string(b))
		}
		raw = n
	}
	v, err := ParseAmount(raw)
	if err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

func (f FlexFloat) Float() float64 {
	return float64(f)
}

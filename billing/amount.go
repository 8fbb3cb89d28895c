package billing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidChargeAmount = errors.New("invalid charge amount")

var ErrAmountOutOfRange = fmt.Errorf("%w: out of range", ErrInvalidChargeAmount)

// MaxAmount is the first value a decimal(12,2) column cannot hold.
var MaxAmount = decimal.New(1, 10)

// maxExponent keeps arithmetic on accepted values from rescaling to huge
// coefficients; the exponent is checked before any comparison.
const maxExponent = 12

// CheckBounds rejects money values that cannot be stored or priced.
func CheckBounds(d decimal.Decimal) error {
	if e := d.Exponent(); e > maxExponent || e < -maxExponent {
		return ErrAmountOutOfRange
	}
	if d.Abs().Cmp(MaxAmount) >= 0 {
		return ErrAmountOutOfRange
	}
	return nil
}

// Amount is an operator-entered charge. It decodes from a JSON number, a
// numeric string, null or anything else; non-numeric input becomes zero so a
// typo never puts NaN on an invoice. Numeric input outside CheckBounds is an
// error.
type Amount struct {
	decimal.Decimal
}

func NewAmount(v int64) Amount {
	return Amount{decimal.NewFromInt(v)}
}

func AmountFromFloat(v float64) Amount {
	return Amount{decimal.NewFromFloat(v)}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		a.Decimal = decimal.Zero
		return nil
	}

	var raw string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			a.Decimal = decimal.Zero
			return nil
		}
	} else {
		raw = string(data)
	}

	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		a.Decimal = decimal.Zero
		return nil
	}
	if err := CheckBounds(d); err != nil {
		a.Decimal = decimal.Zero
		return err
	}
	a.Decimal = d
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return a.Decimal.MarshalJSON()
}

// Dec returns the underlying decimal; the zero Amount is zero.
func (a Amount) Dec() decimal.Decimal {
	return a.Decimal
}

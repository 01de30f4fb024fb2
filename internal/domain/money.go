package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Money is a nullable amount kept at two decimal places. It is written to JSON as a
// string with exactly two fraction digits, e.g. "1000.00".
type Money struct {
	decimal.NullDecimal
}

func NewMoney(d decimal.Decimal) Money { return Money{decimal.NewNullDecimal(d)} }

func (m Money) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Decimal.StringFixed(2))
}

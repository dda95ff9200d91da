package valueobject

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/homefix/marketplace-client/internal/pkg/apperror"
)

// Money денежная сумма в валюте платформы.
// REST API отдаёт десятичные поля строками ("150.00"), поэтому Money принимает оба формата.
type Money float64

func NewMoney(amount float64) (Money, error) {
	if amount < 0 {
		return 0, apperror.New(apperror.ErrCodeValidation, "сумма не может быть отрицательной")
	}
	return Money(amount), nil
}

func (m Money) Float64() float64 {
	return float64(m)
}

func (m Money) IsPositive() bool {
	return m > 0
}

func (m Money) String() string {
	return strconv.FormatFloat(float64(m), 'f', 2, 64)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = 0
		return nil
	}

	raw := data
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*m = 0
			return nil
		}
		raw = []byte(s)
	}

	v, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return fmt.Errorf("money: некорректная сумма %s: %w", data, err)
	}
	// ParseFloat принимает "NaN" и "Inf", суммой они не являются
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("money: некорректная сумма %s", data)
	}
	*m = Money(v)
	return nil
}

package rest

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
)

// flexInt accepts a JSON number or a numeric string. Blank strings decode to
// zero, the way an empty form field is submitted. Values that cannot be
// coerced mark the field invalid instead of failing the whole body.
type flexInt struct {
	value   int64
	invalid bool
}

func (n *flexInt) UnmarshalJSON(data []byte) error {
	f, ok := parseFlex(data)
	if !ok || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		*n = flexInt{invalid: true}
		return nil
	}
	*n = flexInt{value: int64(f)}
	return nil
}

// flexFloat is flexInt for fractional values.
type flexFloat struct {
	value   float64
	invalid bool
}

func (n *flexFloat) UnmarshalJSON(data []byte) error {
	f, ok := parseFlex(data)
	*n = flexFloat{value: f, invalid: !ok}
	return nil
}

func parseFlex(data []byte) (float64, bool) {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return 0, true
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return 0, false
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return 0, true
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// stringList accepts a JSON array of strings or a single comma-separated
// string.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = strings.Split(s, ",")
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// coercion collects fields that failed numeric coercion.
type coercion struct {
	errs []domain.FieldError
}

func (c *coercion) int(field string, n flexInt) int64 {
	if n.invalid {
		c.errs = append(c.errs, domain.FieldError{Field: field, Message: "must be a whole number"})
	}
	return n.value
}

func (c *coercion) float(field string, n flexFloat) float64 {
	if n.invalid {
		c.errs = append(c.errs, domain.FieldError{Field: field, Message: "must be a number"})
	}
	return n.value
}

func (c *coercion) err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return domain.NewValidationErrors(c.errs)
}

package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

func ParseIntDefault(s string, def int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return v, nil
}

func ParseOptionalInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%q is not an integer", s)
	}
	return &v, nil
}

func ParseID(s string) (uint, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%q is not a valid id", s)
	}
	return uint(v), nil
}

func ParseOptionalID(s string) (*uint, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	v, err := ParseID(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func ParseOptionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", s)
	}
	return &v, nil
}

func ParseOptionalDecimal(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", s)
	}
	return &v, nil
}

func ParseOptionalBool(s string) (*bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("%q is not a boolean", s)
	}
	return &v, nil
}

// ParseTime accepts RFC3339 timestamps or plain dates (midnight UTC).
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%q is not a date (use YYYY-MM-DD or RFC3339)", s)
}

func ParseOptionalTime(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseTime(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseOptionalEndTime is ParseOptionalTime, except that a plain date
// covers the whole day.
func ParseOptionalEndTime(s string) (*time.Time, error) {
	t, err := ParseOptionalTime(s)
	if err != nil || t == nil {
		return t, err
	}
	if _, dateOnly := time.Parse(dateLayout, strings.TrimSpace(s)); dateOnly == nil {
		end := t.Add(24*time.Hour - time.Nanosecond)
		t = &end
	}
	return t, nil
}

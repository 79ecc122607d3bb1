package validator

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Numeric validation
var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// IsInSliceFold is IsInSlice ignoring case and surrounding spaces.
func IsInSliceFold(value string, slice []string) bool {
	value = strings.TrimSpace(value)
	for _, item := range slice {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}

// RUT validation (Chilean national ID: body + check digit, dots optional)
var rutRegex = regexp.MustCompile(`^[0-9]{1,8}-?[0-9kK]$`)

// NormalizeRUT strips dots and spaces and upper-cases the check digit: "12.345.678-k" -> "12345678-K".
func NormalizeRUT(rut string) string {
	rut = strings.ToUpper(strings.TrimSpace(rut))
	rut = strings.ReplaceAll(rut, ".", "")
	rut = strings.ReplaceAll(rut, " ", "")
	if rut != "" && !strings.Contains(rut, "-") && len(rut) > 1 {
		rut = rut[:len(rut)-1] + "-" + rut[len(rut)-1:]
	}
	return rut
}

// IsValidRUT checks the shape and the modulo-11 check digit.
func IsValidRUT(rut string) bool {
	rut = NormalizeRUT(rut)
	if !rutRegex.MatchString(rut) {
		return false
	}
	parts := strings.SplitN(rut, "-", 2)
	body, dv := parts[0], parts[1]

	sum, factor := 0, 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * factor
		factor++
		if factor > 7 {
			factor = 2
		}
	}

	var expected string
	switch rest := 11 - sum%11; rest {
	case 11:
		expected = "0"
	case 10:
		expected = "K"
	default:
		expected = strconv.Itoa(rest)
	}
	return dv == expected
}

type Date time.Time

// ParseDate parses a date string in "YYYY-MM-DD" format and returns a Date type.
func ParseDate(dateStr string) (Date, error) {
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return Date{}, err
	}
	return Date(t), nil
}

// Before reports whether the date d is before u.
func (d Date) Before(u Date) bool {
	return time.Time(d).Before(time.Time(u))
}

// Itoa converts an integer to a string.
func Itoa(i int) string {
	return strconv.Itoa(i)
}

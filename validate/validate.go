// Package validate enforces type-specific rules on raw extracted values and
// normalizes accepted values for substitution.
package validate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tbxark/docfill/types"
)

// minPlausibleAmount is the floor below which an investment amount is
// flagged as implausible rather than accepted. "$2M" extracting as "2"
// lands here instead of silently filling the field with 2 dollars.
const minPlausibleAmount = 1000

var (
	dateFormatRe = regexp.MustCompile(`^([0-9]{1,2})/([0-9]{1,2})/([0-9]{4})$`)
	emailCheckRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Validate checks raw against field's type rules. A non-nil error is the
// user-facing feedback; the field stays unfilled and the conversation
// continues.
func Validate(raw string, field *types.Field) error {
	value := strings.TrimSpace(raw)
	switch {
	case field.Type == types.FieldNumber:
		return validateNumber(value, field)
	case field.Type == types.FieldDate:
		return validateDate(value)
	case field.Type == types.FieldEmail:
		return validateEmail(value)
	case stateNamed(field):
		return validateState(value)
	default:
		if len(value) < 2 {
			return fmt.Errorf("that looks too short for the %s, could you spell it out?", field.Description)
		}
		return nil
	}
}

// Format normalizes an already-validated value. Formatting an already
// normalized value is a no-op.
func Format(raw string, field *types.Field) string {
	value := strings.TrimSpace(raw)
	switch {
	case field.Type == types.FieldNumber:
		return formatNumber(value)
	case field.Type == types.FieldDate:
		return formatDate(value)
	case stateNamed(field):
		if len(value) == 2 {
			return strings.ToUpper(value)
		}
		return value
	default:
		return value
	}
}

func stateNamed(field *types.Field) bool {
	return field.Type == types.FieldState || strings.Contains(field.Name, "STATE")
}

func amountNamed(field *types.Field) bool {
	for _, kw := range []string{"AMOUNT", "INVESTMENT", "PURCHASE"} {
		if strings.Contains(field.Name, kw) {
			return true
		}
	}
	return false
}

func validateNumber(value string, field *types.Field) error {
	n, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return fmt.Errorf("I couldn't read %q as a number, could you give just the figure?", value)
	}
	if n <= 0 {
		return fmt.Errorf("the %s has to be greater than zero.", field.Description)
	}
	if amountNamed(field) && n < minPlausibleAmount {
		return fmt.Errorf("%s seems very low for the %s. If you meant something like $%s million, please enter the full figure.",
			formatNumber(value), field.Description, formatNumber(value))
	}
	return nil
}

func validateDate(value string) error {
	m := dateFormatRe.FindStringSubmatch(value)
	if m == nil {
		return fmt.Errorf("please give the date as MM/DD/YYYY, e.g. 12/15/2024.")
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if !realCalendarDate(year, month, day) {
		return fmt.Errorf("%s isn't a real calendar date, could you check it?", value)
	}
	return nil
}

func validateEmail(value string) error {
	if !emailCheckRe.MatchString(value) {
		return fmt.Errorf("%q doesn't look like an email address.", value)
	}
	return nil
}

func validateState(value string) error {
	if len(value) == 2 && !IsStateCode(value) {
		return fmt.Errorf("%q isn't a state code I recognize. Try a two-letter code like DE or CA.", value)
	}
	// Longer values (full state names) pass through unchecked.
	return nil
}

func realCalendarDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	return day <= daysInMonth(year, month)
}

func daysInMonth(year, month int) int {
	switch month {
	case 4, 6, 9, 11:
		return 30
	case 2:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	default:
		return 31
	}
}

// formatNumber renders with thousands separators and at most two fractional
// digits. The input may already carry separators.
func formatNumber(value string) string {
	n, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return value
	}
	rounded := math.Round(n*100) / 100
	text := strconv.FormatFloat(rounded, 'f', -1, 64)

	intPart, fracPart, _ := strings.Cut(text, ".")
	negative := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var sb strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(digit)
	}
	out := sb.String()
	if negative {
		out = "-" + out
	}
	if fracPart != "" {
		out += "." + fracPart
	}
	return out
}

func formatDate(value string) string {
	m := dateFormatRe.FindStringSubmatch(value)
	if m == nil {
		return value
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	return fmt.Sprintf("%02d/%02d/%s", month, day, m[3])
}

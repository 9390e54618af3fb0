package dataprocessing

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"bankpipe/pkg/contracts/domain"
)

// DateOrder selects which slash/dash pattern wins when a date is ambiguous
// (both day and month <= 12). ISO formats are always tried first.
type DateOrder string

const (
	// DateOrderMDY tries MM/DD/YYYY before YYYY/MM/DD.
	DateOrderMDY DateOrder = "MDY"
	// DateOrderDMY tries DD/MM/YYYY before YYYY/MM/DD.
	DateOrderDMY DateOrder = "DMY"
)

// noValueTokens are source placeholders that mean "no value", not zero.
var noValueTokens = map[string]bool{
	"":          true,
	"-":         true,
	"n/a":       true,
	"na":        true,
	"null":      true,
	"none":      true,
	"undefined": true,
}

// isNoValue reports whether the raw field carries no usable value.
func isNoValue(s string) bool {
	return noValueTokens[strings.ToLower(strings.TrimSpace(s))]
}

// currencyReplacer strips currency symbols, thousands separators and
// whitespace before numeric parsing.
var currencyReplacer = strings.NewReplacer(
	"$", "", "€", "", "£", "", "¥", "",
	",", "", " ", "", "\t", "",
)

// ParseAmount converts a raw monetary field into a float64 magnitude.
// Placeholder tokens and malformed remainders resolve to ok=false, never
// to a partially-parsed number. The caller decides whether absence
// invalidates the record or defaults to zero.
func ParseAmount(s string) (float64, bool) {
	if isNoValue(s) {
		return 0, false
	}
	cleaned := currencyReplacer.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseInt performs a strict base-10 integer parse.
func ParseInt(s string) (int64, bool) {
	if isNoValue(s) {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// NormalizeGender maps free-form gender input onto the Gender enum.
// Anything unrecognized, including empty input, maps to GenderOther.
func NormalizeGender(s string) domain.Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "male", "man":
		return domain.GenderMale
	case "f", "female", "woman":
		return domain.GenderFemale
	default:
		return domain.GenderOther
	}
}

// isoLayouts are tried first regardless of configured date order.
var isoLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// layoutsFor returns the explicit fallback layouts for the configured
// order, slash and dash separators both included.
func layoutsFor(order DateOrder) []string {
	if order == DateOrderDMY {
		return []string{
			"02/01/2006", "2/1/2006", "02-01-2006",
			"2006/01/02", "2006-1-2",
		}
	}
	return []string{
		"01/02/2006", "1/2/2006", "01-02-2006",
		"2006/01/02", "2006-1-2",
	}
}

// ParseDate attempts an ISO parse first, then the explicit slash/dash
// patterns for the configured order. All failures resolve to ok=false;
// a date is never guessed beyond the declared patterns.
func ParseDate(s string, order DateOrder) (time.Time, bool) {
	if isNoValue(s) {
		return time.Time{}, false
	}
	trimmed := strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	for _, layout := range layoutsFor(order) {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// transactionTypeAliases maps lowercase source tokens to the enum.
var transactionTypeAliases = map[string]domain.TransactionType{
	"deposit":    domain.TypeDeposit,
	"dep":        domain.TypeDeposit,
	"credit":     domain.TypeDeposit,
	"withdrawal": domain.TypeWithdrawal,
	"withdraw":   domain.TypeWithdrawal,
	"debit":      domain.TypeWithdrawal,
	"transfer":   domain.TypeTransfer,
	"xfer":       domain.TypeTransfer,
	"payment":    domain.TypePayment,
	"pay":        domain.TypePayment,
	"fee":        domain.TypeFee,
	"charge":     domain.TypeFee,
}

// NormalizeTransactionType is the lenient cleaning-pipeline variant:
// unrecognized input maps to TypeOther and the row is kept.
func NormalizeTransactionType(s string) domain.TransactionType {
	t, ok := ParseTransactionType(s)
	if !ok {
		return domain.TypeOther
	}
	return t
}

// ParseTransactionType is the strict variant: unrecognized input resolves
// to ok=false so the caller can reject the row.
func ParseTransactionType(s string) (domain.TransactionType, bool) {
	t, ok := transactionTypeAliases[strings.ToLower(strings.TrimSpace(s))]
	return t, ok
}

var (
	fieldValidator     *validator.Validate
	fieldValidatorOnce sync.Once
)

// getFieldValidator returns the shared validator instance for soft-field
// format checks.
func getFieldValidator() *validator.Validate {
	fieldValidatorOnce.Do(func() {
		fieldValidator = validator.New(validator.WithRequiredStructEnabled())
	})
	return fieldValidator
}

// ParseEmail validates and normalizes an email address. Soft field: a
// failed parse never affects record admission.
func ParseEmail(s string) (string, bool) {
	if isNoValue(s) {
		return "", false
	}
	email := strings.ToLower(strings.TrimSpace(s))
	if err := getFieldValidator().Var(email, "email"); err != nil {
		return "", false
	}
	return email, true
}

// ParsePhone normalizes a phone number to its digits (keeping a leading
// +). Numbers outside 7-15 digits are rejected. Soft field.
func ParsePhone(s string) (string, bool) {
	if isNoValue(s) {
		return "", false
	}
	var b strings.Builder
	for i, r := range strings.TrimSpace(s) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
			// separators are dropped
		default:
			return "", false
		}
	}
	digits := strings.TrimPrefix(b.String(), "+")
	if len(digits) < 7 || len(digits) > 15 {
		return "", false
	}
	return b.String(), true
}

// parseBoolFlag interprets source anomaly flags ("1", "true", "yes").
func parseBoolFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}

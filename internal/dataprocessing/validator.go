package dataprocessing

import (
	"context"
	"log/slog"

	"bankpipe/pkg/contracts/domain"
)

// Canonical violation reasons. The summary aggregates counts per reason,
// so these strings are stable identifiers, not free-form messages.
const (
	ReasonDepositNotPositive = "Deposit amount must be positive"
	ReasonNegativeAmount     = "Transaction amount must not be negative"
	ReasonAgeOutOfRange      = "Age outside valid range [18, 120]"
	ReasonMissingIdentity    = "Missing or invalid identity field"
	ReasonBalanceMismatch    = "Account balance inconsistent with running balance"
	ReasonNegativeBalance    = "Negative account balance"
)

// Age admission bounds for valid records.
const (
	MinAge = 18
	MaxAge = 120
)

// ValidationSummary aggregates the outcome of a validation pass.
type ValidationSummary struct {
	Total    int            `json:"total"`
	Valid    int            `json:"valid"`
	Invalid  int            `json:"invalid"`
	ByReason map[string]int `json:"by_reason"`
}

// ValidationResult carries the valid record set, every issue found, and
// the aggregate summary. The valid set is sorted by (customerId asc,
// transactionDate asc) for deterministic downstream processing.
type ValidationResult struct {
	Valid   []domain.Transaction
	Issues  []domain.ValidationIssue
	Summary ValidationSummary
}

// ValidatorConfig holds validation policy knobs.
type ValidatorConfig struct {
	// Epsilon is the absolute tolerance for the balance-chain check.
	Epsilon float64
	// StrictIdentity additionally requires a source transaction id.
	StrictIdentity bool
}

// DefaultValidatorConfig returns the standard policy.
func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{Epsilon: BalanceEpsilon}
}

// Validator applies the business rules to cleaned records. Each rule can
// fire independently, so one record may accrue several issues. Severity
// error excludes the record from the valid set, except the balance
// mismatch signal which is retained for downstream analytics; warnings
// never exclude.
type Validator struct {
	cfg    ValidatorConfig
	logger *slog.Logger
}

// NewValidator creates a validator with the given policy.
func NewValidator(logger *slog.Logger, cfg ValidatorConfig) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = BalanceEpsilon
	}
	return &Validator{cfg: cfg, logger: logger}
}

// balanceState is the explicit per-customer running-balance accumulator
// threaded through the pass.
type balanceState struct {
	running float64
	seeded  bool
}

// Validate checks every record, building the per-customer running-balance
// map incrementally as records are processed in ascending (customerId,
// transactionDate) order.
func (v *Validator) Validate(ctx context.Context, records []domain.Transaction) ValidationResult {
	ordered := make([]domain.Transaction, len(records))
	copy(ordered, records)
	sortByCustomerDate(ordered)

	result := ValidationResult{
		Summary: ValidationSummary{
			Total:    len(ordered),
			ByReason: make(map[string]int),
		},
	}
	balances := make(map[int64]*balanceState)

	for _, tx := range ordered {
		drop := false

		report := func(field string, value interface{}, reason string, severity domain.Severity) {
			result.Issues = append(result.Issues, domain.ValidationIssue{
				RecordIndex: tx.Row,
				CustomerID:  tx.CustomerID,
				Field:       field,
				Value:       value,
				Reason:      reason,
				Severity:    severity,
			})
			result.Summary.ByReason[reason]++
		}

		if tx.CustomerID <= 0 || tx.Date.IsZero() || (v.cfg.StrictIdentity && tx.TransactionID == "") {
			report("customerId", tx.CustomerID, ReasonMissingIdentity, domain.SeverityError)
			drop = true
		}
		if tx.Amount < 0 {
			report("transactionAmount", tx.Amount, ReasonNegativeAmount, domain.SeverityError)
			drop = true
		}
		if tx.Type == domain.TypeDeposit && tx.Amount <= 0 {
			report("transactionAmount", tx.Amount, ReasonDepositNotPositive, domain.SeverityError)
			drop = true
		}
		if tx.HasAge() && (*tx.Age < MinAge || *tx.Age > MaxAge) {
			report("age", *tx.Age, ReasonAgeOutOfRange, domain.SeverityError)
			drop = true
		}
		if tx.HasBalance() && *tx.BalanceAfter < 0 {
			// Overdrafts may be legitimate: warn, never drop.
			report("accountBalanceAfter", *tx.BalanceAfter, ReasonNegativeBalance, domain.SeverityWarning)
		}

		// Non-destructive balance-chain check. The record is retained on
		// mismatch so analytics can still surface it as a signal, and the
		// chain continues from the observed balance so one bad row does
		// not cascade onto every subsequent row.
		if tx.HasBalance() {
			st, ok := balances[tx.CustomerID]
			if !ok {
				st = &balanceState{}
				balances[tx.CustomerID] = st
			}
			observed := *tx.BalanceAfter
			switch {
			case !st.seeded:
				st.seeded = true
			case tx.Type == domain.TypeTransfer:
				// Trusted as-is, no discrepancy check.
			default:
				expected := st.running + float64(tx.Type.BalanceSign())*tx.Amount
				if diff := expected - observed; diff > v.cfg.Epsilon || diff < -v.cfg.Epsilon {
					report("accountBalanceAfter", observed, ReasonBalanceMismatch, domain.SeverityError)
				}
			}
			st.running = observed
		}

		if !drop {
			result.Valid = append(result.Valid, tx)
		}
	}

	result.Summary.Valid = len(result.Valid)
	result.Summary.Invalid = result.Summary.Total - result.Summary.Valid

	v.logger.InfoContext(ctx, "validation complete",
		slog.Int("total", result.Summary.Total),
		slog.Int("valid", result.Summary.Valid),
		slog.Int("invalid", result.Summary.Invalid),
		slog.Int("issues", len(result.Issues)))

	return result
}

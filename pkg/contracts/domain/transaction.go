package domain

import (
	"time"
)

// TransactionType classifies the direction/kind of a banking transaction.
type TransactionType string

const (
	TypeDeposit    TransactionType = "Deposit"
	TypeWithdrawal TransactionType = "Withdrawal"
	TypeTransfer   TransactionType = "Transfer"
	TypePayment    TransactionType = "Payment"
	TypeFee        TransactionType = "Fee"
	TypeOther      TransactionType = "Other"
)

// BalanceSign returns the multiplier the transaction applies to a running
// account balance: +1 for deposits, -1 for withdrawals, payments and fees,
// 0 for transfers (direction unknown) and unclassified types.
func (t TransactionType) BalanceSign() int {
	switch t {
	case TypeDeposit:
		return 1
	case TypeWithdrawal, TypePayment, TypeFee:
		return -1
	default:
		return 0
	}
}

// Gender is the normalized gender attribute of the account holder.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Transaction is a cleaned, typed banking transaction record.
// Amount is a magnitude; balance direction is derived from Type.
// Optional fields use pointers so that "absent" is distinguishable from zero.
type Transaction struct {
	Row           int             `json:"row" csv:"Row"` // original row ordinal within the source
	CustomerID    int64           `json:"customer_id" csv:"CustomerID" validate:"required,gt=0"`
	TransactionID string          `json:"transaction_id,omitempty" csv:"TransactionID"`
	Date          time.Time       `json:"date" csv:"Date"`
	Type          TransactionType `json:"type" csv:"Type"`
	Amount        float64         `json:"amount" csv:"Amount" validate:"gte=0"`
	BalanceAfter  *float64        `json:"balance_after,omitempty" csv:"BalanceAfter"`

	Age                *int       `json:"age,omitempty" csv:"Age"`
	Gender             Gender     `json:"gender,omitempty" csv:"Gender"`
	AccountType        string     `json:"account_type,omitempty" csv:"AccountType"`
	BranchID           string     `json:"branch_id,omitempty" csv:"BranchID"`
	AccountOpeningDate *time.Time `json:"account_opening_date,omitempty" csv:"AccountOpeningDate"`

	// Pass-through attributes, parsed but outside the business rules.
	Email         string   `json:"email,omitempty" csv:"Email"`
	Phone         string   `json:"phone,omitempty" csv:"Phone"`
	City          string   `json:"city,omitempty" csv:"City"`
	LoanAmount    *float64 `json:"loan_amount,omitempty" csv:"LoanAmount"`
	CardType      string   `json:"card_type,omitempty" csv:"CardType"`
	FeedbackScore *int     `json:"feedback_score,omitempty" csv:"FeedbackScore"`

	// SourceAnomalyFlag is set when the source data itself marked the
	// record as anomalous (anomaly=1 column).
	SourceAnomalyFlag bool `json:"source_anomaly_flag,omitempty" csv:"SourceAnomalyFlag"`
}

// HasBalance reports whether the source supplied a post-transaction balance.
func (t Transaction) HasBalance() bool {
	return t.BalanceAfter != nil
}

// HasAge reports whether the source supplied an age for this record.
func (t Transaction) HasAge() bool {
	return t.Age != nil
}

// Branch returns the branch identifier, or the presentation default when
// the source left it blank.
func (t Transaction) Branch() string {
	if t.BranchID == "" {
		return "Unknown"
	}
	return t.BranchID
}

// MonthKey returns the calendar month of the transaction as "YYYY-MM".
func (t Transaction) MonthKey() string {
	return t.Date.Format("2006-01")
}

// IsValid checks the minimal identity invariants every cleaned record
// must satisfy before it is admitted to validation.
func (t Transaction) IsValid() bool {
	return t.CustomerID > 0 && !t.Date.IsZero() && t.Amount >= 0
}

// Severity classifies a validation issue.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ValidationIssue describes a single business-rule violation found in a
// cleaned record. Issues are immutable once emitted.
type ValidationIssue struct {
	RecordIndex int         `json:"record_index" csv:"RecordIndex"`
	CustomerID  int64       `json:"customer_id" csv:"CustomerID"`
	Field       string      `json:"field" csv:"Field"`
	Value       interface{} `json:"value,omitempty" csv:"Value"`
	Reason      string      `json:"reason" csv:"Reason"`
	Severity    Severity    `json:"severity" csv:"Severity"`
}

// Error implements the error interface.
func (v ValidationIssue) Error() string {
	return v.Reason
}

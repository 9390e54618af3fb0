package dataprocessing

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"bankpipe/pkg/contracts/domain"
)

// RawRow is one tokenized source row: column name to string value.
// Columns not present in the map are treated as absent, not empty.
type RawRow map[string]string

// Logical field names used by the alias table.
const (
	FieldCustomerID         = "customer_id"
	FieldTransactionID      = "transaction_id"
	FieldTransactionDate    = "transaction_date"
	FieldTransactionType    = "transaction_type"
	FieldTransactionAmount  = "transaction_amount"
	FieldAccountBalance     = "account_balance"
	FieldAge                = "age"
	FieldGender             = "gender"
	FieldAccountType        = "account_type"
	FieldBranchID           = "branch_id"
	FieldAccountOpeningDate = "account_opening_date"
	FieldEmail              = "email"
	FieldPhone              = "phone"
	FieldCity               = "city"
	FieldLoanAmount         = "loan_amount"
	FieldCardType           = "card_type"
	FieldFeedbackScore      = "feedback_score"
	FieldAnomalyFlag        = "anomaly"
)

// AliasTable maps each logical field to its accepted column-name aliases
// in preference order: when several aliases are populated with different
// values, the first-listed alias wins.
type AliasTable map[string][]string

// DefaultAliases returns the column-name aliases observed across the
// supported source exports.
func DefaultAliases() AliasTable {
	return AliasTable{
		FieldCustomerID:         {"Customer ID", "CustomerID", "customer_id", "CustID"},
		FieldTransactionID:      {"Transaction ID", "TransactionID", "transaction_id", "TxnID"},
		FieldTransactionDate:    {"Transaction Date", "TransactionDate", "transaction_date", "Date"},
		FieldTransactionType:    {"Transaction Type", "TransactionType", "transaction_type", "Type"},
		FieldTransactionAmount:  {"Transaction Amount", "TransactionAmount", "transaction_amount", "Amount"},
		FieldAccountBalance:     {"Account Balance After Transaction", "Account Balance", "AccountBalance", "Balance After Transaction", "Balance"},
		FieldAge:                {"Age", "Customer Age", "age"},
		FieldGender:             {"Gender", "Sex", "gender"},
		FieldAccountType:        {"Account Type", "AccountType", "account_type"},
		FieldBranchID:           {"Branch ID", "BranchID", "Branch Code", "branch_id", "Branch"},
		FieldAccountOpeningDate: {"Account Opening Date", "AccountOpeningDate", "Opening Date"},
		FieldEmail:              {"Email", "Email Address", "email"},
		FieldPhone:              {"Phone", "Phone Number", "Contact Number", "phone"},
		FieldCity:               {"City", "Customer City", "city"},
		FieldLoanAmount:         {"Loan Amount", "LoanAmount", "loan_amount"},
		FieldCardType:           {"Card Type", "CardType", "card_type"},
		FieldFeedbackScore:      {"Feedback Score", "FeedbackScore", "feedback_score"},
		FieldAnomalyFlag:        {"Anomaly", "Is Anomaly", "anomaly", "Anomaly Flag"},
	}
}

// resolve returns the first populated alias for the logical field.
// Present-but-empty values still count as present so that empty strings
// flow through the field parsers' no-value handling.
func (a AliasTable) resolve(row RawRow, field string) (string, bool) {
	for _, alias := range a[field] {
		if v, ok := row[alias]; ok {
			return v, true
		}
	}
	return "", false
}

// CleanerConfig holds the policy knobs for record cleaning.
type CleanerConfig struct {
	// StrictTypes rejects rows whose transaction type is unrecognized
	// instead of defaulting them to Other.
	StrictTypes bool
	// DateOrder selects the slash-pattern priority for ambiguous dates.
	DateOrder DateOrder
	// Workers caps the parallelism of CleanAll. Zero means GOMAXPROCS.
	Workers int
}

// DefaultCleanerConfig returns the lenient cleaning policy.
func DefaultCleanerConfig() CleanerConfig {
	return CleanerConfig{
		StrictTypes: false,
		DateOrder:   DateOrderMDY,
	}
}

// Cleaner maps raw string-keyed rows onto typed transactions, applying
// field parsers and the admission rule for required identity fields.
// A Cleaner is pure per row: no cross-row state is consulted.
type Cleaner struct {
	aliases AliasTable
	cfg     CleanerConfig
	logger  *slog.Logger
}

// NewCleaner creates a cleaner with the given aliases and policy.
func NewCleaner(logger *slog.Logger, aliases AliasTable, cfg CleanerConfig) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	if aliases == nil {
		aliases = DefaultAliases()
	}
	if cfg.DateOrder == "" {
		cfg.DateOrder = DateOrderMDY
	}
	return &Cleaner{aliases: aliases, cfg: cfg, logger: logger}
}

// Clean converts one raw row to a typed transaction. ok=false means the
// row was rejected: a required identity field (customer id, date, amount)
// could not be parsed, or the type was unrecognized under StrictTypes.
// Rejections are counted in aggregate by the caller, never turned into
// validation issues.
func (c *Cleaner) Clean(row RawRow, index int) (domain.Transaction, bool) {
	tx := domain.Transaction{Row: index, Gender: domain.GenderOther}

	raw, ok := c.aliases.resolve(row, FieldCustomerID)
	if !ok {
		return tx, false
	}
	customerID, ok := ParseInt(raw)
	if !ok || customerID <= 0 {
		return tx, false
	}
	tx.CustomerID = customerID

	raw, ok = c.aliases.resolve(row, FieldTransactionDate)
	if !ok {
		return tx, false
	}
	date, ok := ParseDate(raw, c.cfg.DateOrder)
	if !ok {
		return tx, false
	}
	tx.Date = date

	raw, ok = c.aliases.resolve(row, FieldTransactionAmount)
	if !ok {
		return tx, false
	}
	amount, ok := ParseAmount(raw)
	if !ok {
		return tx, false
	}
	tx.Amount = amount

	if raw, ok := c.aliases.resolve(row, FieldTransactionType); ok {
		if c.cfg.StrictTypes {
			t, ok := ParseTransactionType(raw)
			if !ok {
				return tx, false
			}
			tx.Type = t
		} else {
			tx.Type = NormalizeTransactionType(raw)
		}
	} else if c.cfg.StrictTypes {
		return tx, false
	} else {
		tx.Type = domain.TypeOther
	}

	// Everything below is optional: a failed parse yields field-absent,
	// never rejection.
	if raw, ok := c.aliases.resolve(row, FieldTransactionID); ok && !isNoValue(raw) {
		tx.TransactionID = raw
	}
	if raw, ok := c.aliases.resolve(row, FieldAccountBalance); ok {
		if v, ok := ParseAmount(raw); ok {
			tx.BalanceAfter = &v
		}
	}
	if raw, ok := c.aliases.resolve(row, FieldAge); ok {
		if v, ok := ParseInt(raw); ok {
			age := int(v)
			tx.Age = &age
		}
	}
	if raw, ok := c.aliases.resolve(row, FieldGender); ok {
		tx.Gender = NormalizeGender(raw)
	}
	if raw, ok := c.aliases.resolve(row, FieldAccountType); ok && !isNoValue(raw) {
		tx.AccountType = raw
	}
	if raw, ok := c.aliases.resolve(row, FieldBranchID); ok && !isNoValue(raw) {
		tx.BranchID = raw
	}
	if raw, ok := c.aliases.resolve(row, FieldAccountOpeningDate); ok {
		if v, ok := ParseDate(raw, c.cfg.DateOrder); ok {
			tx.AccountOpeningDate = &v
		}
	}
	if raw, ok := c.aliases.resolve(row, FieldEmail); ok {
		if v, ok := ParseEmail(raw); ok {
			tx.Email = v
		}
	}
	if raw, ok := c.aliases.resolve(row, FieldPhone); ok {
		if v, ok := ParsePhone(raw); ok {
			tx.Phone = v
		}
	}
	if raw, ok := c.aliases.resolve(row, FieldCity); ok && !isNoValue(raw) {
		tx.City = raw
	}
	if raw, ok := c.aliases.resolve(row, FieldLoanAmount); ok {
		if v, ok := ParseAmount(raw); ok {
			tx.LoanAmount = &v
		}
	}
	if raw, ok := c.aliases.resolve(row, FieldCardType); ok && !isNoValue(raw) {
		tx.CardType = raw
	}
	if raw, ok := c.aliases.resolve(row, FieldFeedbackScore); ok {
		if v, ok := ParseInt(raw); ok {
			score := int(v)
			tx.FeedbackScore = &score
		}
	}
	if raw, ok := c.aliases.resolve(row, FieldAnomalyFlag); ok {
		tx.SourceAnomalyFlag = parseBoolFlag(raw)
	}

	return tx, true
}

// CleanAll cleans every row, preserving source order in the output.
// Cleaning has no cross-row dependency, so rows are processed in parallel
// chunks. Returns the admitted records and the count of rejected rows.
func (c *Cleaner) CleanAll(ctx context.Context, rows []RawRow) ([]domain.Transaction, int, error) {
	workers := c.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*domain.Transaction, len(rows))
	var rejected int64
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	chunk := (len(rows) + workers - 1) / workers
	if chunk == 0 {
		chunk = 1
	}
	for start := 0; start < len(rows); start += chunk {
		end := start + chunk
		if end > len(rows) {
			end = len(rows)
		}
		start, end := start, end
		g.Go(func() error {
			local := 0
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if tx, ok := c.Clean(rows[i], i); ok {
					t := tx
					results[i] = &t
				} else {
					local++
				}
			}
			mu.Lock()
			rejected += int64(local)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	cleaned := make([]domain.Transaction, 0, len(rows))
	for _, r := range results {
		if r != nil {
			cleaned = append(cleaned, *r)
		}
	}

	c.logger.InfoContext(ctx, "cleaning complete",
		slog.Int("total_rows", len(rows)),
		slog.Int("cleaned", len(cleaned)),
		slog.Int64("rejected", rejected))

	return cleaned, int(rejected), nil
}

package dataprocessing

import (
	"context"
	"log/slog"
	"sort"
	"strconv"

	"bankpipe/pkg/contracts/domain"
)

// BalanceEpsilon is the absolute tolerance for balance-chain checks.
const BalanceEpsilon = 0.01

// Corrector runs the dataset-wide corrective passes over cleaned records:
// age-consistency correction, duplicate removal, and (when explicitly
// requested) destructive balance-chain reconciliation. Each pass threads
// explicit per-customer accumulators instead of shared state, so grouped
// work stays independent across customers.
type Corrector struct {
	epsilon float64
	logger  *slog.Logger
}

// NewCorrector creates a corrector with the given balance tolerance.
// A non-positive epsilon falls back to BalanceEpsilon.
func NewCorrector(logger *slog.Logger, epsilon float64) *Corrector {
	if logger == nil {
		logger = slog.Default()
	}
	if epsilon <= 0 {
		epsilon = BalanceEpsilon
	}
	return &Corrector{epsilon: epsilon, logger: logger}
}

// ageFrequency accumulates age observations for a single customer in
// encounter order.
type ageFrequency struct {
	counts map[int]int
	order  []int // distinct ages in first-seen order, the tie-break
}

func (f *ageFrequency) observe(age int) {
	if f.counts == nil {
		f.counts = make(map[int]int)
	}
	if _, seen := f.counts[age]; !seen {
		f.order = append(f.order, age)
	}
	f.counts[age]++
}

// mode returns the most frequent age; ties resolve to the first value
// that reached the maximum frequency in encounter order.
func (f *ageFrequency) mode() int {
	best, bestCount := 0, 0
	for _, age := range f.order {
		if f.counts[age] > bestCount {
			best, bestCount = age, f.counts[age]
		}
	}
	return best
}

// CorrectAges collapses each customer's age to the mode of the observed
// values. Customers with a single distinct age are untouched. The input
// slice is not mutated; a corrected copy is returned together with one
// correction event per affected customer.
func (c *Corrector) CorrectAges(ctx context.Context, records []domain.Transaction) ([]domain.Transaction, []domain.AgeCorrection) {
	freq := make(map[int64]*ageFrequency)
	var customerOrder []int64
	for _, tx := range records {
		if !tx.HasAge() {
			continue
		}
		f, ok := freq[tx.CustomerID]
		if !ok {
			f = &ageFrequency{}
			freq[tx.CustomerID] = f
			customerOrder = append(customerOrder, tx.CustomerID)
		}
		f.observe(*tx.Age)
	}

	corrections := make(map[int64]int)
	var events []domain.AgeCorrection
	for _, id := range customerOrder {
		f := freq[id]
		if len(f.order) < 2 {
			continue
		}
		mode := f.mode()
		corrections[id] = mode
		events = append(events, domain.AgeCorrection{
			CustomerID:   id,
			DistinctAges: append([]int(nil), f.order...),
			CorrectedTo:  mode,
		})
	}

	if len(corrections) == 0 {
		return records, nil
	}

	corrected := make([]domain.Transaction, len(records))
	copy(corrected, records)
	for i := range corrected {
		if mode, ok := corrections[corrected[i].CustomerID]; ok {
			age := mode
			corrected[i].Age = &age
		}
	}

	c.logger.InfoContext(ctx, "age correction complete",
		slog.Int("customers_corrected", len(events)))

	return corrected, events
}

// identityKey computes the stable duplicate-detection key: the source
// transaction id when present, otherwise a composite of the fields that
// identify a transaction.
func identityKey(tx domain.Transaction) string {
	if tx.TransactionID != "" {
		return "id:" + tx.TransactionID
	}
	return strconv.FormatInt(tx.CustomerID, 10) + "|" +
		strconv.FormatInt(tx.Date.UnixMilli(), 10) + "|" +
		string(tx.Type) + "|" +
		strconv.FormatFloat(tx.Amount, 'f', -1, 64) + "|" +
		tx.BranchID
}

// RemoveDuplicates scans records in original order, keeps the first
// occurrence of each identity key and reports every later occurrence as
// a duplicate. Idempotent: rerunning on its own output removes nothing.
func (c *Corrector) RemoveDuplicates(ctx context.Context, records []domain.Transaction) ([]domain.Transaction, []domain.DuplicateRecord) {
	seen := make(map[string]bool, len(records))
	kept := make([]domain.Transaction, 0, len(records))
	var duplicates []domain.DuplicateRecord

	for _, tx := range records {
		key := identityKey(tx)
		if seen[key] {
			duplicates = append(duplicates, domain.DuplicateRecord{Key: key, Record: tx})
			continue
		}
		seen[key] = true
		kept = append(kept, tx)
	}

	c.logger.InfoContext(ctx, "deduplication complete",
		slog.Int("kept", len(kept)),
		slog.Int("removed", len(duplicates)))

	return kept, duplicates
}

// sortByCustomerDate orders records by (customerId asc, transactionDate
// asc), stable so equal keys keep original row order.
func sortByCustomerDate(records []domain.Transaction) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].CustomerID != records[j].CustomerID {
			return records[i].CustomerID < records[j].CustomerID
		}
		return records[i].Date.Before(records[j].Date)
	})
}

// ReconcileBalances is the destructive reconciliation pass: per customer,
// ordered by transaction date (original row order as tie-break), the
// running balance is seeded from the first reported post-transaction
// balance and every subsequent reported balance is overwritten with the
// recomputed expected chain. Transfers are trusted as-is since their
// direction is unknown. Must not be combined with the validator's
// non-destructive balance check on the same pass.
func (c *Corrector) ReconcileBalances(ctx context.Context, records []domain.Transaction) ([]domain.Transaction, int) {
	out := make([]domain.Transaction, len(records))
	copy(out, records)
	sortByCustomerDate(out)

	type chain struct {
		running float64
		seeded  bool
	}
	chains := make(map[int64]*chain)
	rewritten := 0

	for i := range out {
		tx := &out[i]
		if !tx.HasBalance() {
			continue
		}
		ch, ok := chains[tx.CustomerID]
		if !ok {
			ch = &chain{}
			chains[tx.CustomerID] = ch
		}
		observed := *tx.BalanceAfter

		if !ch.seeded {
			ch.running = observed
			ch.seeded = true
			continue
		}
		if tx.Type == domain.TypeTransfer {
			// Direction unknown: the reported balance becomes the new
			// running value, no correction.
			ch.running = observed
			continue
		}
		expected := ch.running + float64(tx.Type.BalanceSign())*tx.Amount
		if diff := expected - observed; diff > c.epsilon || diff < -c.epsilon {
			v := expected
			tx.BalanceAfter = &v
			rewritten++
		}
		ch.running = expected
	}

	c.logger.InfoContext(ctx, "balance reconciliation complete",
		slog.Int("balances_rewritten", rewritten))

	return out, rewritten
}

package analytics

import (
	"sort"

	"bankpipe/pkg/contracts/domain"
)

// SeasonalTrends groups the whole dataset by calendar month (not per
// branch) and reports volume, count, average amount and the sub-counts
// for the main transaction types, sorted chronologically.
func (e *Engine) SeasonalTrends(records []domain.Transaction) []domain.SeasonalTrend {
	agg := make(map[string]*domain.SeasonalTrend)
	for _, tx := range records {
		month := tx.MonthKey()
		t, ok := agg[month]
		if !ok {
			t = &domain.SeasonalTrend{Month: month}
			agg[month] = t
		}
		t.TotalVolume += tx.Amount
		t.TransactionCount++
		switch tx.Type {
		case domain.TypeDeposit:
			t.DepositCount++
		case domain.TypeWithdrawal:
			t.WithdrawalCount++
		case domain.TypeTransfer:
			t.TransferCount++
		}
	}

	out := make([]domain.SeasonalTrend, 0, len(agg))
	for _, t := range agg {
		if t.TransactionCount > 0 {
			t.AvgAmount = t.TotalVolume / float64(t.TransactionCount)
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

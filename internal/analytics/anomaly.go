package analytics

import (
	"math"
	"sort"
	"time"

	"bankpipe/pkg/contracts/domain"
)

// Anomaly reasons, appended in the fixed evaluation order of the signals.
const (
	ReasonSourceFlagged    = "flagged anomalous in source data"
	ReasonGlobalOutlier    = "amount is a dataset-wide outlier (|z| > 3)"
	ReasonPersonalOutlier  = "amount exceeds 5x customer's mean amount"
	ReasonDeepNegative     = "resulting balance below -1000"
	ReasonWithdrawalBurst  = "more than 5 withdrawals within 24 hours"
)

// customerStats holds per-customer accumulators used by the scoring pass.
type customerStats struct {
	count       int
	sum         float64
	withdrawals []time.Time // ascending
}

// DetectAnomalies scores every record against the full signal set. Each
// signal triggers independently, adds its fixed weight and appends its
// reason in evaluation order. Records with no triggered signal are not
// anomalies. Output is sorted by score descending; ties preserve input
// order.
func (e *Engine) DetectAnomalies(records []domain.Transaction) []domain.AnomalousTransaction {
	mean, std := meanStd(records)

	stats := make(map[int64]*customerStats)
	for _, tx := range records {
		st, ok := stats[tx.CustomerID]
		if !ok {
			st = &customerStats{}
			stats[tx.CustomerID] = st
		}
		st.count++
		st.sum += tx.Amount
		if tx.Type == domain.TypeWithdrawal {
			st.withdrawals = append(st.withdrawals, tx.Date)
		}
	}
	for _, st := range stats {
		sort.Slice(st.withdrawals, func(i, j int) bool {
			return st.withdrawals[i].Before(st.withdrawals[j])
		})
	}

	var out []domain.AnomalousTransaction
	for _, tx := range records {
		score := 0
		var reasons []string

		if tx.SourceAnomalyFlag {
			score += WeightSourceFlagged
			reasons = append(reasons, ReasonSourceFlagged)
		}
		if std > 0 && math.Abs((tx.Amount-mean)/std) > globalZThreshold {
			score += WeightGlobalZScore
			reasons = append(reasons, ReasonGlobalOutlier)
		}
		st := stats[tx.CustomerID]
		if st.count >= minRecordsForPersonal {
			personalMean := st.sum / float64(st.count)
			if personalMean > 0 && tx.Amount > personalMeanMultiple*personalMean {
				score += WeightPersonalMultiple
				reasons = append(reasons, ReasonPersonalOutlier)
			}
		}
		if tx.HasBalance() && *tx.BalanceAfter < deepNegativeBalance {
			score += WeightDeepNegative
			reasons = append(reasons, ReasonDeepNegative)
		}
		if countInWindow(st.withdrawals, tx.Date) > withdrawalBurstCount {
			score += WeightWithdrawalBurst
			reasons = append(reasons, ReasonWithdrawalBurst)
		}

		if score > 0 {
			out = append(out, domain.AnomalousTransaction{
				Transaction:    tx,
				AnomalyScore:   score,
				AnomalyReasons: reasons,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AnomalyScore > out[j].AnomalyScore
	})
	return out
}

// countInWindow counts withdrawals in the trailing 24h window ending at t
// inclusive. Times are ascending.
func countInWindow(times []time.Time, t time.Time) int {
	start := t.Add(-withdrawalBurstWindow)
	lo := sort.Search(len(times), func(i int) bool { return times[i].After(start) })
	hi := sort.Search(len(times), func(i int) bool { return times[i].After(t) })
	return hi - lo
}

// DetectByCustomerZScore is the simpler single-signal variant: a record
// is flagged when its z-score against the owning customer's personal
// mean/std reaches the threshold. Customers whose personal standard
// deviation is zero are skipped. A threshold <= 0 uses the configured
// default.
func (e *Engine) DetectByCustomerZScore(records []domain.Transaction, threshold float64) []domain.AnomalousTransaction {
	if threshold <= 0 {
		threshold = e.cfg.ZScoreThreshold
	}

	byCustomer := make(map[int64][]domain.Transaction)
	for _, tx := range records {
		byCustomer[tx.CustomerID] = append(byCustomer[tx.CustomerID], tx)
	}

	var out []domain.AnomalousTransaction
	for _, tx := range records {
		group := byCustomer[tx.CustomerID]
		mean, std := meanStd(group)
		if std == 0 {
			continue
		}
		z := math.Abs((tx.Amount - mean) / std)
		if z >= threshold {
			out = append(out, domain.AnomalousTransaction{
				Transaction:    tx,
				AnomalyScore:   int(math.Round(z * 10)),
				AnomalyReasons: []string{ReasonPersonalOutlier},
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AnomalyScore > out[j].AnomalyScore
	})
	return out
}

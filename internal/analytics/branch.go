package analytics

import (
	"sort"
	"time"

	"bankpipe/pkg/contracts/domain"
)

// branchAccumulator folds one branch's records.
type branchAccumulator struct {
	volume    float64
	count     int
	customers map[int64]bool
	recent    float64 // trailing 90-day volume
	previous  float64 // preceding 90-day volume
}

// BranchPerformances computes per-branch activity metrics and the
// composite performance score. The growth windows are anchored at the
// latest transaction date in the dataset, so the result is a pure
// function of its input. Output is sorted by score descending; ties
// preserve the order branches first appear in the input.
func (e *Engine) BranchPerformances(records []domain.Transaction) []domain.BranchPerformance {
	if len(records) == 0 {
		return nil
	}

	var latest time.Time
	for _, tx := range records {
		if tx.Date.After(latest) {
			latest = tx.Date
		}
	}
	recentStart := latest.AddDate(0, 0, -growthWindowDays)
	previousStart := latest.AddDate(0, 0, -2*growthWindowDays)

	acc := make(map[string]*branchAccumulator)
	var order []string
	for _, tx := range records {
		branch := tx.Branch()
		a, ok := acc[branch]
		if !ok {
			a = &branchAccumulator{customers: make(map[int64]bool)}
			acc[branch] = a
			order = append(order, branch)
		}
		a.volume += tx.Amount
		a.count++
		a.customers[tx.CustomerID] = true
		switch {
		case tx.Date.After(recentStart):
			a.recent += tx.Amount
		case tx.Date.After(previousStart):
			a.previous += tx.Amount
		}
	}

	out := make([]domain.BranchPerformance, 0, len(order))
	for _, branch := range order {
		a := acc[branch]
		growth := 0.0
		if a.previous > 0 {
			growth = (a.recent - a.previous) / a.previous * 100
		}
		avgTicket := 0.0
		if a.count > 0 {
			avgTicket = a.volume / float64(a.count)
		}
		out = append(out, domain.BranchPerformance{
			BranchID:         branch,
			TotalVolume:      a.volume,
			TransactionCount: a.count,
			UniqueCustomers:  len(a.customers),
			AvgTicketSize:    avgTicket,
			GrowthRate:       growth,
			PerformanceScore: performanceScore(a.volume, len(a.customers), growth, a.count),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PerformanceScore > out[j].PerformanceScore
	})
	return out
}

// performanceScore combines four independently capped sub-scores into a
// composite in [0,100]: volume (cap 30), customer reach (cap 30), growth
// (cap 20) and activity (cap 20).
func performanceScore(volume float64, uniqueCustomers int, growthRate float64, count int) float64 {
	score := capped(volume/1_000_000*20, volumeScoreCap) +
		capped(float64(uniqueCustomers)/100*20, customerScoreCap) +
		capped(maxFloat(growthRate, 0)/2, growthScoreCap) +
		capped(float64(count)/1000*20, countScoreCap)
	return score
}

func capped(v, cap float64) float64 {
	if v > cap {
		return cap
	}
	return v
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

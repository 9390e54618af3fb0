package analytics

import (
	"log/slog"
	"math"
	"sort"

	"bankpipe/pkg/contracts/domain"
)

// Engine computes derived business analytics from a validated record set.
// Every method is a pure function of its input: no shared mutable state
// survives across calls, and input records are never written back.
type Engine struct {
	cfg    Config
	logger *slog.Logger
}

// NewEngine creates an analytics engine. Invalid or zero config fields
// fall back to the defaults.
func NewEngine(logger *slog.Logger, cfg Config) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.IsValid() {
		def := DefaultConfig()
		def.Now = cfg.Now
		cfg = def
	}
	return &Engine{cfg: cfg, logger: logger}
}

// MonthlyVolumeByBranch groups records by (branch, calendar month) and
// accumulates the raw amount sum and count. Output is sorted by branch
// then month for stable presentation.
func (e *Engine) MonthlyVolumeByBranch(records []domain.Transaction) []domain.MonthlyBranchVolume {
	type key struct {
		branch string
		month  string
	}
	agg := make(map[key]*domain.MonthlyBranchVolume)
	var order []key
	for _, tx := range records {
		k := key{branch: tx.Branch(), month: tx.MonthKey()}
		v, ok := agg[k]
		if !ok {
			v = &domain.MonthlyBranchVolume{BranchID: k.branch, Month: k.month}
			agg[k] = v
			order = append(order, k)
		}
		v.TotalAmount += tx.Amount
		v.TransactionCount++
	}

	out := make([]domain.MonthlyBranchVolume, 0, len(order))
	for _, k := range order {
		out = append(out, *agg[k])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BranchID != out[j].BranchID {
			return out[i].BranchID < out[j].BranchID
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// meanStd computes the mean and population standard deviation of the
// transaction amounts.
func meanStd(records []domain.Transaction) (float64, float64) {
	if len(records) == 0 {
		return 0, 0
	}
	var sum float64
	for _, tx := range records {
		sum += tx.Amount
	}
	mean := sum / float64(len(records))
	var sq float64
	for _, tx := range records {
		d := tx.Amount - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(records)))
}

// round2 rounds to two decimal places, the presentation precision for
// monetary results.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

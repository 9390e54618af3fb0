package analytics

import (
	"math"
	"sort"

	"bankpipe/pkg/contracts/domain"
)

// Segment names produced by Segments.
const (
	SegmentHighValue = "High-Value"
	SegmentActive    = "Active"
)

// segmentAccumulator folds one customer's records for segmentation.
type segmentAccumulator struct {
	id          int64
	deposits    float64
	volume      float64
	count       int
	lastBalance *float64
}

// Segments ranks all customers by total deposit volume and by transaction
// count, cutting the top quantiles (ceiling rounding) into the High-Value
// and Active segments. The segments may overlap. Ties are broken by the
// order customers first appear in the input.
func (e *Engine) Segments(records []domain.Transaction) []domain.CustomerSegment {
	acc := make(map[int64]*segmentAccumulator)
	var order []*segmentAccumulator
	for _, tx := range records {
		a, ok := acc[tx.CustomerID]
		if !ok {
			a = &segmentAccumulator{id: tx.CustomerID}
			acc[tx.CustomerID] = a
			order = append(order, a)
		}
		if tx.Type == domain.TypeDeposit {
			a.deposits += tx.Amount
		}
		a.volume += tx.Amount
		a.count++
		if tx.HasBalance() {
			a.lastBalance = tx.BalanceAfter
		}
	}
	if len(order) == 0 {
		return nil
	}

	byDeposits := append([]*segmentAccumulator(nil), order...)
	sort.SliceStable(byDeposits, func(i, j int) bool {
		return byDeposits[i].deposits > byDeposits[j].deposits
	})
	highValueCount := quantileCount(len(order), e.cfg.HighValueQuantile)

	byCount := append([]*segmentAccumulator(nil), order...)
	sort.SliceStable(byCount, func(i, j int) bool {
		return byCount[i].count > byCount[j].count
	})
	activeCount := quantileCount(len(order), e.cfg.ActiveQuantile)

	return []domain.CustomerSegment{
		buildSegment(SegmentHighValue, byDeposits[:highValueCount]),
		buildSegment(SegmentActive, byCount[:activeCount]),
	}
}

// quantileCount returns ceil(n * q), at least 1 for non-empty input.
func quantileCount(n int, q float64) int {
	c := int(math.Ceil(float64(n) * q))
	if c < 1 {
		c = 1
	}
	if c > n {
		c = n
	}
	return c
}

func buildSegment(name string, members []*segmentAccumulator) domain.CustomerSegment {
	seg := domain.CustomerSegment{Name: name, MemberCount: len(members)}
	var balanceSum float64
	balanced := 0
	var amountSum float64
	txCount := 0
	for _, m := range members {
		seg.CustomerIDs = append(seg.CustomerIDs, m.id)
		seg.TotalVolume += m.volume
		amountSum += m.volume
		txCount += m.count
		if m.lastBalance != nil {
			balanceSum += *m.lastBalance
			balanced++
		}
	}
	if balanced > 0 {
		seg.AvgBalance = balanceSum / float64(balanced)
	}
	if txCount > 0 {
		seg.AvgTransaction = amountSum / float64(txCount)
	}
	return seg
}

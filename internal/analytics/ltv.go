package analytics

import (
	"sort"
	"time"

	"bankpipe/pkg/contracts/domain"
)

// Projection model constants: expected horizon of five years at an
// assumed 30% margin.
const (
	projectionHorizonMonths = 60
	projectionMargin        = 0.3
	daysPerMonth            = 30
)

// ltvAccumulator folds one customer's records for both LTV strategies.
type ltvAccumulator struct {
	deposits      float64
	withdrawals   float64
	transfers     float64
	depositCount  int
	count         int
	firstDate     time.Time
	opening       *time.Time
	lastByMonth   map[string]float64 // last known balance snapshot per month
	monthOrder    []string
}

func (a *ltvAccumulator) observe(tx domain.Transaction) {
	a.count++
	switch tx.Type {
	case domain.TypeDeposit:
		a.deposits += tx.Amount
		a.depositCount++
	case domain.TypeWithdrawal:
		a.withdrawals += tx.Amount
	case domain.TypeTransfer:
		a.transfers += tx.Amount
	}
	if a.firstDate.IsZero() || tx.Date.Before(a.firstDate) {
		a.firstDate = tx.Date
	}
	if a.opening == nil && tx.AccountOpeningDate != nil {
		a.opening = tx.AccountOpeningDate
	}
	if tx.HasBalance() {
		month := tx.MonthKey()
		if _, ok := a.lastByMonth[month]; !ok {
			a.monthOrder = append(a.monthOrder, month)
		}
		a.lastByMonth[month] = *tx.BalanceAfter
	}
}

// CustomerLTVs computes the lifetime value of every customer under the
// configured strategy. Records must be ordered by (customer, date) as
// produced by the validator so that "last balance of month" is well
// defined. Output is sorted by customer id.
func (e *Engine) CustomerLTVs(records []domain.Transaction) []domain.CustomerLTV {
	acc := make(map[int64]*ltvAccumulator)
	var order []int64
	for _, tx := range records {
		a, ok := acc[tx.CustomerID]
		if !ok {
			a = &ltvAccumulator{lastByMonth: make(map[string]float64)}
			acc[tx.CustomerID] = a
			order = append(order, tx.CustomerID)
		}
		a.observe(tx)
	}

	out := make([]domain.CustomerLTV, 0, len(order))
	for _, id := range order {
		a := acc[id]
		ltv := domain.CustomerLTV{
			CustomerID:       id,
			Model:            string(e.cfg.LTVModel),
			TotalDeposits:    a.deposits,
			TotalWithdrawals: a.withdrawals,
			TransactionCount: a.count,
		}
		switch e.cfg.LTVModel {
		case LTVModelProjection:
			ltv.LTV = e.projectionLTV(a)
		default:
			ltv.LTV = e.feeMarginLTV(a)
		}
		out = append(out, ltv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerID < out[j].CustomerID })
	return out
}

// feeMarginLTV: transaction fees by type plus a monthly balance margin on
// each calendar month that carries a balance snapshot, using the last
// known snapshot of that month. Negative balances earn no margin.
func (e *Engine) feeMarginLTV(a *ltvAccumulator) float64 {
	revenue := a.deposits*e.cfg.DepositFeeRate +
		a.withdrawals*e.cfg.WithdrawalFeeRate +
		a.transfers*e.cfg.TransferFeeRate
	for _, month := range a.monthOrder {
		if bal := a.lastByMonth[month]; bal > 0 {
			revenue += bal * e.cfg.MarginBps / 10000
		}
	}
	return round2(revenue)
}

// projectionLTV: net value plus projected future deposit margin over a
// five-year horizon at the customer's historical monthly transaction
// rate. When no account opening date was supplied the first transaction
// date anchors the account age.
func (e *Engine) projectionLTV(a *ltvAccumulator) float64 {
	netValue := a.deposits - a.withdrawals

	opened := a.firstDate
	if a.opening != nil {
		opened = *a.opening
	}
	ageMonths := e.cfg.now().Sub(opened).Hours() / (24 * daysPerMonth)
	if ageMonths < 1 {
		ageMonths = 1
	}
	monthlyRate := float64(a.count) / ageMonths
	expectedFuture := monthlyRate * projectionHorizonMonths

	var avgDeposit float64
	if a.depositCount > 0 {
		avgDeposit = a.deposits / float64(a.depositCount)
	}
	return round2(netValue + avgDeposit*expectedFuture*projectionMargin)
}

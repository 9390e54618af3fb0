package domain

// AnomalousTransaction pairs a transaction with its additive anomaly score
// and the human-readable reasons that contributed to it, in evaluation
// order. Recomputed from scratch on every analytics run.
type AnomalousTransaction struct {
	Transaction    Transaction `json:"transaction"`
	AnomalyScore   int         `json:"anomaly_score"`
	AnomalyReasons []string    `json:"anomaly_reasons"`
}

// MonthlyBranchVolume is the aggregate transaction volume for one branch
// in one calendar month.
type MonthlyBranchVolume struct {
	BranchID         string  `json:"branch_id"`
	Month            string  `json:"month"` // YYYY-MM
	TotalAmount      float64 `json:"total_amount"`
	TransactionCount int     `json:"transaction_count"`
}

// BranchPerformance captures per-branch activity metrics and the composite
// performance score in [0,100].
type BranchPerformance struct {
	BranchID         string  `json:"branch_id"`
	TotalVolume      float64 `json:"total_volume"`
	TransactionCount int     `json:"transaction_count"`
	UniqueCustomers  int     `json:"unique_customers"`
	AvgTicketSize    float64 `json:"avg_ticket_size"`
	GrowthRate       float64 `json:"growth_rate"` // trailing 90d vs preceding 90d, percent
	PerformanceScore float64 `json:"performance_score"`
}

// CustomerSegment is a named cohort of customers selected by a
// ranking-and-quantile rule.
type CustomerSegment struct {
	Name           string  `json:"name"`
	CustomerIDs    []int64 `json:"customer_ids"`
	MemberCount    int     `json:"member_count"`
	AvgBalance     float64 `json:"avg_balance"`
	AvgTransaction float64 `json:"avg_transaction"`
	TotalVolume    float64 `json:"total_volume"`
}

// SeasonalTrend aggregates activity for one calendar month across the
// whole dataset.
type SeasonalTrend struct {
	Month            string  `json:"month"` // YYYY-MM
	TotalVolume      float64 `json:"total_volume"`
	TransactionCount int     `json:"transaction_count"`
	AvgAmount        float64 `json:"avg_amount"`
	DepositCount     int     `json:"deposit_count"`
	WithdrawalCount  int     `json:"withdrawal_count"`
	TransferCount    int     `json:"transfer_count"`
}

// CustomerLTV is the projected lifetime value of a customer relationship
// under one of the configured revenue models.
type CustomerLTV struct {
	CustomerID       int64   `json:"customer_id"`
	Model            string  `json:"model"`
	LTV              float64 `json:"ltv"`
	TotalDeposits    float64 `json:"total_deposits"`
	TotalWithdrawals float64 `json:"total_withdrawals"`
	TransactionCount int     `json:"transaction_count"`
}

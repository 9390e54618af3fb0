package analytics

import (
	"time"
)

// LTVModel names one of the two configured lifetime-value strategies.
// The two models encode different business assumptions and are selected
// by configuration, never averaged.
type LTVModel string

const (
	// LTVModelFees is the fee-and-margin revenue model.
	LTVModelFees LTVModel = "fees"
	// LTVModelProjection is the net-value projection model.
	LTVModelProjection LTVModel = "projection"
)

// Anomaly signal weights, applied in evaluation order.
const (
	WeightSourceFlagged    = 50 // source data flagged the record anomalous
	WeightGlobalZScore     = 30 // |z| > 3 against dataset-wide mean/std
	WeightPersonalMultiple = 20 // amount > 5x the customer's mean amount
	WeightDeepNegative     = 25 // post-transaction balance below -1000
	WeightWithdrawalBurst  = 15 // >5 withdrawals in a trailing 24h window
)

// Fixed thresholds for the anomaly signals.
const (
	globalZThreshold       = 3.0
	personalMeanMultiple   = 5.0
	deepNegativeBalance    = -1000.0
	withdrawalBurstCount   = 5
	withdrawalBurstWindow  = 24 * time.Hour
	minRecordsForPersonal  = 2
)

// Branch performance sub-score caps. The four independently capped
// sub-scores sum to at most 100.
const (
	volumeScoreCap    = 30.0
	customerScoreCap  = 30.0
	growthScoreCap    = 20.0
	countScoreCap     = 20.0
	growthWindowDays  = 90
)

// Config holds the tunable parameters of the analytics engine.
type Config struct {
	// Fee-and-margin LTV rates.
	DepositFeeRate    float64 `json:"deposit_fee_rate"`
	WithdrawalFeeRate float64 `json:"withdrawal_fee_rate"`
	TransferFeeRate   float64 `json:"transfer_fee_rate"`
	MarginBps         float64 `json:"margin_bps"` // monthly balance margin, basis points

	// LTVModel selects the lifetime-value strategy.
	LTVModel LTVModel `json:"ltv_model"`

	// ZScoreThreshold is the per-customer threshold for the single-signal
	// anomaly variant.
	ZScoreThreshold float64 `json:"z_score_threshold"`

	// Segmentation quantiles.
	HighValueQuantile float64 `json:"high_value_quantile"` // top share by deposit volume
	ActiveQuantile    float64 `json:"active_quantile"`     // top share by transaction count

	// Now anchors the projection LTV model's account-age computation.
	// Zero means time.Now at call time; tests pin it for determinism.
	Now time.Time `json:"-"`
}

// DefaultConfig returns the standard analytics parameters.
func DefaultConfig() Config {
	return Config{
		DepositFeeRate:    0.001,  // 0.1%
		WithdrawalFeeRate: 0.001,  // 0.1%
		TransferFeeRate:   0.0005, // 0.05%
		MarginBps:         10,     // 10 bps per month
		LTVModel:          LTVModelFees,
		ZScoreThreshold:   3,
		HighValueQuantile: 0.20,
		ActiveQuantile:    0.30,
	}
}

// IsValid checks that the configuration is usable.
func (c Config) IsValid() bool {
	return c.DepositFeeRate >= 0 && c.WithdrawalFeeRate >= 0 && c.TransferFeeRate >= 0 &&
		c.MarginBps >= 0 && c.ZScoreThreshold > 0 &&
		c.HighValueQuantile > 0 && c.HighValueQuantile <= 1 &&
		c.ActiveQuantile > 0 && c.ActiveQuantile <= 1 &&
		(c.LTVModel == LTVModelFees || c.LTVModel == LTVModelProjection)
}

// now resolves the time anchor for projection calculations.
func (c Config) now() time.Time {
	if c.Now.IsZero() {
		return time.Now()
	}
	return c.Now
}

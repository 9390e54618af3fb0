package domain

// ProcessingReport aggregates the outcome of a full pipeline run over a
// raw dataset: cleaning admission, corrective passes and validation.
type ProcessingReport struct {
	TotalRawRecords     int            `json:"total_raw_records"`
	SuccessfullyCleaned int            `json:"successfully_cleaned"`
	AgeCorrections      int            `json:"age_corrections"`
	DuplicatesRemoved   int            `json:"duplicates_removed"`
	BalancesRewritten   int            `json:"balances_rewritten,omitempty"`
	ValidRecords        int            `json:"valid_records"`
	InvalidRecords      int            `json:"invalid_records"`
	ErrorsByType        map[string]int `json:"errors_by_type"`
}

// CouldNotClean returns the number of raw rows rejected during cleaning
// because a required identity field could not be resolved.
func (r ProcessingReport) CouldNotClean() int {
	return r.TotalRawRecords - r.SuccessfullyCleaned
}

// AgeCorrection records a corrective event where a customer's ages were
// collapsed to the mode of the observed values.
type AgeCorrection struct {
	CustomerID   int64 `json:"customer_id"`
	DistinctAges []int `json:"distinct_ages_observed"`
	CorrectedTo  int   `json:"corrected_to"`
}

// DuplicateRecord reports a record removed by the deduplication pass,
// together with the identity key it collided on.
type DuplicateRecord struct {
	Key    string      `json:"key"`
	Record Transaction `json:"record"`
}

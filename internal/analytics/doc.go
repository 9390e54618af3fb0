// Package analytics derives business metrics from the validated
// transaction set: monthly branch volume, anomaly scores, customer
// lifetime value, branch performance scores, customer segments and
// seasonal trends.
//
// Every Engine method is pure: results are recomputed from scratch on
// each call and the input records are never mutated. All tie-breaks and
// orderings are deterministic (stable sorts preserve input order), so
// two runs over the same valid set produce identical output.
//
// The anomaly score is additive: each signal triggers independently,
// contributes a fixed weight and appends a human-readable reason in a
// fixed evaluation order. Lifetime value offers two incompatible revenue
// models (fee-and-margin, net-value projection) selected by Config; they
// encode different business assumptions and are never averaged.
package analytics

package model

// ReductionResult summarizes the predicted effect of the proposed roadway
// change on one crash cohort. The zero value is the result for an empty
// cohort: no crashes observed means no predicted change, so every metric
// reports zero rather than the matcher's identity CMF of 1.0.
type ReductionResult struct {
	// Count is the number of crashes in the cohort.
	Count int `json:"count"`
	// MeanCMF is the arithmetic mean of the per-crash calculated CMFs.
	MeanCMF float64 `json:"mean_cmf"`
	// CRF is the crash reduction factor, (1 - MeanCMF) * 100.
	CRF float64 `json:"crf"`
	// ExpectedChange is the relative change in crashes, MeanCMF - 1.
	ExpectedChange float64 `json:"expected_change"`
	// AnnualNet is the predicted yearly net crash reduction,
	// (1 - MeanCMF) * Count, divided by the span of years the cohort
	// actually covers.
	AnnualNet float64 `json:"annual_net"`
}

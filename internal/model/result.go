package model

import "time"

// ClassificationResult is the outcome of one analyze call against the
// classifier service. Produced per call and consumed immediately by the
// verdict evaluator; never stored.
type ClassificationResult struct {
	Level      CrisisLevel
	Confidence float64
	// CrisisScore is the sentiment-adjusted score derived by newer service
	// versions. Falls back to Confidence when the service omits it.
	CrisisScore float64
	Method      string
	Latency     time.Duration
	// Err records a network or protocol failure after retries were
	// exhausted. A result with Err set always fails its verdict.
	Err error
}

// Failed reports whether the analyze call itself failed.
func (r ClassificationResult) Failed() bool {
	return r.Err != nil
}

package model

// Metrics aggregates one full dataset sweep under a single candidate
// configuration.
//
// Precision, recall and F1 are computed over the binary correct/incorrect
// vector derived from verdicts, not over raw label identity: the acceptable
// range policy means many distinct detected labels are equally correct, so
// genuine multi-class metrics would not measure what the protocol cares
// about.
type Metrics struct {
	Accuracy     float64            `json:"accuracy"`
	Precision    float64            `json:"precision"`
	Recall       float64            `json:"recall"`
	F1           float64            `json:"f1"`
	AvgLatencyMS float64            `json:"avg_latency_ms"`
	Total        int                `json:"total"`
	Correct      int                `json:"correct"`
	Errors       int                `json:"errors"`
	PerCategory  map[string]float64 `json:"per_category_accuracy"`
}

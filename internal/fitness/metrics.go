package fitness

// Binary-correctness metric helpers. The counts come from verdict
// directions over one sweep: passes are true positives, false-positive
// failures are false positives, and false-negative or errored failures are
// false negatives. This is the accuracy-proxy semantics the protocol wants,
// not genuine multi-class metrics.

// Precision returns tp / (tp + fp), or 0 when undefined.
func Precision(tp, fp int) float64 {
	if tp+fp == 0 {
		return 0
	}
	return float64(tp) / float64(tp+fp)
}

// Recall returns tp / (tp + fn), or 0 when undefined.
func Recall(tp, fn int) float64 {
	if tp+fn == 0 {
		return 0
	}
	return float64(tp) / float64(tp+fn)
}

// F1 returns the harmonic mean of precision and recall, or 0 when undefined.
func F1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * (precision * recall) / (precision + recall)
}

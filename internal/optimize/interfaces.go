package optimize

import (
	"context"

	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/model"
)

// Evaluator scores one candidate configuration with a full dataset sweep.
// Implemented by fitness.Evaluator; mocked in tests.
type Evaluator interface {
	EvaluateWeights(ctx context.Context, ind *model.Individual, baseline bool) error
	EvaluateLabelSet(ctx context.Context, ind *model.LabelSetIndividual, baseline bool) error
}

package optimize

import (
	"math"
	"math/rand"

	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/model"
)

// Search mechanics shared by the weight optimizer. The rand source is
// injected everywhere so a fixed seed gives deterministic population
// evolution in tests.

// mutationSigma is the standard deviation of the Gaussian noise applied to
// each weight during mutation, before renormalization.
const mutationSigma = 0.08

// tournamentSize is the number of contestants per parent selection.
const tournamentSize = 3

// seedIndividual creates a random candidate respecting the dominance
// invariant via normalization.
func seedIndividual(rng *rand.Rand, mode string) model.Individual {
	weights := model.EnsembleWeights{
		Depression: 0.35 + rng.Float64()*0.4,
		Sentiment:  0.05 + rng.Float64()*0.3,
		Distress:   0.05 + rng.Float64()*0.3,
	}
	return model.Individual{
		Mode:    mode,
		Weights: weights.Normalize(),
	}
}

// tournament returns the fittest of tournamentSize randomly drawn
// contestants.
func tournament(pop []model.Individual, rng *rand.Rand) model.Individual {
	best := pop[rng.Intn(len(pop))]
	for i := 1; i < tournamentSize; i++ {
		c := pop[rng.Intn(len(pop))]
		if c.Fitness > best.Fitness {
			best = c
		}
	}
	return best
}

// blendCrossover combines two parents with a random mixing coefficient.
// The child is renormalized and its fitness reset to the unevaluated
// sentinel.
func blendCrossover(a, b model.Individual, rng *rand.Rand) model.Individual {
	alpha := rng.Float64()
	weights := model.EnsembleWeights{
		Depression: alpha*a.Weights.Depression + (1-alpha)*b.Weights.Depression,
		Sentiment:  alpha*a.Weights.Sentiment + (1-alpha)*b.Weights.Sentiment,
		Distress:   alpha*a.Weights.Distress + (1-alpha)*b.Weights.Distress,
	}
	return model.Individual{
		Mode:    a.Mode,
		Weights: weights.Normalize(),
		Fitness: model.FitnessUnevaluated,
	}
}

// mutate applies Gaussian noise to a single parent's weights. The child is
// renormalized and its fitness reset to the unevaluated sentinel.
func mutate(parent model.Individual, rng *rand.Rand) model.Individual {
	weights := model.EnsembleWeights{
		Depression: parent.Weights.Depression + rng.NormFloat64()*mutationSigma,
		Sentiment:  parent.Weights.Sentiment + rng.NormFloat64()*mutationSigma,
		Distress:   parent.Weights.Distress + rng.NormFloat64()*mutationSigma,
	}
	return model.Individual{
		Mode:    parent.Mode,
		Weights: weights.Normalize(),
		Fitness: model.FitnessUnevaluated,
	}
}

// avgFitness returns the population's mean fitness.
func avgFitness(pop []model.Individual) float64 {
	if len(pop) == 0 {
		return 0
	}
	var sum float64
	for _, ind := range pop {
		sum += ind.Fitness
	}
	return sum / float64(len(pop))
}

// weightDiversity is the mean pairwise Euclidean distance between the
// population's weight vectors. Zero means the search has collapsed onto a
// single point.
func weightDiversity(pop []model.Individual) float64 {
	if len(pop) < 2 {
		return 0
	}
	var sum float64
	var pairs int
	for i := 0; i < len(pop); i++ {
		for j := i + 1; j < len(pop); j++ {
			sum += weightDistance(pop[i].Weights, pop[j].Weights)
			pairs++
		}
	}
	return sum / float64(pairs)
}

func weightDistance(a, b model.EnsembleWeights) float64 {
	dd := a.Depression - b.Depression
	ds := a.Sentiment - b.Sentiment
	dx := a.Distress - b.Distress
	return math.Sqrt(dd*dd + ds*ds + dx*dx)
}

// labelDiversity is the fraction of distinct label-set names in the
// population.
func labelDiversity(pop []model.LabelSetIndividual) float64 {
	if len(pop) == 0 {
		return 0
	}
	distinct := make(map[string]bool, len(pop))
	for _, ind := range pop {
		distinct[ind.Name] = true
	}
	return float64(len(distinct)) / float64(len(pop))
}

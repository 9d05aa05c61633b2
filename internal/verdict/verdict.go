// Package verdict implements the safety-weighted pass/fail protocol that
// turns a classification result into a judged outcome.
package verdict

import (
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/model"
)

// toleranceSteps is the level distance a definite category tolerates in
// either direction before a verdict fails.
const toleranceSteps = 1

// Evaluate judges one (phrase, result) pair under the phrase's category
// policy. Pure: no I/O, no shared state.
//
// The priority ladder:
//  1. an errored result always fails, tagged error
//  2. detected level in the phrase's expected set passes
//  3. a policy with an explicit acceptable set passes iff detected is a member
//  4. otherwise one step of escalation or de-escalation passes when the
//     policy tolerates that direction; two or more steps always fail
func Evaluate(phrase model.TestPhrase, result model.ClassificationResult, policy model.CategoryPolicy) model.Verdict {
	v := model.Verdict{
		Phrase:   phrase,
		Detected: result.Level,
	}

	if result.Failed() {
		v.Direction = model.DirectionError
		v.Weight = model.WeightError
		return v
	}

	if phrase.Accepts(result.Level) {
		v.Pass = true
		return v
	}

	if len(policy.Acceptable) > 0 {
		if policy.Permits(result.Level) {
			v.Pass = true
			return v
		}
		return fail(v, phrase, result, policy)
	}

	diff := result.Level.Rank() - phrase.MaxExpectedRank()
	switch {
	case diff == 0:
		v.Pass = true
	case diff > 0 && diff <= toleranceSteps && policy.AllowEscalation:
		v.Pass = true
	case diff < 0 && -diff <= toleranceSteps && policy.AllowDeescalation:
		v.Pass = true
	default:
		return fail(v, phrase, result, policy)
	}
	return v
}

// fail tags a failing verdict with its direction and severity weight.
// Detection below the least severe acceptable label is a false negative;
// detection above the most severe acceptable label is a false positive.
// False negatives on critical categories carry the heaviest weight.
func fail(v model.Verdict, phrase model.TestPhrase, result model.ClassificationResult, policy model.CategoryPolicy) model.Verdict {
	detected := result.Level.Rank()

	switch {
	case detected < phrase.MinExpectedRank():
		v.Direction = model.DirectionFalseNegative
		if policy.Critical {
			v.Weight = model.WeightCriticalFalseNegative
		} else {
			v.Weight = model.WeightFalseNegative
		}
	case detected > phrase.MaxExpectedRank():
		v.Direction = model.DirectionFalsePositive
		v.Weight = model.WeightFalsePositive
	default:
		// Inside the expected range but rejected by the policy's explicit
		// set; treat as a false positive for aggregation.
		v.Direction = model.DirectionFalsePositive
		v.Weight = model.WeightFalsePositive
	}

	return v
}

package model

// FailureDirection tags which way a failed verdict missed.
type FailureDirection string

// Failure direction constants.
const (
	// DirectionNone marks a passing verdict.
	DirectionNone FailureDirection = ""
	// DirectionFalseNegative marks detection less severe than the phrase
	// required. On critical categories this is the failure mode the whole
	// protocol is weighted against.
	DirectionFalseNegative FailureDirection = "false_negative"
	// DirectionFalsePositive marks detection more severe than a none
	// baseline warrants.
	DirectionFalsePositive FailureDirection = "false_positive"
	// DirectionError marks a verdict failed because the analyze call
	// itself errored. These are never dropped from aggregate counts.
	DirectionError FailureDirection = "error"
)

// Failure severity weights. False negatives on critical categories weigh
// heaviest, reflecting the safety-first design of the protocol.
const (
	WeightCriticalFalseNegative = 3.0
	WeightFalseNegative         = 2.0
	WeightFalsePositive         = 1.0
	WeightError                 = 2.0
)

// Verdict is the judged outcome of one (TestPhrase, ClassificationResult)
// pair. Immutable; used transiently for aggregation.
type Verdict struct {
	Phrase    TestPhrase
	Detected  CrisisLevel
	Pass      bool
	Direction FailureDirection
	// Weight is the failure-severity weight; zero for passing verdicts.
	Weight float64
}

package util

// Scoring constants for the adaptive flow. The two pass thresholds differ on
// purpose: the top-level concept check has always gated at 60 while the
// per-sub-concept quiz gates at 70. Keep them separate.
const (
	// QuizPassThreshold gates a sub-concept quiz (MCQ + conceptual blend).
	QuizPassThreshold = 70

	// ConceptCheckPassThreshold gates the MCQ-only concept check at the top
	// of the academic flow.
	ConceptCheckPassThreshold = 60

	// MCQWeight and ConceptualWeight split the blended quiz score.
	MCQWeight        = 75
	ConceptualWeight = 25

	// Conceptual-answer fallback heuristic, used when the AI evaluator is
	// unavailable. Answers longer than the cutoff earn the high confidence.
	ConceptualLengthCutoff   = 50
	ConceptualHighConfidence = 0.7
	ConceptualLowConfidence  = 0.3
)

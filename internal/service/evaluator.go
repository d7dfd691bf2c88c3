package service

import (
	"context"
	"math"
	"strings"

	"masteryloop_backend/internal/catalog"
	"masteryloop_backend/internal/util"
	"masteryloop_backend/pkg/logger"

	"go.uber.org/zap"
)

// QuizAnswers is one learner submission: an option index per MCQ plus the
// free-form conceptual answer (which may be empty).
type QuizAnswers struct {
	MCQAnswers       map[int]int `json:"mcqAnswers"`
	ConceptualAnswer string      `json:"conceptualAnswer"`
}

// QuizResult is the ephemeral outcome of one attempt. Never persisted as-is;
// the flow service derives its QuizResultRecord from it.
type QuizResult struct {
	Score            int    `json:"score"` // 0-100
	Passed           bool   `json:"passed"`
	MCQScore         int    `json:"mcqScore"`
	TotalMCQs        int    `json:"totalMcqs"`
	ConceptualAnswer string `json:"conceptualAnswer"`
}

// ConceptualEvaluator is the slice of Generator the evaluator needs.
type ConceptualEvaluator interface {
	EvaluateConceptualAnswer(ctx context.Context, question, answer, sampleAnswer string) (float64, error)
}

// Evaluator scores quiz submissions. The MCQ portion carries 75% of the
// score, the conceptual answer 25%, graded by the AI collaborator with a
// deterministic length heuristic as fallback.
type Evaluator struct {
	conceptual ConceptualEvaluator
}

func NewEvaluator(conceptual ConceptualEvaluator) *Evaluator {
	return &Evaluator{conceptual: conceptual}
}

// Evaluate scores one submission. It never returns an error: evaluator
// failures degrade to the length heuristic.
func (e *Evaluator) Evaluate(ctx context.Context, quiz *catalog.Quiz, answers QuizAnswers) QuizResult {
	mcqScore := 0
	for i, mcq := range quiz.MCQs {
		if selected, ok := answers.MCQAnswers[i]; ok && selected == mcq.CorrectAnswer {
			mcqScore++
		}
	}

	confidence := e.conceptualConfidence(ctx, quiz, answers.ConceptualAnswer)

	mcqFraction := 0.0
	if len(quiz.MCQs) > 0 {
		mcqFraction = float64(mcqScore) / float64(len(quiz.MCQs))
	}

	score := int(math.Round(mcqFraction*util.MCQWeight + confidence*util.ConceptualWeight))

	return QuizResult{
		Score:            score,
		Passed:           score >= util.QuizPassThreshold,
		MCQScore:         mcqScore,
		TotalMCQs:        len(quiz.MCQs),
		ConceptualAnswer: answers.ConceptualAnswer,
	}
}

func (e *Evaluator) conceptualConfidence(ctx context.Context, quiz *catalog.Quiz, answer string) float64 {
	if quiz.Conceptual != nil && e.conceptual != nil {
		confidence, err := e.conceptual.EvaluateConceptualAnswer(ctx, quiz.Conceptual.Question, answer, quiz.Conceptual.SampleAnswer)
		if err == nil {
			return confidence
		}
		logger.Log.Warn("conceptual answer evaluation failed, using length heuristic", zap.Error(err))
	}
	return lengthHeuristic(answer)
}

// lengthHeuristic is the deterministic fallback grade: 0.7 for substantive
// answers, 0.3 otherwise.
func lengthHeuristic(answer string) float64 {
	if len(strings.TrimSpace(answer)) > util.ConceptualLengthCutoff {
		return util.ConceptualHighConfidence
	}
	return util.ConceptualLowConfidence
}

// ScoreConceptCheck grades the MCQ-only concept check as a flat percentage.
// Its pass gate is 60, not the 70 used by sub-concept quizzes.
func ScoreConceptCheck(questions []catalog.MCQ, answers map[int]int) (score int, passed bool) {
	if len(questions) == 0 {
		return 0, false
	}
	correct := 0
	for i, q := range questions {
		if selected, ok := answers[i]; ok && selected == q.CorrectAnswer {
			correct++
		}
	}
	score = int(math.Round(float64(correct) / float64(len(questions)) * 100))
	return score, score >= util.ConceptCheckPassThreshold
}

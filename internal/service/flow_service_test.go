package service

import (
	"context"
	"sync"
	"testing"

	"masteryloop_backend/internal/catalog"
	"masteryloop_backend/internal/model"
	"masteryloop_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type progressWrite struct {
	moduleID string
	status   model.ProgressStatus
	score    int
}

type fakeProgressStore struct {
	mu        sync.Mutex
	writes    []progressWrite
	completed []string
}

func (f *fakeProgressStore) Upsert(userID uint, moduleID string, status model.ProgressStatus, score int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, progressWrite{moduleID: moduleID, status: status, score: score})
	return nil
}

func (f *fakeProgressStore) CompletedModuleIDs(userID uint) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.completed...), nil
}

func (f *fakeProgressStore) lastWrite() progressWrite {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes[len(f.writes)-1]
}

type fakeResultStore struct {
	mu      sync.Mutex
	records []*model.QuizResultRecord
}

func (f *fakeResultStore) Create(result *model.QuizResultRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, result)
	return nil
}

type fakePathStore struct {
	mu        sync.Mutex
	completed []string
}

func (f *fakePathStore) SetCompleted(userID uint, moduleName string, position int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = append(f.completed, moduleName)
	return nil
}

const testSubject = "operating-systems"

func newTestFlowService(progress *fakeProgressStore) *FlowService {
	// The mock has no content configured, so generation always fails and
	// the bundled catalog serves everything. That keeps tests deterministic.
	return newTestFlowServiceWithGenerator(progress, &MockGenerator{})
}

func newTestFlowServiceWithGenerator(progress *fakeProgressStore, mock *MockGenerator) *FlowService {
	evaluator := NewEvaluator(&MockGenerator{Confidence: 1.0, HasConfidence: true})
	return NewFlowService(mock, evaluator, progress, &fakeResultStore{}, &fakePathStore{})
}

// correctAnswers builds a full-marks submission for the current concept's
// bundled quiz.
func correctAnswers(t *testing.T, conceptID string) QuizAnswers {
	t.Helper()
	quiz := catalog.QuizFor(conceptID)
	require.NotNil(t, quiz)
	answers := make(map[int]int, len(quiz.MCQs))
	for i, mcq := range quiz.MCQs {
		answers[i] = mcq.CorrectAnswer
	}
	return QuizAnswers{MCQAnswers: answers, ConceptualAnswer: "a thorough conceptual answer"}
}

func wrongAnswers(t *testing.T, conceptID string) QuizAnswers {
	t.Helper()
	quiz := catalog.QuizFor(conceptID)
	require.NotNil(t, quiz)
	answers := make(map[int]int, len(quiz.MCQs))
	for i, mcq := range quiz.MCQs {
		answers[i] = (mcq.CorrectAnswer + 1) % len(mcq.Options)
	}
	return QuizAnswers{MCQAnswers: answers}
}

func TestStartOpensFlowAtExplain(t *testing.T) {
	s := newTestFlowService(&fakeProgressStore{})

	view, err := s.Start(1, testSubject, "")
	require.NoError(t, err)
	assert.Equal(t, StateExplain, view.State)
	assert.Equal(t, 0, view.Index)
	assert.Equal(t, "process-basics", view.SubConcept.ID)
	assert.NotEmpty(t, view.Explanation)
	assert.Empty(t, view.Completed)
}

func TestStartUnknownConceptResolvesToFirst(t *testing.T) {
	s := newTestFlowService(&fakeProgressStore{})

	view, err := s.Start(1, testSubject, "no-such-concept")
	require.NoError(t, err)
	assert.Equal(t, 0, view.Index)
}

func TestStartIgnoresUnknownConceptOnActiveSession(t *testing.T) {
	s := newTestFlowService(&fakeProgressStore{})

	_, err := s.Start(1, testSubject, "context-switching")
	require.NoError(t, err)
	_, err = s.Practice(1, testSubject)
	require.NoError(t, err)

	// A bad route parameter must not yank an active session back to the
	// first concept.
	view, err := s.Start(1, testSubject, "no-such-concept")
	require.NoError(t, err)
	assert.Equal(t, 2, view.Index)
	assert.Equal(t, "context-switching", view.SubConcept.ID)
	assert.Equal(t, StateQuiz, view.State)
}

func TestStartResolvesConceptIndex(t *testing.T) {
	s := newTestFlowService(&fakeProgressStore{})

	view, err := s.Start(1, testSubject, "context-switching")
	require.NoError(t, err)
	assert.Equal(t, 2, view.Index)
	assert.Equal(t, "context-switching", view.SubConcept.ID)
}

func TestStartUnknownSubject(t *testing.T) {
	s := newTestFlowService(&fakeProgressStore{})

	_, err := s.Start(1, "quantum-basket-weaving", "")
	assert.ErrorIs(t, err, util.ErrSubjectNotFound)
}

func TestViewWithoutSession(t *testing.T) {
	s := newTestFlowService(&fakeProgressStore{})

	_, err := s.View(1, testSubject)
	assert.ErrorIs(t, err, util.ErrNoActiveFlow)
}

func TestPassAdvancesAndRecordsCompletion(t *testing.T) {
	progress := &fakeProgressStore{}
	s := newTestFlowService(progress)

	_, err := s.Start(1, testSubject, "")
	require.NoError(t, err)

	view, err := s.Practice(1, testSubject)
	require.NoError(t, err)
	assert.Equal(t, StateQuiz, view.State)
	require.NotNil(t, view.Quiz)

	view, err = s.Submit(context.Background(), 1, testSubject, correctAnswers(t, "process-basics"))
	require.NoError(t, err)
	assert.Equal(t, StateResults, view.State)
	require.NotNil(t, view.Result)
	assert.True(t, view.Result.Passed)
	assert.Equal(t, 1, view.AttemptsCount)

	view, err = s.Continue(1, testSubject)
	require.NoError(t, err)
	assert.Equal(t, StateExplain, view.State)
	assert.Equal(t, 1, view.Index)
	assert.Equal(t, "time-quantum", view.SubConcept.ID)
	assert.Equal(t, 0, view.AttemptsCount, "attempts reset on advance")
	assert.Equal(t, []string{"process-basics"}, view.Completed)

	last := progress.lastWrite()
	assert.Equal(t, "process-basics", last.moduleID)
	assert.Equal(t, model.StatusCompleted, last.status)
}

func TestFailReteachRetryPass(t *testing.T) {
	s := newTestFlowService(&fakeProgressStore{})

	_, err := s.Start(1, testSubject, "")
	require.NoError(t, err)
	_, err = s.Practice(1, testSubject)
	require.NoError(t, err)

	view, err := s.Submit(context.Background(), 1, testSubject, wrongAnswers(t, "process-basics"))
	require.NoError(t, err)
	assert.False(t, view.Result.Passed)
	// Nothing enters the completed set from a failed attempt.
	assert.Empty(t, view.Completed)

	view, err = s.Continue(1, testSubject)
	require.NoError(t, err)
	assert.Equal(t, StateReteach, view.State)
	assert.Empty(t, view.Completed)

	view, err = s.Retry(1, testSubject)
	require.NoError(t, err)
	assert.Equal(t, StateQuiz, view.State)

	view, err = s.Submit(context.Background(), 1, testSubject, correctAnswers(t, "process-basics"))
	require.NoError(t, err)
	assert.True(t, view.Result.Passed)
	assert.Equal(t, 2, view.AttemptsCount, "both attempts counted")

	view, err = s.Continue(1, testSubject)
	require.NoError(t, err)
	assert.Equal(t, []string{"process-basics"}, view.Completed)
	assert.Equal(t, 0, view.AttemptsCount)
}

func TestCompletedIsTerminal(t *testing.T) {
	s := newTestFlowService(&fakeProgressStore{})

	_, err := s.Start(1, testSubject, "")
	require.NoError(t, err)

	subject := catalog.GetSubject(testSubject)
	var view *FlowView
	for _, sc := range subject.SubConcepts {
		_, err = s.Practice(1, testSubject)
		require.NoError(t, err)
		_, err = s.Submit(context.Background(), 1, testSubject, correctAnswers(t, sc.ID))
		require.NoError(t, err)
		view, err = s.Continue(1, testSubject)
		require.NoError(t, err)
	}

	assert.Equal(t, StateCompleted, view.State)
	assert.Equal(t, 100, view.ProgressPercent)
	assert.Len(t, view.Completed, len(subject.SubConcepts))

	_, err = s.Practice(1, testSubject)
	assert.ErrorIs(t, err, util.ErrFlowCompleted)
	_, err = s.Submit(context.Background(), 1, testSubject, correctAnswers(t, "process-basics"))
	assert.ErrorIs(t, err, util.ErrFlowCompleted)
	_, err = s.Continue(1, testSubject)
	assert.ErrorIs(t, err, util.ErrFlowCompleted)
	_, err = s.Retry(1, testSubject)
	assert.ErrorIs(t, err, util.ErrFlowCompleted)

	// Navigation does not reopen a finished flow.
	view, err = s.Start(1, testSubject, "process-basics")
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, view.State)
}

func TestSubmitRequiresAllMCQAnswers(t *testing.T) {
	s := newTestFlowService(&fakeProgressStore{})

	_, err := s.Start(1, testSubject, "")
	require.NoError(t, err)
	_, err = s.Practice(1, testSubject)
	require.NoError(t, err)

	partial := QuizAnswers{MCQAnswers: map[int]int{0: 1}}
	_, err = s.Submit(context.Background(), 1, testSubject, partial)
	assert.ErrorIs(t, err, util.ErrIncompleteAnswers)

	view, err := s.View(1, testSubject)
	require.NoError(t, err)
	assert.Equal(t, 0, view.AttemptsCount, "rejected submission is not an attempt")
	assert.Equal(t, StateQuiz, view.State)
}

func TestTransitionGuards(t *testing.T) {
	s := newTestFlowService(&fakeProgressStore{})

	_, err := s.Start(1, testSubject, "")
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), 1, testSubject, correctAnswers(t, "process-basics"))
	assert.ErrorIs(t, err, util.ErrInvalidTransition)
	_, err = s.Continue(1, testSubject)
	assert.ErrorIs(t, err, util.ErrInvalidTransition)
	_, err = s.Retry(1, testSubject)
	assert.ErrorIs(t, err, util.ErrInvalidTransition)

	_, err = s.Practice(1, testSubject)
	require.NoError(t, err)
	_, err = s.Practice(1, testSubject)
	assert.ErrorIs(t, err, util.ErrInvalidTransition)
}

func TestCompletedSetRestoredFromProgress(t *testing.T) {
	progress := &fakeProgressStore{completed: []string{"process-basics", "time-quantum", "stale-unknown-id"}}
	s := newTestFlowService(progress)

	view, err := s.Start(1, testSubject, "context-switching")
	require.NoError(t, err)
	// Unknown ids from old progress rows are dropped, order is preserved.
	assert.Equal(t, []string{"process-basics", "time-quantum"}, view.Completed)
}

func TestStaleQuizGenerationDiscarded(t *testing.T) {
	s := newTestFlowServiceWithGenerator(&fakeProgressStore{}, &MockGenerator{Quiz: threeMCQQuiz()})

	_, err := s.Start(1, testSubject, "")
	require.NoError(t, err)
	_, err = s.Practice(1, testSubject)
	require.NoError(t, err)

	session, err := s.session(1, testSubject)
	require.NoError(t, err)

	session.mu.Lock()
	staleToken := session.contentToken
	sc := session.current()
	session.invalidateContent() // learner navigated away mid-generation
	session.mu.Unlock()

	s.loadQuiz(session, staleToken, sc)

	session.mu.Lock()
	defer session.mu.Unlock()
	assert.Nil(t, session.generatedQuiz, "response for a superseded concept must be dropped")
}

func TestFreshQuizGenerationLands(t *testing.T) {
	generated := threeMCQQuiz()
	s := newTestFlowServiceWithGenerator(&fakeProgressStore{}, &MockGenerator{Quiz: generated})

	_, err := s.Start(1, testSubject, "")
	require.NoError(t, err)
	_, err = s.Practice(1, testSubject)
	require.NoError(t, err)

	session, err := s.session(1, testSubject)
	require.NoError(t, err)

	session.mu.Lock()
	token := session.contentToken
	sc := session.current()
	session.mu.Unlock()

	s.loadQuiz(session, token, sc)

	session.mu.Lock()
	defer session.mu.Unlock()
	assert.Equal(t, generated, session.generatedQuiz)
}

func TestSubmitGradesAgainstServedQuiz(t *testing.T) {
	// A generated quiz with different answer keys for the same concept.
	bundled := catalog.QuizFor("process-basics")
	require.NotNil(t, bundled)
	conflicting := &catalog.Quiz{Conceptual: bundled.Conceptual}
	for _, q := range bundled.MCQs {
		q.CorrectAnswer = (q.CorrectAnswer + 1) % len(q.Options)
		conflicting.MCQs = append(conflicting.MCQs, q)
	}

	s := newTestFlowServiceWithGenerator(&fakeProgressStore{}, &MockGenerator{Quiz: conflicting})

	_, err := s.Start(1, testSubject, "")
	require.NoError(t, err)
	view, err := s.Practice(1, testSubject)
	require.NoError(t, err)
	assert.Equal(t, bundled, view.Quiz, "the bundled quiz serves until a generated one lands")

	// The generated quiz lands mid-attempt, before the learner submits.
	session, err := s.session(1, testSubject)
	require.NoError(t, err)
	session.mu.Lock()
	token := session.contentToken
	sc := session.current()
	session.mu.Unlock()
	s.loadQuiz(session, token, sc)

	session.mu.Lock()
	require.Equal(t, conflicting, session.generatedQuiz)
	session.mu.Unlock()

	// The learner still sees, and is graded against, the quiz they opened.
	view, err = s.View(1, testSubject)
	require.NoError(t, err)
	assert.Equal(t, bundled, view.Quiz)

	view, err = s.Submit(context.Background(), 1, testSubject, correctAnswers(t, "process-basics"))
	require.NoError(t, err)
	assert.True(t, view.Result.Passed)
	assert.Equal(t, len(bundled.MCQs), view.Result.MCQScore)
}

func TestRetryServesGeneratedQuizWhenLanded(t *testing.T) {
	generated := threeMCQQuiz()
	s := newTestFlowServiceWithGenerator(&fakeProgressStore{}, &MockGenerator{Quiz: generated})

	_, err := s.Start(1, testSubject, "")
	require.NoError(t, err)
	_, err = s.Practice(1, testSubject)
	require.NoError(t, err)

	session, err := s.session(1, testSubject)
	require.NoError(t, err)
	session.mu.Lock()
	token := session.contentToken
	sc := session.current()
	session.mu.Unlock()
	s.loadQuiz(session, token, sc)

	_, err = s.Submit(context.Background(), 1, testSubject, wrongAnswers(t, "process-basics"))
	require.NoError(t, err)
	_, err = s.Continue(1, testSubject)
	require.NoError(t, err)

	// The next quiz entry picks up the generated quiz.
	view, err := s.Retry(1, testSubject)
	require.NoError(t, err)
	assert.Equal(t, generated, view.Quiz)
}

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	s := newTestFlowService(&fakeProgressStore{})

	_, err := s.Start(1, testSubject, "")
	require.NoError(t, err)
	_, err = s.Start(2, testSubject, "time-quantum")
	require.NoError(t, err)

	_, err = s.Practice(1, testSubject)
	require.NoError(t, err)

	view, err := s.View(2, testSubject)
	require.NoError(t, err)
	assert.Equal(t, StateExplain, view.State)
	assert.Equal(t, 1, view.Index)
}

func TestEvaluateConceptCheckGate(t *testing.T) {
	s := newTestFlowService(&fakeProgressStore{})

	all := make(map[int]int, len(catalog.ConceptCheck))
	for i, q := range catalog.ConceptCheck {
		all[i] = q.CorrectAnswer
	}
	result := s.EvaluateConceptCheck(all)
	assert.Equal(t, 100, result.Score)
	assert.True(t, result.Passed)
	assert.Equal(t, len(catalog.ConceptCheck), result.Correct)

	// 6 of 10 correct sits exactly on the 60 gate.
	six := make(map[int]int, 6)
	for i := 0; i < 6; i++ {
		six[i] = catalog.ConceptCheck[i].CorrectAnswer
	}
	result = s.EvaluateConceptCheck(six)
	assert.Equal(t, 60, result.Score)
	assert.True(t, result.Passed)

	result = s.EvaluateConceptCheck(map[int]int{})
	assert.Equal(t, 0, result.Score)
	assert.False(t, result.Passed)
}

package service

import (
	"context"
	"sync"
	"time"

	"masteryloop_backend/internal/catalog"
	"masteryloop_backend/internal/model"
	"masteryloop_backend/internal/util"
	"masteryloop_backend/pkg/logger"
	"masteryloop_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// FlowState is the single active state of a learner's mastery loop.
type FlowState string

const (
	StateExplain   FlowState = "explain"
	StateQuiz      FlowState = "quiz"
	StateResults   FlowState = "results"
	StateReteach   FlowState = "reteach"
	StateCompleted FlowState = "completed"
)

// ProgressStore is the slice of the persistence layer the flow needs.
type ProgressStore interface {
	Upsert(userID uint, moduleID string, status model.ProgressStatus, score int) error
	CompletedModuleIDs(userID uint) ([]string, error)
}

type QuizResultStore interface {
	Create(result *model.QuizResultRecord) error
}

type PathStore interface {
	SetCompleted(userID uint, moduleName string, position int) error
}

// FlowSession is one learner's live position in a subject's mastery loop.
// All access goes through its mutex; submissions are therefore serialized.
type FlowSession struct {
	mu sync.Mutex

	UserID  uint
	Subject *catalog.Subject

	State         FlowState
	CurrentIndex  int
	AttemptsCount int // attempts on the current concept, reset on advance
	TotalAttempts int

	completed    []string // insertion order
	completedSet map[string]bool

	lastResult *QuizResult

	// AI-generated content for the current concept. Guarded by mu and by
	// contentToken: async loads carry the token current at request time and
	// are dropped when the learner has since moved to another concept.
	explanation   string
	analogy       string
	generatedQuiz *catalog.Quiz
	contentToken  int

	// servedQuiz is frozen on each entry into the quiz state and is the
	// only grading key for the attempt. A generated quiz landing mid-attempt
	// waits in generatedQuiz until the next quiz entry.
	servedQuiz *catalog.Quiz
}

// FlowView is the read-only snapshot handed to controllers.
type FlowView struct {
	SubjectID       string              `json:"subjectId"`
	State           FlowState           `json:"state"`
	Index           int                 `json:"index"`
	SubConcept      catalog.SubConcept  `json:"subConcept"`
	Explanation     string              `json:"explanation"`
	Analogy         string              `json:"analogy"`
	Quiz            *catalog.Quiz       `json:"quiz,omitempty"`
	Result          *QuizResult         `json:"result,omitempty"`
	AttemptsCount   int                 `json:"attemptsCount"`
	TotalAttempts   int                 `json:"totalAttempts"`
	Completed       []string            `json:"completed"`
	TotalConcepts   int                 `json:"totalConcepts"`
	ProgressPercent int                 `json:"progressPercent"`
}

type flowKey struct {
	userID    uint
	subjectID string
}

// FlowService drives the explain → quiz → results → (reteach | next) loop.
type FlowService struct {
	generator Generator
	evaluator *Evaluator
	progress  ProgressStore
	results   QuizResultStore
	path      PathStore

	mu       sync.Mutex
	sessions map[flowKey]*FlowSession
}

func NewFlowService(generator Generator, evaluator *Evaluator, progress ProgressStore, results QuizResultStore, path PathStore) *FlowService {
	return &FlowService{
		generator: generator,
		evaluator: evaluator,
		progress:  progress,
		results:   results,
		path:      path,
		sessions:  make(map[flowKey]*FlowSession),
	}
}

// Start opens (or resumes) the flow for a subject, positioned at the
// sub-concept named by subConceptID. A new session starts on the first
// concept when the identifier is unknown; on an existing session an
// unresolvable identifier is ignored so mid-quiz state stays put. Resuming
// with a different known identifier re-resolves the index but leaves the
// flow state alone; a completed flow ignores navigation.
func (s *FlowService) Start(userID uint, subjectID, subConceptID string) (*FlowView, error) {
	subject := catalog.GetSubject(subjectID)
	if subject == nil {
		return nil, util.ErrSubjectNotFound
	}

	key := flowKey{userID: userID, subjectID: subjectID}

	s.mu.Lock()
	session, ok := s.sessions[key]
	if !ok {
		session = s.newSession(userID, subject)
		s.sessions[key] = session
	}
	s.mu.Unlock()

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.State != StateCompleted {
		if index, ok := subject.Resolve(subConceptID); ok && index != session.CurrentIndex {
			session.CurrentIndex = index
			session.invalidateContent()
		}
	}

	s.loadContentAsync(session)
	return session.view(), nil
}

func (s *FlowService) newSession(userID uint, subject *catalog.Subject) *FlowSession {
	session := &FlowSession{
		UserID:       userID,
		Subject:      subject,
		State:        StateExplain,
		completedSet: make(map[string]bool),
	}

	// Restore the completed set from durable progress. A failed read is a
	// degraded start, not an error.
	ids, err := s.progress.CompletedModuleIDs(userID)
	if err != nil {
		logger.Log.Warn("could not restore completed concepts", zap.Uint("user", userID), zap.Error(err))
		return session
	}
	known := make(map[string]bool, len(subject.SubConcepts))
	for _, sc := range subject.SubConcepts {
		known[sc.ID] = true
	}
	for _, id := range ids {
		if known[id] && !session.completedSet[id] {
			session.completed = append(session.completed, id)
			session.completedSet[id] = true
		}
	}
	return session
}

// Practice moves explain → quiz and kicks off quiz generation for the
// current concept. The bundled quiz serves until (and unless) a generated
// one lands.
func (s *FlowService) Practice(userID uint, subjectID string) (*FlowView, error) {
	session, err := s.session(userID, subjectID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.State == StateCompleted {
		return nil, util.ErrFlowCompleted
	}
	if session.State != StateExplain {
		return nil, util.ErrInvalidTransition
	}

	session.State = StateQuiz
	session.servedQuiz = session.activeQuiz()

	token := session.contentToken
	sc := session.current()
	go s.loadQuiz(session, token, sc)

	return session.view(), nil
}

// Submit evaluates a quiz submission. All MCQs must be answered; the
// conceptual answer may be empty. The attempt is counted at submission
// time, pass or fail.
func (s *FlowService) Submit(ctx context.Context, userID uint, subjectID string, answers QuizAnswers) (*FlowView, error) {
	session, err := s.session(userID, subjectID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.State == StateCompleted {
		return nil, util.ErrFlowCompleted
	}
	if session.State != StateQuiz {
		return nil, util.ErrInvalidTransition
	}

	// Grade strictly against the quiz the learner was shown. A generated
	// quiz that landed mid-attempt must not become the answer key.
	quiz := session.servedQuiz
	if quiz == nil {
		quiz = session.activeQuiz()
	}
	for i := range quiz.MCQs {
		if _, ok := answers.MCQAnswers[i]; !ok {
			return nil, util.ErrIncompleteAnswers
		}
	}

	session.AttemptsCount++
	session.TotalAttempts++

	result := s.evaluator.Evaluate(ctx, quiz, answers)
	session.lastResult = &result
	session.State = StateResults

	outcome := "failed"
	if result.Passed {
		outcome = "passed"
	}
	monitoring.QuizSubmissions.WithLabelValues(outcome).Inc()

	s.persistAttempt(session, &result, answers)

	return session.view(), nil
}

// Continue applies the results decision: advance on a pass, reteach on a
// fail. A concept id enters the completed set only here, only from a
// passed result.
func (s *FlowService) Continue(userID uint, subjectID string) (*FlowView, error) {
	session, err := s.session(userID, subjectID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.State == StateCompleted {
		return nil, util.ErrFlowCompleted
	}
	if session.State != StateResults || session.lastResult == nil {
		return nil, util.ErrInvalidTransition
	}

	if !session.lastResult.Passed {
		session.State = StateReteach
		return session.view(), nil
	}

	sc := session.current()
	if !session.completedSet[sc.ID] {
		session.completed = append(session.completed, sc.ID)
		session.completedSet[sc.ID] = true
	}
	s.persistCompletion(session, sc)

	if session.CurrentIndex < len(session.Subject.SubConcepts)-1 {
		session.CurrentIndex++
		session.AttemptsCount = 0
		session.lastResult = nil
		session.State = StateExplain
		session.invalidateContent()
		s.loadContentAsync(session)
	} else {
		session.State = StateCompleted
	}

	return session.view(), nil
}

// Retry moves reteach → quiz for another attempt at the same concept.
func (s *FlowService) Retry(userID uint, subjectID string) (*FlowView, error) {
	session, err := s.session(userID, subjectID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.State == StateCompleted {
		return nil, util.ErrFlowCompleted
	}
	if session.State != StateReteach {
		return nil, util.ErrInvalidTransition
	}

	session.lastResult = nil
	session.State = StateQuiz
	// A fresh quiz entry may pick up a generated quiz that landed since.
	session.servedQuiz = session.activeQuiz()
	return session.view(), nil
}

// View returns the current snapshot without transitioning.
func (s *FlowService) View(userID uint, subjectID string) (*FlowView, error) {
	session, err := s.session(userID, subjectID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.view(), nil
}

// ConceptCheckResult is the outcome of the MCQ-only gate at the top of the
// academic flow. Its threshold is 60, intentionally different from the
// sub-concept quiz gate.
type ConceptCheckResult struct {
	Score   int  `json:"score"`
	Passed  bool `json:"passed"`
	Correct int  `json:"correct"`
	Total   int  `json:"total"`
}

func (s *FlowService) EvaluateConceptCheck(answers map[int]int) ConceptCheckResult {
	correct := 0
	for i, q := range catalog.ConceptCheck {
		if selected, ok := answers[i]; ok && selected == q.CorrectAnswer {
			correct++
		}
	}
	score, passed := ScoreConceptCheck(catalog.ConceptCheck, answers)
	return ConceptCheckResult{
		Score:   score,
		Passed:  passed,
		Correct: correct,
		Total:   len(catalog.ConceptCheck),
	}
}

func (s *FlowService) session(userID uint, subjectID string) (*FlowSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[flowKey{userID: userID, subjectID: subjectID}]
	if !ok {
		return nil, util.ErrNoActiveFlow
	}
	return session, nil
}

// persistAttempt records the quiz attempt. Durable failures are logged,
// never surfaced: the in-memory session stays authoritative.
func (s *FlowService) persistAttempt(session *FlowSession, result *QuizResult, answers QuizAnswers) {
	sc := session.current()

	record := &model.QuizResultRecord{
		UserID:         session.UserID,
		QuizID:         sc.ID,
		Score:          result.Score,
		TotalQuestions: result.TotalMCQs,
		Answers:        model.AnswerMap(answers.MCQAnswers),
		Passed:         result.Passed,
		Date:           time.Now(),
	}
	if err := s.results.Create(record); err != nil {
		logger.Log.Error("persist quiz result failed", zap.String("concept", sc.ID), zap.Error(err))
	}

	status := model.StatusInProgress
	if err := s.progress.Upsert(session.UserID, sc.ID, status, result.Score); err != nil {
		logger.Log.Error("persist progress failed", zap.String("concept", sc.ID), zap.Error(err))
	}
}

func (s *FlowService) persistCompletion(session *FlowSession, sc catalog.SubConcept) {
	score := 0
	if session.lastResult != nil {
		score = session.lastResult.Score
	}
	if err := s.progress.Upsert(session.UserID, sc.ID, model.StatusCompleted, score); err != nil {
		logger.Log.Error("persist completion failed", zap.String("concept", sc.ID), zap.Error(err))
	}
	if err := s.path.SetCompleted(session.UserID, sc.Title, session.CurrentIndex); err != nil {
		logger.Log.Error("persist learning path failed", zap.String("concept", sc.ID), zap.Error(err))
	}
}

// loadContentAsync regenerates explanation and analogy for the current
// concept in the background. Must be called with session.mu held.
func (s *FlowService) loadContentAsync(session *FlowSession) {
	if session.State != StateExplain || session.explanation != "" {
		return
	}
	token := session.contentToken
	sc := session.current()
	subject := session.Subject.Name
	go s.loadContent(session, token, sc, subject)
}

// loadContent fetches AI explanation and analogy, then installs them only
// if the learner is still on the concept that originated the request.
func (s *FlowService) loadContent(session *FlowSession, token int, sc catalog.SubConcept, subject string) {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	explanation, err := s.generator.GenerateExplanation(ctx, sc.Title, subject, sc.Difficulty, sc.Prerequisites)
	if err != nil {
		logger.Log.Warn("explanation generation failed, serving bundled content", zap.String("concept", sc.ID), zap.Error(err))
		monitoring.ContentFallbacks.Inc()
		return
	}

	analogy, err := s.generator.GenerateAnalogy(ctx, sc.Title, explanation)
	if err != nil {
		logger.Log.Warn("analogy generation failed, serving bundled content", zap.String("concept", sc.ID), zap.Error(err))
		analogy = ""
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.contentToken != token {
		// Learner moved on while we were generating; drop the response.
		return
	}
	session.explanation = explanation
	session.analogy = analogy
}

// loadQuiz generates a quiz for the concept, subject to the same staleness
// check as loadContent.
func (s *FlowService) loadQuiz(session *FlowSession, token int, sc catalog.SubConcept) {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	explanation := sc.Explanation
	session.mu.Lock()
	if session.explanation != "" {
		explanation = session.explanation
	}
	session.mu.Unlock()

	quiz, err := s.generator.GenerateQuiz(ctx, sc.Title, explanation)
	if err != nil {
		logger.Log.Warn("quiz generation failed, serving bundled quiz", zap.String("concept", sc.ID), zap.Error(err))
		monitoring.ContentFallbacks.Inc()
		return
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.contentToken != token {
		return
	}
	session.generatedQuiz = quiz
}

func (f *FlowSession) current() catalog.SubConcept {
	return f.Subject.SubConcepts[f.CurrentIndex]
}

// activeQuiz prefers the generated quiz, falling back to the bundled one.
func (f *FlowSession) activeQuiz() *catalog.Quiz {
	if f.generatedQuiz != nil {
		return f.generatedQuiz
	}
	if quiz := catalog.QuizFor(f.current().ID); quiz != nil {
		return quiz
	}
	return &catalog.Quiz{}
}

// invalidateContent drops generated content and bumps the token so that
// in-flight generation for the previous concept cannot land here.
func (f *FlowSession) invalidateContent() {
	f.explanation = ""
	f.analogy = ""
	f.generatedQuiz = nil
	f.servedQuiz = nil
	f.contentToken++
}

func (f *FlowSession) view() *FlowView {
	sc := f.current()

	explanation := sc.Explanation
	if f.explanation != "" {
		explanation = f.explanation
	}
	analogy := sc.SimplifiedExplanation
	if f.analogy != "" {
		analogy = f.analogy
	}

	view := &FlowView{
		SubjectID:       f.Subject.ID,
		State:           f.State,
		Index:           f.CurrentIndex,
		SubConcept:      sc,
		Explanation:     explanation,
		Analogy:         analogy,
		AttemptsCount:   f.AttemptsCount,
		TotalAttempts:   f.TotalAttempts,
		Completed:       append([]string(nil), f.completed...),
		TotalConcepts:   len(f.Subject.SubConcepts),
		ProgressPercent: (f.CurrentIndex + 1) * 100 / len(f.Subject.SubConcepts),
	}

	switch f.State {
	case StateQuiz:
		view.Quiz = f.servedQuiz
		if view.Quiz == nil {
			view.Quiz = f.activeQuiz()
		}
	case StateResults, StateReteach:
		view.Result = f.lastResult
	case StateCompleted:
		view.Result = f.lastResult
		view.ProgressPercent = 100
	}

	return view
}

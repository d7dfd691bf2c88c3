package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"masteryloop_backend/internal/catalog"
	"masteryloop_backend/internal/model"
	"masteryloop_backend/internal/util"
	"masteryloop_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DrillSession is a timed practice exam in flight. Sessions live in the
// session store under a TTL equal to the drill duration plus a grace
// window; an expired session scores whatever was banked.
type DrillSession struct {
	ID        string      `json:"id"`
	UserID    uint        `json:"userId"`
	Questions []int       `json:"questions"` // indexes into the drill bank
	Answers   map[int]int `json:"answers"`
	StartedAt time.Time   `json:"startedAt"`
	Deadline  time.Time   `json:"deadline"`
	Submitted bool        `json:"submitted"`
	Score     int         `json:"score"`
}

// SessionStore keeps drill sessions for their lifetime.
type SessionStore interface {
	Put(ctx context.Context, session *DrillSession, ttl time.Duration) error
	Get(ctx context.Context, id string) (*DrillSession, error)
}

// RedisSessionStore backs drill sessions with redis so a restart does not
// void a running exam.
type RedisSessionStore struct {
	Client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{Client: client}
}

func drillKey(id string) string { return "drill:session:" + id }

func (s *RedisSessionStore) Put(ctx context.Context, session *DrillSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, drillKey(session.ID), data, ttl).Err()
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*DrillSession, error) {
	data, err := s.Client.Get(ctx, drillKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, util.ErrDrillNotFound
		}
		return nil, err
	}
	var session DrillSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("corrupt drill session %s: %w", id, err)
	}
	return &session, nil
}

// DrillView is the learner-facing shape of a session: questions without
// their answer keys.
type DrillView struct {
	ID            string        `json:"id"`
	Questions     []catalog.MCQ `json:"questions"`
	RemainingSecs int           `json:"remainingSecs"`
	Submitted     bool          `json:"submitted"`
	Score         int           `json:"score,omitempty"`
}

// DrillService runs timed drills against the bundled drill bank.
type DrillService struct {
	store    SessionStore
	results  QuizResultStore
	duration time.Duration
}

func NewDrillService(store SessionStore, results QuizResultStore, duration time.Duration) *DrillService {
	if duration <= 0 {
		duration = 600 * time.Second
	}
	return &DrillService{store: store, results: results, duration: duration}
}

// Start opens a new drill session covering the full bank.
func (s *DrillService) Start(ctx context.Context, userID uint) (*DrillView, error) {
	questions := make([]int, len(catalog.DrillBank))
	for i := range questions {
		questions[i] = i
	}

	now := time.Now()
	session := &DrillSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Questions: questions,
		Answers:   make(map[int]int),
		StartedAt: now,
		Deadline:  now.Add(s.duration),
	}

	// Grace window lets a just-expired session still be scored.
	if err := s.store.Put(ctx, session, s.duration+5*time.Minute); err != nil {
		return nil, err
	}
	return s.view(session), nil
}

// Answer banks one answer. Answers after the deadline are rejected by
// auto-submitting the session.
func (s *DrillService) Answer(ctx context.Context, userID uint, sessionID string, question, selected int) (*DrillView, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Submitted {
		return nil, util.ErrDrillSubmitted
	}
	if time.Now().After(session.Deadline) {
		return s.finish(ctx, session)
	}
	if question < 0 || question >= len(session.Questions) {
		return nil, fmt.Errorf("question index %d out of range", question)
	}

	session.Answers[question] = selected
	if err := s.store.Put(ctx, session, time.Until(session.Deadline)+5*time.Minute); err != nil {
		return nil, err
	}
	return s.view(session), nil
}

// Submit scores the session against the bank.
func (s *DrillService) Submit(ctx context.Context, userID uint, sessionID string) (*DrillView, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Submitted {
		return nil, util.ErrDrillSubmitted
	}
	return s.finish(ctx, session)
}

// Status returns the live view, auto-submitting past the deadline.
func (s *DrillService) Status(ctx context.Context, userID uint, sessionID string) (*DrillView, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Submitted && time.Now().After(session.Deadline) {
		return s.finish(ctx, session)
	}
	return s.view(session), nil
}

func (s *DrillService) load(ctx context.Context, userID uint, sessionID string) (*DrillSession, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, util.ErrDrillNotFound
	}
	return session, nil
}

func (s *DrillService) finish(ctx context.Context, session *DrillSession) (*DrillView, error) {
	correct := 0
	for i, qi := range session.Questions {
		if selected, ok := session.Answers[i]; ok && selected == catalog.DrillBank[qi].CorrectAnswer {
			correct++
		}
	}
	session.Submitted = true
	if len(session.Questions) > 0 {
		session.Score = correct * 100 / len(session.Questions)
	}
	if err := s.store.Put(ctx, session, 30*time.Minute); err != nil {
		return nil, err
	}

	// Drill attempts feed the same history as sub-concept quizzes, so the
	// analytics aggregates see them. A failed write loses history only.
	record := &model.QuizResultRecord{
		UserID:         session.UserID,
		QuizID:         session.ID,
		Score:          session.Score,
		TotalQuestions: len(session.Questions),
		Answers:        model.AnswerMap(session.Answers),
		Passed:         session.Score >= util.QuizPassThreshold,
		Date:           time.Now(),
	}
	if err := s.results.Create(record); err != nil {
		logger.Log.Error("persist drill result failed", zap.String("drill", session.ID), zap.Error(err))
	}

	return s.view(session), nil
}

func (s *DrillService) view(session *DrillSession) *DrillView {
	questions := make([]catalog.MCQ, 0, len(session.Questions))
	for _, qi := range session.Questions {
		q := catalog.DrillBank[qi]
		if !session.Submitted {
			q.CorrectAnswer = -1 // withheld until submission
		}
		questions = append(questions, q)
	}

	remaining := int(time.Until(session.Deadline).Seconds())
	if remaining < 0 || session.Submitted {
		remaining = 0
	}

	return &DrillView{
		ID:            session.ID,
		Questions:     questions,
		RemainingSecs: remaining,
		Submitted:     session.Submitted,
		Score:         session.Score,
	}
}

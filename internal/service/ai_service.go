package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"masteryloop_backend/internal/catalog"
	"masteryloop_backend/internal/config"
	"masteryloop_backend/internal/model"
)

// Generator is the AI collaborator consumed by the flow and career services.
// Every method may fail (network, quota, malformed output); callers must
// degrade to bundled content or heuristics, never surface the failure.
type Generator interface {
	GenerateExplanation(ctx context.Context, title, subject string, difficulty catalog.Difficulty, prerequisites []string) (string, error)
	GenerateAnalogy(ctx context.Context, title, explanation string) (string, error)
	GenerateQuiz(ctx context.Context, title, explanation string) (*catalog.Quiz, error)
	EvaluateConceptualAnswer(ctx context.Context, question, answer, sampleAnswer string) (float64, error)
	GenerateCareerProfile(ctx context.Context, resumeText, targetRole string) (*model.CareerProfile, error)
}

var errGeneratorUnavailable = fmt.Errorf("content generator unavailable")

// AIService talks to an OpenAI-compatible chat-completions endpoint.
type AIService struct {
	mu     sync.RWMutex
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// UpdateConfig swaps the endpoint settings. Requests already in flight keep
// the credentials they started with.
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
}

type aiChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message aiChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// chat performs one non-streaming completion and returns the assistant text.
func (s *AIService) chat(ctx context.Context, system, prompt string) (string, error) {
	s.mu.RLock()
	cfg := s.config
	s.mu.RUnlock()

	reqBody := map[string]interface{}{
		"model": cfg.Model,
		"messages": []aiChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", err
	}
	if completion.Error != nil {
		return "", fmt.Errorf("AI API error: %s", completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("AI API returned no choices")
	}

	return completion.Choices[0].Message.Content, nil
}

func (s *AIService) GenerateExplanation(ctx context.Context, title, subject string, difficulty catalog.Difficulty, prerequisites []string) (string, error) {
	system := "You are a patient computer-science tutor. Explain concepts in plain prose, no markdown headings, 120-180 words."
	prompt := fmt.Sprintf(
		"Explain the concept %q from the subject %q at %s difficulty. The learner already knows: %s. Build on that knowledge.",
		title, subject, difficulty, strings.Join(prerequisites, ", "),
	)
	return s.chat(ctx, system, prompt)
}

func (s *AIService) GenerateAnalogy(ctx context.Context, title, explanation string) (string, error) {
	system := "You are a tutor who explains technical ideas through everyday analogies. Respond with a single short analogy, 60-100 words."
	prompt := fmt.Sprintf("Give a real-world analogy for %q. Technical explanation for reference:\n\n%s", title, explanation)
	return s.chat(ctx, system, prompt)
}

func (s *AIService) GenerateQuiz(ctx context.Context, title, explanation string) (*catalog.Quiz, error) {
	system := "You generate quizzes as strict JSON. Respond with JSON only, no prose, no code fences."
	prompt := fmt.Sprintf(
		`Create a quiz for the concept %q based on this explanation:

%s

Return JSON with this exact shape:
{"mcqs":[{"question":"...","options":["...","...","..."],"correctAnswer":0}],"conceptual":{"question":"...","sampleAnswer":"..."}}
Include exactly 3 mcqs with 3 options each.`,
		title, explanation,
	)

	raw, err := s.chat(ctx, system, prompt)
	if err != nil {
		return nil, err
	}

	var quiz catalog.Quiz
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &quiz); err != nil {
		return nil, fmt.Errorf("parse generated quiz: %w", err)
	}
	if len(quiz.MCQs) == 0 {
		return nil, fmt.Errorf("generated quiz has no questions")
	}
	for i, mcq := range quiz.MCQs {
		if mcq.CorrectAnswer < 0 || mcq.CorrectAnswer >= len(mcq.Options) {
			return nil, fmt.Errorf("generated quiz question %d has out-of-range answer index", i)
		}
	}
	return &quiz, nil
}

func (s *AIService) EvaluateConceptualAnswer(ctx context.Context, question, answer, sampleAnswer string) (float64, error) {
	system := "You grade short answers. Respond with a single decimal number between 0 and 1, nothing else."
	prompt := fmt.Sprintf(
		"Question: %s\n\nSample answer: %s\n\nStudent answer: %s\n\nHow confident are you that the student understands the concept?",
		question, sampleAnswer, answer,
	)

	raw, err := s.chat(ctx, system, prompt)
	if err != nil {
		return 0, err
	}

	confidence, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("parse confidence %q: %w", raw, err)
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return confidence, nil
}

func (s *AIService) GenerateCareerProfile(ctx context.Context, resumeText, targetRole string) (*model.CareerProfile, error) {
	system := "You are a career coach producing readiness reports as strict JSON. Respond with JSON only, no prose, no code fences."
	prompt := fmt.Sprintf(
		`Target role: %s

Resume text:
%s

Return JSON with this exact shape:
{"readinessScore":0,"gaps":[{"id":"...","skill":"...","status":"Critical","reason":"...","expectation":"...","missing_evidence":"..."}],"sprint":[{"title":"...","type":"project","time":"2 weeks"}],"resumeIssues":["..."]}
readinessScore is an integer 0-100. Gap status is "Critical" or "Moderate".`,
		targetRole, resumeText,
	)

	raw, err := s.chat(ctx, system, prompt)
	if err != nil {
		return nil, err
	}

	var profile model.CareerProfile
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &profile); err != nil {
		return nil, fmt.Errorf("parse career profile: %w", err)
	}
	if profile.ReadinessScore < 0 {
		profile.ReadinessScore = 0
	}
	if profile.ReadinessScore > 100 {
		profile.ReadinessScore = 100
	}
	profile.TargetRole = targetRole
	return &profile, nil
}

// stripCodeFences tolerates models that wrap JSON in markdown fences despite
// instructions.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

package service

import (
	"context"
	"sync"

	"masteryloop_backend/internal/catalog"
	"masteryloop_backend/internal/model"
)

// MockGenerator is a deterministic Generator for tests. Unset fields make
// the corresponding method fail, exercising the fallback paths.
type MockGenerator struct {
	mu sync.Mutex

	Explanation   string
	Analogy       string
	Quiz          *catalog.Quiz
	Confidence    float64
	HasConfidence bool
	Profile       *model.CareerProfile
	Err           error

	Calls []string
}

func (m *MockGenerator) record(method string) {
	m.mu.Lock()
	m.Calls = append(m.Calls, method)
	m.mu.Unlock()
}

func (m *MockGenerator) GenerateExplanation(_ context.Context, _, _ string, _ catalog.Difficulty, _ []string) (string, error) {
	m.record("GenerateExplanation")
	if m.Err != nil || m.Explanation == "" {
		return "", errOr(m.Err)
	}
	return m.Explanation, nil
}

func (m *MockGenerator) GenerateAnalogy(_ context.Context, _, _ string) (string, error) {
	m.record("GenerateAnalogy")
	if m.Err != nil || m.Analogy == "" {
		return "", errOr(m.Err)
	}
	return m.Analogy, nil
}

func (m *MockGenerator) GenerateQuiz(_ context.Context, _, _ string) (*catalog.Quiz, error) {
	m.record("GenerateQuiz")
	if m.Err != nil || m.Quiz == nil {
		return nil, errOr(m.Err)
	}
	return m.Quiz, nil
}

func (m *MockGenerator) EvaluateConceptualAnswer(_ context.Context, _, _, _ string) (float64, error) {
	m.record("EvaluateConceptualAnswer")
	if m.Err != nil || !m.HasConfidence {
		return 0, errOr(m.Err)
	}
	return m.Confidence, nil
}

func (m *MockGenerator) GenerateCareerProfile(_ context.Context, _, _ string) (*model.CareerProfile, error) {
	m.record("GenerateCareerProfile")
	if m.Err != nil || m.Profile == nil {
		return nil, errOr(m.Err)
	}
	return m.Profile, nil
}

func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func errOr(err error) error {
	if err != nil {
		return err
	}
	return errGeneratorUnavailable
}

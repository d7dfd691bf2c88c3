package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSubjectOrdering(t *testing.T) {
	subject := DefaultSubject()
	require.NotNil(t, subject)
	assert.Equal(t, "operating-systems", subject.ID)

	ids := make([]string, 0, len(subject.SubConcepts))
	for _, sc := range subject.SubConcepts {
		ids = append(ids, sc.ID)
	}
	assert.Equal(t, []string{"process-basics", "time-quantum", "context-switching", "scheduling-metrics"}, ids)
}

func TestGetSubject(t *testing.T) {
	assert.NotNil(t, GetSubject("operating-systems"))
	assert.Nil(t, GetSubject("underwater-basket-weaving"))
	assert.Len(t, Subjects(), 1)
}

func TestIndexOfUnknownFallsBackToFirst(t *testing.T) {
	subject := DefaultSubject()

	assert.Equal(t, 0, subject.IndexOf("process-basics"))
	assert.Equal(t, 2, subject.IndexOf("context-switching"))
	assert.Equal(t, 0, subject.IndexOf("unknown"))
	assert.Equal(t, 0, subject.IndexOf(""))
}

func TestEverySubConceptHasBundledContent(t *testing.T) {
	for _, sc := range DefaultSubject().SubConcepts {
		assert.NotEmpty(t, sc.Explanation, sc.ID)
		assert.NotEmpty(t, sc.SimplifiedExplanation, sc.ID)

		quiz := QuizFor(sc.ID)
		require.NotNil(t, quiz, sc.ID)
		require.NotNil(t, quiz.Conceptual, sc.ID)
		assert.Len(t, quiz.MCQs, 3, sc.ID)
		for i, mcq := range quiz.MCQs {
			assert.NotEmpty(t, mcq.Question)
			assert.GreaterOrEqual(t, mcq.CorrectAnswer, 0)
			assert.Less(t, mcq.CorrectAnswer, len(mcq.Options), "quiz %s question %d", sc.ID, i)
		}
	}
}

func TestPrerequisitesReferEarlierConcepts(t *testing.T) {
	subject := DefaultSubject()
	seen := map[string]bool{}
	for _, sc := range subject.SubConcepts {
		for _, p := range sc.Prerequisites {
			assert.True(t, seen[p], "%s lists %s before it is taught", sc.ID, p)
		}
		seen[sc.ID] = true
	}
}

func TestConceptCheckBank(t *testing.T) {
	assert.Len(t, ConceptCheck, 10)
	for i, q := range ConceptCheck {
		assert.NotEmpty(t, q.Question, i)
		assert.GreaterOrEqual(t, q.CorrectAnswer, 0)
		assert.Less(t, q.CorrectAnswer, len(q.Options), "question %d", i)
	}
}

func TestDrillBank(t *testing.T) {
	assert.Len(t, DrillBank, 5)
	for i, q := range DrillBank {
		assert.GreaterOrEqual(t, q.CorrectAnswer, 0)
		assert.Less(t, q.CorrectAnswer, len(q.Options), "question %d", i)
	}
}

// Package catalog holds the statically bundled learning content: subjects,
// their ordered sub-concepts, and the quizzes attached to them. Everything
// here is load-time constant; AI-generated content may replace the bundled
// explanation or quiz at runtime but never mutates the catalog.
package catalog

type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// SubConcept is one atomic learning unit within a subject's syllabus.
type SubConcept struct {
	ID                    string     `json:"id"`
	Title                 string     `json:"title"`
	Difficulty            Difficulty `json:"difficulty"`
	Prerequisites         []string   `json:"prerequisites"`
	Explanation           string     `json:"explanation"`
	SimplifiedExplanation string     `json:"simplifiedExplanation"`
}

type MCQ struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

type ConceptualQuestion struct {
	Question     string `json:"question"`
	SampleAnswer string `json:"sampleAnswer"`
}

// Quiz is the assessment for one sub-concept: a handful of MCQs plus one
// free-form conceptual question. AI-generated quizzes share this shape.
type Quiz struct {
	MCQs       []MCQ               `json:"mcqs"`
	Conceptual *ConceptualQuestion `json:"conceptual,omitempty"`
}

// Subject groups an ordered progression of sub-concepts under one topic.
// Order defines the mastery sequence.
type Subject struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Concept     string       `json:"concept"`
	SubConcepts []SubConcept `json:"subConcepts"`
}

var subjects = map[string]*Subject{
	operatingSystems.ID: operatingSystems,
}

// GetSubject returns the subject for id, or nil when unknown.
func GetSubject(id string) *Subject {
	return subjects[id]
}

// Subjects lists every bundled subject.
func Subjects() []*Subject {
	list := make([]*Subject, 0, len(subjects))
	for _, s := range subjects {
		list = append(list, s)
	}
	return list
}

// DefaultSubject returns the bundled subject every new learner starts with.
func DefaultSubject() *Subject {
	return operatingSystems
}

// Resolve looks up a sub-concept id within the subject, reporting whether
// it exists.
func (s *Subject) Resolve(subConceptID string) (int, bool) {
	for i, sc := range s.SubConcepts {
		if sc.ID == subConceptID {
			return i, true
		}
	}
	return 0, false
}

// IndexOf resolves a sub-concept id to its position within the subject.
// Unknown identifiers resolve to 0 so a bad route parameter lands the
// learner on the first concept instead of erroring.
func (s *Subject) IndexOf(subConceptID string) int {
	index, _ := s.Resolve(subConceptID)
	return index
}

// QuizFor returns the bundled quiz for a sub-concept id, or nil when the
// sub-concept has no bundled quiz.
func QuizFor(subConceptID string) *Quiz {
	return quizzes[subConceptID]
}

package domain

import "time"

// ExamType identifies the examination body a quiz draws questions from.
type ExamType string

const (
	ExamTypeJAMB ExamType = "JAMB"
	ExamTypeWAEC ExamType = "WAEC"
)

// QuizMode distinguishes untimed practice from timed exam simulation.
type QuizMode string

const (
	ModePractice QuizMode = "practice"
	ModeExam     QuizMode = "exam"
)

// SelectionMethod is the axis used to pick questions for a quiz.
type SelectionMethod string

const (
	SelectBySubject  SelectionMethod = "subject"
	SelectByYear     SelectionMethod = "year"
	SelectByCategory SelectionMethod = "category"
)

// ClassCategory groups subjects under a curriculum track.
type ClassCategory string

const (
	CategoryScience    ClassCategory = "SCIENCE"
	CategoryArts       ClassCategory = "ARTS"
	CategoryCommercial ClassCategory = "COMMERCIAL"
)

// Subject is a course of study questions are filed under.
type Subject struct {
	ID        string     `json:"id"`
	Slug      string     `json:"slug"`
	Name      string     `json:"name"`
	ExamTypes []ExamType `json:"examTypes"`
}

// SupportsExamType reports whether the subject is offered for the given body.
func (s Subject) SupportsExamType(et ExamType) bool {
	for _, t := range s.ExamTypes {
		if t == et {
			return true
		}
	}
	return false
}

// Topic is the legacy intermediate categorization under a subject. Questions
// may reference a topic, a subject directly, or both.
type Topic struct {
	ID        string `json:"id"`
	SubjectID string `json:"subjectId"`
	Name      string `json:"name"`
}

// QuestionRecord is the persisted shape of a question. SubjectID and TopicID
// are each optional, but at least one is always set (store-level constraint);
// callers must not assume which.
type QuestionRecord struct {
	ID            string
	SubjectID     string
	TopicID       string
	Text          string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectAnswer string
	Explanation   string
	ExamType      ExamType
	ExamYear      int
}

// Option is one selectable answer, keyed A through D.
type Option struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// QuizQuestion is the normalized read-only projection the session consumes.
// Whether the underlying record was linked via topic or directly via subject
// is erased here.
type QuizQuestion struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Options     []Option `json:"options"`
	Correct     string   `json:"correct,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	ExamYear    int      `json:"examYear,omitempty"`
	ExamType    ExamType `json:"examType,omitempty"`
	SubjectSlug string   `json:"subjectSlug,omitempty"`
	SubjectName string   `json:"subjectName,omitempty"`
}

// AttemptQuestion captures the per-question outcome stored with an attempt.
type AttemptQuestion struct {
	QuestionID string `json:"questionId"`
	Selected   string `json:"selected,omitempty"`
	Correct    string `json:"correct,omitempty"`
	IsCorrect  bool   `json:"isCorrect"`
}

// Attempt is the persisted record of one completed quiz session's outcome.
type Attempt struct {
	ID               string            `json:"id"`
	SubjectID        string            `json:"subjectId,omitempty"`
	QuizMode         QuizMode          `json:"quizMode"`
	TotalQuestions   int               `json:"totalQuestions"`
	CorrectAnswers   int               `json:"correctAnswers"`
	ScorePercentage  float64           `json:"scorePercentage"`
	TimeTakenSeconds int               `json:"timeTakenSeconds"`
	ExamType         ExamType          `json:"examType,omitempty"`
	ExamYear         int               `json:"examYear,omitempty"`
	AutoSubmitted    bool              `json:"autoSubmitted"`
	Questions        []AttemptQuestion `json:"questionsData"`
	CreatedAt        time.Time         `json:"createdAt"`
}

// OptionKeys is the fixed presentation order for answer options.
var OptionKeys = []string{"A", "B", "C", "D"}

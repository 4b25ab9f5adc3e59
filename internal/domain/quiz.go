package domain

import (
	"time"
)

// Difficulty is a quiz generation parameter influencing question complexity.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty validates and normalizes a difficulty string.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s), nil
	}
	return "", NewValidationError("difficulty must be one of: easy, medium, hard")
}

const (
	MinQuestions = 1
	MaxQuestions = 20
)

// QuizQuestion is a single multiple-choice question. Options carry the
// "A. ..." prefix; CorrectAnswer is the bare option letter.
//
// When generation output cannot be parsed, the quiz degrades to a single
// entry carrying Error and RawResponse instead of question material, so the
// caller can still inspect the quiz metadata and the raw model output.
type QuizQuestion struct {
	Question      string   `json:"question,omitempty"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
	Error         string   `json:"error,omitempty"`
	RawResponse   string   `json:"raw_response,omitempty"`
}

// Quiz is an immutable set of generated questions for one document.
type Quiz struct {
	ID           string         `json:"quiz_id"`
	DocumentID   string         `json:"document_id"`
	GeneratedAt  time.Time      `json:"generated_at"`
	Difficulty   Difficulty     `json:"difficulty"`
	NumQuestions int            `json:"num_questions"`
	Questions    []QuizQuestion `json:"questions"`
}

// QuizMeta is the listing view of a quiz; it excludes the questions so list
// responses stay bounded.
type QuizMeta struct {
	ID           string     `json:"quiz_id"`
	DocumentID   string     `json:"document_id"`
	GeneratedAt  time.Time  `json:"generated_at"`
	Difficulty   Difficulty `json:"difficulty"`
	NumQuestions int        `json:"num_questions"`
}

// Meta returns the metadata view of the quiz.
func (q *Quiz) Meta() QuizMeta {
	return QuizMeta{
		ID:           q.ID,
		DocumentID:   q.DocumentID,
		GeneratedAt:  q.GeneratedAt,
		Difficulty:   q.Difficulty,
		NumQuestions: q.NumQuestions,
	}
}

// FeedbackItem explains the outcome of a single submitted answer.
// QuestionNumber is 1-based.
type FeedbackItem struct {
	QuestionNumber int    `json:"question_number"`
	IsCorrect      bool   `json:"is_correct"`
	UserAnswer     string `json:"user_answer"`
	CorrectAnswer  string `json:"correct_answer"`
	Explanation    string `json:"explanation"`
}

// QuizResult is the outcome of one evaluation pass over a quiz. A quiz may be
// evaluated any number of times; each evaluation appends a fresh result.
type QuizResult struct {
	ResultID       string         `json:"result_id"`
	QuizID         string         `json:"quiz_id"`
	CompletedAt    time.Time      `json:"completed_at"`
	UserAnswers    []string       `json:"user_answers"`
	Score          float64        `json:"score"`
	CorrectCount   int            `json:"correct_count"`
	TotalQuestions int            `json:"total_questions"`
	Feedback       []FeedbackItem `json:"feedback"`
}

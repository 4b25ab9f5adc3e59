package dto

import "doctutor/internal/domain"

// GenerateQuizRequest asks for a new quiz over a document.
type GenerateQuizRequest struct {
	DocumentID   string `json:"document_id"`
	NumQuestions int    `json:"num_questions"`
	Difficulty   string `json:"difficulty"`
}

// QuizListResponse lists quiz metadata, never questions.
type QuizListResponse struct {
	Quizzes []domain.QuizMeta `json:"quizzes"`
}

// QuizSubmissionRequest submits one answer per question, in question order.
type QuizSubmissionRequest struct {
	Answers []string `json:"answers"`
}

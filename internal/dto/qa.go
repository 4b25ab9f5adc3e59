package dto

import "doctutor/internal/domain"

// QuestionRequest asks a question, optionally grounded in a document and
// optionally continuing a conversation (history ordered oldest-first).
type QuestionRequest struct {
	Question    string               `json:"question"`
	DocumentID  string               `json:"document_id,omitempty"`
	ChatHistory []domain.ChatMessage `json:"chat_history,omitempty"`
}

// QuestionResponse carries the answer and the passages that grounded it.
type QuestionResponse struct {
	Answer     string          `json:"answer"`
	Sources    []domain.Source `json:"sources"`
	DocumentID string          `json:"document_id,omitempty"`
}

// ExplanationRequest asks for a standalone concept explanation.
type ExplanationRequest struct {
	Concept string `json:"concept"`
}

// ExplanationResponse carries the generated explanation.
type ExplanationResponse struct {
	Concept     string `json:"concept"`
	Explanation string `json:"explanation"`
}

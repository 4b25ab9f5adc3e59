package handler

import (
	"doctutor/internal/domain"
	"doctutor/internal/dto"
	"doctutor/internal/service"

	"github.com/gofiber/fiber/v2"
)

// QAHandler handles question answering HTTP requests.
type QAHandler struct {
	answers      *service.AnswerService
	explanations *service.ExplanationService
}

func NewQAHandler(answers *service.AnswerService, explanations *service.ExplanationService) *QAHandler {
	return &QAHandler{answers: answers, explanations: explanations}
}

// Ask handles POST /api/qa/ask. With a document_id the answer is grounded in
// that document's passages; without one the question is answered from
// general knowledge.
func (h *QAHandler) Ask(c *fiber.Ctx) error {
	var req dto.QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}

	answer, err := h.answers.Ask(c.Context(), req.Question, req.DocumentID, req.ChatHistory)
	if err != nil {
		return err
	}

	return c.JSON(dto.QuestionResponse{
		Answer:     answer.Text,
		Sources:    answer.Sources,
		DocumentID: answer.DocumentID,
	})
}

// Chat handles POST /api/qa/chat. It is the same answer path as Ask; the
// chat history in the request keeps the conversation context.
func (h *QAHandler) Chat(c *fiber.Ctx) error {
	return h.Ask(c)
}

// ExplainConcept handles POST /api/explanation/concept
func (h *QAHandler) ExplainConcept(c *fiber.Ctx) error {
	var req dto.ExplanationRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}

	explanation, err := h.explanations.Explain(c.Context(), req.Concept)
	if err != nil {
		return err
	}

	return c.JSON(dto.ExplanationResponse{
		Concept:     req.Concept,
		Explanation: explanation,
	})
}

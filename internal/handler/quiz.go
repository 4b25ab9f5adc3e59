package handler

import (
	"doctutor/internal/domain"
	"doctutor/internal/dto"
	"doctutor/internal/service"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz generation, retrieval and submission HTTP requests.
type QuizHandler struct {
	service *service.QuizService
}

func NewQuizHandler(service *service.QuizService) *QuizHandler {
	return &QuizHandler{service: service}
}

// Generate handles POST /api/quiz/generate
func (h *QuizHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	if req.DocumentID == "" {
		return domain.NewValidationError("document_id is required")
	}
	if req.NumQuestions == 0 {
		req.NumQuestions = 5
	}
	if req.Difficulty == "" {
		req.Difficulty = string(domain.DifficultyMedium)
	}

	quiz, err := h.service.Generate(c.Context(), req.DocumentID, req.NumQuestions, req.Difficulty)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(quiz)
}

// Get handles GET /api/quiz/:id
func (h *QuizHandler) Get(c *fiber.Ctx) error {
	quiz, err := h.service.Get(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

// ListAll handles GET /api/quizzes
func (h *QuizHandler) ListAll(c *fiber.Ctx) error {
	metas, err := h.service.ListAll()
	if err != nil {
		return err
	}
	return c.JSON(dto.QuizListResponse{Quizzes: metas})
}

// ListForDocument handles GET /api/documents/:id/quizzes
func (h *QuizHandler) ListForDocument(c *fiber.Ctx) error {
	metas, err := h.service.ListForDocument(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.QuizListResponse{Quizzes: metas})
}

// Submit handles POST /api/quiz/:id/submit
func (h *QuizHandler) Submit(c *fiber.Ctx) error {
	var req dto.QuizSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}

	result, err := h.service.Evaluate(c.Params("id"), req.Answers)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

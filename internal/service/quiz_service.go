package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"doctutor/internal/domain"
	"doctutor/internal/logger"
	"doctutor/internal/util"

	"go.uber.org/zap"
)

// contentPrefixCap bounds how much document text enters the generation
// prompt. Large documents would otherwise overrun the model's input limit;
// truncation is deterministic so repeated generations see the same prefix.
const contentPrefixCap = 3000

const quizSystemMessage = "You are an expert at creating educational quiz questions from study material. " +
	"Generate multiple-choice questions that test understanding of the material. " +
	"Each question must have four options with exactly one correct answer."

// QuizService generates quizzes from documents via the text-generation
// service, and evaluates submissions against stored quizzes.
type QuizService struct {
	docs      domain.DocumentRepository
	quizzes   domain.QuizRepository
	generator domain.TextGenerator
}

func NewQuizService(docs domain.DocumentRepository, quizzes domain.QuizRepository, generator domain.TextGenerator) *QuizService {
	return &QuizService{docs: docs, quizzes: quizzes, generator: generator}
}

// Generate creates a quiz of numQuestions MCQ items from the document's
// content. Out-of-range counts and unknown difficulties fail validation; a
// missing document is NotFound. When the model's output cannot be parsed,
// the quiz is still created with a single structured error entry carrying
// the raw response.
func (s *QuizService) Generate(ctx context.Context, documentID string, numQuestions int, difficulty string) (*domain.Quiz, error) {
	if numQuestions < domain.MinQuestions || numQuestions > domain.MaxQuestions {
		return nil, domain.NewValidationError(fmt.Sprintf(
			"num_questions must be between %d and %d", domain.MinQuestions, domain.MaxQuestions))
	}
	level, err := domain.ParseDifficulty(difficulty)
	if err != nil {
		return nil, err
	}

	doc, err := s.docs.Get(documentID)
	if err != nil {
		return nil, err
	}

	content := doc.Content
	if len(content) > contentPrefixCap {
		content = content[:contentPrefixCap]
	}

	prompt := buildQuizPrompt(content, numQuestions, level)
	response, err := s.generator.Generate(ctx, quizSystemMessage, prompt, nil)
	if err != nil {
		return nil, err
	}

	questions := parseQuizQuestions(response)

	quiz := &domain.Quiz{
		ID:           util.NewULID(),
		DocumentID:   documentID,
		GeneratedAt:  time.Now().UTC(),
		Difficulty:   level,
		NumQuestions: numQuestions,
		Questions:    questions,
	}
	if err := s.quizzes.SaveQuiz(quiz); err != nil {
		return nil, err
	}

	logger.Get().Info("Quiz generated",
		zap.String("quiz_id", quiz.ID),
		zap.String("document_id", documentID),
		zap.Int("questions", len(quiz.Questions)))
	return quiz, nil
}

// Get returns a stored quiz with its questions.
func (s *QuizService) Get(quizID string) (*domain.Quiz, error) {
	return s.quizzes.GetQuiz(quizID)
}

// ListAll returns metadata for every stored quiz.
func (s *QuizService) ListAll() ([]domain.QuizMeta, error) {
	return s.quizzes.ListAll()
}

// ListForDocument returns metadata for the quizzes of one document.
func (s *QuizService) ListForDocument(documentID string) ([]domain.QuizMeta, error) {
	return s.quizzes.ListForDocument(documentID)
}

// Evaluate scores submittedAnswers against the stored quiz. The answer count
// must match the question count exactly; comparison is case-sensitive string
// equality against the stored correct answer. Each call appends a fresh
// result record; the quiz itself is never mutated.
func (s *QuizService) Evaluate(quizID string, submittedAnswers []string) (*domain.QuizResult, error) {
	quiz, err := s.quizzes.GetQuiz(quizID)
	if err != nil {
		return nil, err
	}

	if len(submittedAnswers) != len(quiz.Questions) {
		return nil, domain.NewValidationError(fmt.Sprintf(
			"expected %d answers, got %d", len(quiz.Questions), len(submittedAnswers)))
	}

	correctCount := 0
	feedback := make([]domain.FeedbackItem, 0, len(quiz.Questions))
	for i, question := range quiz.Questions {
		isCorrect := submittedAnswers[i] == question.CorrectAnswer
		if isCorrect {
			correctCount++
		}
		feedback = append(feedback, domain.FeedbackItem{
			QuestionNumber: i + 1,
			IsCorrect:      isCorrect,
			UserAnswer:     submittedAnswers[i],
			CorrectAnswer:  question.CorrectAnswer,
			Explanation:    question.Explanation,
		})
	}

	totalQuestions := len(quiz.Questions)
	score := 0.0
	if totalQuestions > 0 {
		score = float64(correctCount) / float64(totalQuestions) * 100
	}

	result := &domain.QuizResult{
		ResultID:       util.NewULID(),
		QuizID:         quizID,
		CompletedAt:    time.Now().UTC(),
		UserAnswers:    submittedAnswers,
		Score:          score,
		CorrectCount:   correctCount,
		TotalQuestions: totalQuestions,
		Feedback:       feedback,
	}
	if err := s.quizzes.SaveResult(result); err != nil {
		return nil, err
	}
	return result, nil
}

func buildQuizPrompt(content string, numQuestions int, difficulty domain.Difficulty) string {
	return fmt.Sprintf(`Generate exactly %d %s-difficulty multiple-choice quiz questions based on the following content.
For each question, provide 4 options and indicate the correct answer.

Content: %s

Format each question as a JSON object with the following structure:
{
    "question": "...",
    "options": ["A. ...", "B. ...", "C. ...", "D. ..."],
    "correct_answer": "A",
    "explanation": "..."
}

Return the questions as a valid JSON array and nothing else.`, numQuestions, difficulty, content)
}

// parseQuizQuestions decodes the model output tolerantly: an optional code
// fence around the JSON array is stripped before parsing. A response that
// still fails to decode produces a single structured error entry instead of
// an error, so the quiz and its metadata survive.
func parseQuizQuestions(response string) []domain.QuizQuestion {
	cleaned := stripCodeFence(response)

	var questions []domain.QuizQuestion
	if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
		logger.Get().Warn("Failed to parse quiz generation output",
			zap.Error(err), zap.Int("response_length", len(response)))
		return []domain.QuizQuestion{{
			Error:       "Failed to parse generation output as JSON",
			RawResponse: response,
		}}
	}
	return questions
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "```json"); idx != -1 {
		s = s[idx+len("```json"):]
		if end := strings.Index(s, "```"); end != -1 {
			s = s[:end]
		}
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if end := strings.Index(s, "```"); end != -1 {
			s = s[:end]
		}
	}
	return strings.TrimSpace(s)
}

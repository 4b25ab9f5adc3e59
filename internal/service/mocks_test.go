package service

import (
	"context"

	"doctutor/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockDocumentRepository ---
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) SaveUpload(raw []byte, originalFilename string) (string, string, error) {
	args := m.Called(raw, originalFilename)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockDocumentRepository) Persist(documentID string, content string) (*domain.Document, error) {
	args := m.Called(documentID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) Get(documentID string) (*domain.Document, error) {
	args := m.Called(documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) List() ([]domain.DocumentMeta, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentMeta), args.Error(1)
}

func (m *MockDocumentRepository) Delete(documentID string) (bool, error) {
	args := m.Called(documentID)
	return args.Bool(0), args.Error(1)
}

// --- MockQuizRepository ---
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) SaveQuiz(quiz *domain.Quiz) error {
	args := m.Called(quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) GetQuiz(quizID string) (*domain.Quiz, error) {
	args := m.Called(quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) ListAll() ([]domain.QuizMeta, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuizMeta), args.Error(1)
}

func (m *MockQuizRepository) ListForDocument(documentID string) ([]domain.QuizMeta, error) {
	args := m.Called(documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuizMeta), args.Error(1)
}

func (m *MockQuizRepository) SaveResult(result *domain.QuizResult) error {
	args := m.Called(result)
	return args.Error(0)
}

// --- MockTextGenerator ---
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, systemMessage, prompt string, history []domain.ChatMessage) (string, error) {
	args := m.Called(ctx, systemMessage, prompt, history)
	return args.String(0), args.Error(1)
}

package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"doctutor/internal/domain"
	"doctutor/internal/logger"
	"doctutor/internal/util"

	"go.uber.org/zap"
)

const resultFilePrefix = "result_"

// QuizStore persists quizzes and evaluation results as JSON records under a
// dedicated quizzes directory. Quizzes are immutable once saved; each
// evaluation appends a distinct result record.
type QuizStore struct {
	quizDir string
	locks   *util.KeyedMutex
}

// NewQuizStore creates the store and its directory.
func NewQuizStore(outputDir string) (*QuizStore, error) {
	quizDir := filepath.Join(outputDir, "quizzes")
	if err := os.MkdirAll(quizDir, 0o755); err != nil {
		return nil, domain.NewIOError(fmt.Sprintf("failed to create directory %s", quizDir), err)
	}
	return &QuizStore{quizDir: quizDir, locks: util.NewKeyedMutex()}, nil
}

// SaveQuiz persists a generated quiz.
func (s *QuizStore) SaveQuiz(quiz *domain.Quiz) error {
	unlock := s.locks.Lock(quiz.ID)
	defer unlock()

	if err := util.WriteJSONAtomic(s.quizPath(quiz.ID), quiz); err != nil {
		return domain.NewIOError("failed to save quiz", err)
	}
	return nil
}

// GetQuiz returns the stored quiz, or NotFound.
func (s *QuizStore) GetQuiz(quizID string) (*domain.Quiz, error) {
	var quiz domain.Quiz
	if err := util.ReadJSONFile(s.quizPath(quizID), &quiz); err != nil {
		if os.IsNotExist(err) {
			return nil, domain.NewQuizNotFoundError(quizID)
		}
		return nil, domain.NewIOError("failed to read quiz record", err)
	}
	return &quiz, nil
}

// ListAll returns metadata for every stored quiz. The questions are excluded
// to keep listings bounded.
func (s *QuizStore) ListAll() ([]domain.QuizMeta, error) {
	return s.list(func(*domain.Quiz) bool { return true })
}

// ListForDocument returns metadata for all quizzes generated from the given
// document.
func (s *QuizStore) ListForDocument(documentID string) ([]domain.QuizMeta, error) {
	return s.list(func(q *domain.Quiz) bool { return q.DocumentID == documentID })
}

// SaveResult appends an evaluation result record. Result records never
// overwrite one another; ids are fresh per evaluation.
func (s *QuizStore) SaveResult(result *domain.QuizResult) error {
	path := filepath.Join(s.quizDir, resultFilePrefix+result.ResultID+".json")
	if err := util.WriteJSONAtomic(path, result); err != nil {
		return domain.NewIOError("failed to save quiz result", err)
	}
	return nil
}

func (s *QuizStore) list(keep func(*domain.Quiz) bool) ([]domain.QuizMeta, error) {
	entries, err := os.ReadDir(s.quizDir)
	if err != nil {
		return nil, domain.NewIOError("failed to list quizzes", err)
	}

	metas := make([]domain.QuizMeta, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, resultFilePrefix) {
			continue
		}
		var quiz domain.Quiz
		if err := util.ReadJSONFile(filepath.Join(s.quizDir, name), &quiz); err != nil {
			logger.Get().Warn("Skipping unreadable quiz record",
				zap.String("file", name), zap.Error(err))
			continue
		}
		if keep(&quiz) {
			metas = append(metas, quiz.Meta())
		}
	}
	return metas, nil
}

func (s *QuizStore) quizPath(quizID string) string {
	return filepath.Join(s.quizDir, quizID+".json")
}

var _ domain.QuizRepository = (*QuizStore)(nil)

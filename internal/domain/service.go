package domain

import "context"

// EmbeddingService defines the interface for generating text embeddings.
type EmbeddingService interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}

// ChatRole identifies the author of a prior conversation turn.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is a single prior turn supplied with a question. History is
// ordered oldest-first.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// TextGenerator defines the interface for the external text-generation service.
// History may be nil.
type TextGenerator interface {
	Generate(ctx context.Context, systemMessage, prompt string, history []ChatMessage) (string, error)
}

// DocumentRepository defines the persistence port for raw uploads and
// extracted documents. SaveUpload assigns the document id; the returned path
// is recorded so deletion removes exactly that file.
type DocumentRepository interface {
	SaveUpload(raw []byte, originalFilename string) (documentID string, rawPath string, err error)
	Persist(documentID string, content string) (*Document, error)
	Get(documentID string) (*Document, error)
	List() ([]DocumentMeta, error)
	Delete(documentID string) (bool, error)
}

// QuizRepository defines the persistence port for quizzes and their results.
type QuizRepository interface {
	SaveQuiz(quiz *Quiz) error
	GetQuiz(quizID string) (*Quiz, error)
	ListAll() ([]QuizMeta, error)
	ListForDocument(documentID string) ([]QuizMeta, error)
	SaveResult(result *QuizResult) error
}

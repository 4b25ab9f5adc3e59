// Package index builds, persists and queries per-document passage indexes.
package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"doctutor/internal/domain"
	"doctutor/internal/logger"
	"doctutor/internal/util"

	"go.uber.org/zap"
)

const (
	indexFileName  = "index.json"
	ledgerFileName = "metadata.json"
)

// Manager owns the per-document passage indexes: it chunks and embeds
// document text, persists the result under a per-document directory, records
// it in an index-wide ledger, and answers similarity queries. Loaded indexes
// are cached in memory and evicted on delete.
//
// Operations on the same document id are serialized; different ids proceed in
// parallel.
type Manager struct {
	indicesDir string
	embedder   domain.EmbeddingService
	chunker    *Chunker

	cacheMu sync.RWMutex
	cache   map[string]*domain.Index

	locks      *util.KeyedMutex
	ledgerLock sync.Mutex
}

// NewManager creates the manager and its indices directory.
func NewManager(outputDir string, embedder domain.EmbeddingService, chunker *Chunker) (*Manager, error) {
	indicesDir := filepath.Join(outputDir, "indices")
	if err := os.MkdirAll(indicesDir, 0o755); err != nil {
		return nil, domain.NewIOError(fmt.Sprintf("failed to create directory %s", indicesDir), err)
	}
	return &Manager{
		indicesDir: indicesDir,
		embedder:   embedder,
		chunker:    chunker,
		cache:      make(map[string]*domain.Index),
		locks:      util.NewKeyedMutex(),
	}, nil
}

// Build chunks the text, embeds every passage, and persists the index plus
// its ledger entry. Rebuilding replaces any previous index for the id.
func (m *Manager) Build(ctx context.Context, documentID string, text string) error {
	unlock := m.locks.Lock(documentID)
	defer unlock()

	passages := m.chunker.Split(text)
	if len(passages) == 0 {
		return domain.NewValidationError("document has no extractable text to index")
	}

	idx := &domain.Index{
		DocumentID: documentID,
		Passages:   make([]domain.Passage, 0, len(passages)),
		IndexedAt:  time.Now().UTC(),
	}
	for i, passage := range passages {
		vector, err := m.embedder.Generate(ctx, passage)
		if err != nil {
			return domain.NewExternalServiceError("embedding", err)
		}
		idx.Passages = append(idx.Passages, domain.Passage{
			Text:      passage,
			Embedding: vector,
			Position:  i,
		})
	}

	indexDir := filepath.Join(m.indicesDir, documentID)
	if err := os.MkdirAll(indexDir, 0o755); err != nil {
		return domain.NewIOError("failed to create index directory", err)
	}
	if err := util.WriteJSONAtomic(filepath.Join(indexDir, indexFileName), idx); err != nil {
		return domain.NewIOError("failed to persist index", err)
	}

	if err := m.updateLedger(func(ledger map[string]domain.IndexEntry) {
		ledger[documentID] = domain.IndexEntry{
			IndexedAt:     idx.IndexedAt,
			IndexLocation: indexDir,
		}
	}); err != nil {
		return err
	}

	m.cacheMu.Lock()
	m.cache[documentID] = idx
	m.cacheMu.Unlock()

	logger.Get().Info("Document indexed",
		zap.String("document_id", documentID),
		zap.Int("passages", len(idx.Passages)))
	return nil
}

// Load returns the index for the document, from the in-memory cache when
// present, otherwise from disk (caching the result). NotFound if the
// document was never indexed.
func (m *Manager) Load(documentID string) (*domain.Index, error) {
	m.cacheMu.RLock()
	idx, ok := m.cache[documentID]
	m.cacheMu.RUnlock()
	if ok {
		return idx, nil
	}

	unlock := m.locks.Lock(documentID)
	defer unlock()

	indexPath := filepath.Join(m.indicesDir, documentID, indexFileName)
	var loaded domain.Index
	if err := util.ReadJSONFile(indexPath, &loaded); err != nil {
		if os.IsNotExist(err) {
			return nil, domain.NewIndexNotFoundError(documentID)
		}
		return nil, domain.NewIOError("failed to load index", err)
	}

	m.cacheMu.Lock()
	m.cache[documentID] = &loaded
	m.cacheMu.Unlock()
	return &loaded, nil
}

// Search embeds the question and returns the topK most similar passages,
// highest score first. Ties keep original passage order.
func (m *Manager) Search(ctx context.Context, documentID string, question string, topK int) ([]domain.Source, error) {
	idx, err := m.Load(documentID)
	if err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = 3
	}

	queryVector, err := m.embedder.Generate(ctx, question)
	if err != nil {
		return nil, domain.NewExternalServiceError("embedding", err)
	}

	type scored struct {
		passage domain.Passage
		score   float64
	}
	results := make([]scored, 0, len(idx.Passages))
	for _, p := range idx.Passages {
		score, err := util.CosineSimilarity(queryVector, p.Embedding)
		if err != nil {
			logger.Get().Warn("Skipping passage with incompatible embedding",
				zap.String("document_id", documentID),
				zap.Int("position", p.Position),
				zap.Error(err))
			continue
		}
		results = append(results, scored{passage: p, score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	if topK > len(results) {
		topK = len(results)
	}

	sources := make([]domain.Source, 0, topK)
	for _, r := range results[:topK] {
		sources = append(sources, domain.Source{Text: r.passage.Text, Score: r.score})
	}
	return sources, nil
}

// Delete evicts the cached index, removes the persisted directory and the
// ledger entry. Deleting an absent index is not an error.
func (m *Manager) Delete(documentID string) error {
	unlock := m.locks.Lock(documentID)
	defer unlock()

	m.cacheMu.Lock()
	delete(m.cache, documentID)
	m.cacheMu.Unlock()

	indexDir := filepath.Join(m.indicesDir, documentID)
	if err := os.RemoveAll(indexDir); err != nil {
		return domain.NewIOError("failed to delete index directory", err)
	}

	return m.updateLedger(func(ledger map[string]domain.IndexEntry) {
		delete(ledger, documentID)
	})
}

// ListIndexed returns the ids of all documents with a recorded index.
func (m *Manager) ListIndexed() ([]string, error) {
	m.ledgerLock.Lock()
	defer m.ledgerLock.Unlock()

	ledger, err := m.readLedger()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(ledger))
	for id := range ledger {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *Manager) updateLedger(mutate func(map[string]domain.IndexEntry)) error {
	m.ledgerLock.Lock()
	defer m.ledgerLock.Unlock()

	ledger, err := m.readLedger()
	if err != nil {
		return err
	}
	mutate(ledger)
	if err := util.WriteJSONAtomic(filepath.Join(m.indicesDir, ledgerFileName), ledger); err != nil {
		return domain.NewIOError("failed to update index ledger", err)
	}
	return nil
}

func (m *Manager) readLedger() (map[string]domain.IndexEntry, error) {
	ledger := make(map[string]domain.IndexEntry)
	if err := util.ReadJSONFile(filepath.Join(m.indicesDir, ledgerFileName), &ledger); err != nil && !os.IsNotExist(err) {
		return nil, domain.NewIOError("failed to read index ledger", err)
	}
	return ledger, nil
}

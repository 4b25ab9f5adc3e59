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

const uploadManifestName = "manifest.json"

// DocumentStore persists raw uploads and extracted document content as JSON
// records on disk. Content records live under outputDir as <id>.json; raw
// uploads under uploadDir with an explicit id-to-path manifest, so deletion
// removes exactly the file that belongs to the id.
type DocumentStore struct {
	uploadDir string
	outputDir string
	locks     *util.KeyedMutex
	// manifestLock serializes manifest read-modify-write cycles.
	manifestLock *util.KeyedMutex
}

// NewDocumentStore creates the store and its directories.
func NewDocumentStore(uploadDir, outputDir string) (*DocumentStore, error) {
	for _, dir := range []string{uploadDir, outputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, domain.NewIOError(fmt.Sprintf("failed to create directory %s", dir), err)
		}
	}
	return &DocumentStore{
		uploadDir:    uploadDir,
		outputDir:    outputDir,
		locks:        util.NewKeyedMutex(),
		manifestLock: util.NewKeyedMutex(),
	}, nil
}

// SaveUpload assigns a fresh document id and writes the raw bytes under a
// path derived from it. The id-to-path mapping is recorded in the manifest
// regardless of any later extraction outcome.
func (s *DocumentStore) SaveUpload(raw []byte, originalFilename string) (string, string, error) {
	documentID := util.NewULID()
	ext := strings.ToLower(filepath.Ext(originalFilename))
	rawPath := filepath.Join(s.uploadDir, documentID+ext)

	if err := os.WriteFile(rawPath, raw, 0o644); err != nil {
		return "", "", domain.NewIOError("failed to save uploaded file", err)
	}

	if err := s.recordUpload(documentID, rawPath); err != nil {
		return "", "", err
	}
	return documentID, rawPath, nil
}

// Persist writes the extracted content record for a document.
func (s *DocumentStore) Persist(documentID string, content string) (*domain.Document, error) {
	unlock := s.locks.Lock(documentID)
	defer unlock()

	doc := domain.NewDocument(documentID, content)
	if err := util.WriteJSONAtomic(s.recordPath(documentID), doc); err != nil {
		return nil, domain.NewIOError("failed to persist document content", err)
	}
	return doc, nil
}

// Get returns the extracted document, or NotFound.
func (s *DocumentStore) Get(documentID string) (*domain.Document, error) {
	var doc domain.Document
	if err := util.ReadJSONFile(s.recordPath(documentID), &doc); err != nil {
		if os.IsNotExist(err) {
			return nil, domain.NewDocumentNotFoundError(documentID)
		}
		return nil, domain.NewIOError("failed to read document record", err)
	}
	return &doc, nil
}

// List returns metadata for all persisted documents, never full content.
func (s *DocumentStore) List() ([]domain.DocumentMeta, error) {
	entries, err := os.ReadDir(s.outputDir)
	if err != nil {
		return nil, domain.NewIOError("failed to list documents", err)
	}

	metas := make([]domain.DocumentMeta, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		var doc domain.Document
		if err := util.ReadJSONFile(filepath.Join(s.outputDir, entry.Name()), &doc); err != nil {
			logger.Get().Warn("Skipping unreadable document record",
				zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		metas = append(metas, domain.DocumentMeta{
			ID:            doc.ID,
			ExtractedAt:   doc.ExtractedAt,
			ContentLength: doc.ContentLength(),
		})
	}
	return metas, nil
}

// Delete removes the document's content record and, best-effort, its raw
// upload. It returns false if no record existed; repeated deletion is not an
// error.
func (s *DocumentStore) Delete(documentID string) (bool, error) {
	unlock := s.locks.Lock(documentID)
	defer unlock()

	recordPath := s.recordPath(documentID)
	if _, err := os.Stat(recordPath); os.IsNotExist(err) {
		return false, nil
	}
	if err := os.Remove(recordPath); err != nil {
		return false, domain.NewIOError("failed to delete document record", err)
	}

	// Raw upload cleanup uses the manifest mapping, never filename guessing.
	// A failure here is logged but does not fail the delete.
	if rawPath, ok := s.lookupUpload(documentID); ok {
		if err := os.Remove(rawPath); err != nil && !os.IsNotExist(err) {
			logger.Get().Warn("Failed to delete raw upload",
				zap.String("document_id", documentID),
				zap.String("path", rawPath),
				zap.Error(err))
		}
		s.forgetUpload(documentID)
	}

	return true, nil
}

func (s *DocumentStore) recordPath(documentID string) string {
	return filepath.Join(s.outputDir, documentID+".json")
}

func (s *DocumentStore) manifestPath() string {
	return filepath.Join(s.uploadDir, uploadManifestName)
}

func (s *DocumentStore) recordUpload(documentID, rawPath string) error {
	unlock := s.manifestLock.Lock(uploadManifestName)
	defer unlock()

	manifest := s.readManifest()
	manifest[documentID] = rawPath
	if err := util.WriteJSONAtomic(s.manifestPath(), manifest); err != nil {
		return domain.NewIOError("failed to update upload manifest", err)
	}
	return nil
}

func (s *DocumentStore) lookupUpload(documentID string) (string, bool) {
	unlock := s.manifestLock.Lock(uploadManifestName)
	defer unlock()

	path, ok := s.readManifest()[documentID]
	return path, ok
}

func (s *DocumentStore) forgetUpload(documentID string) {
	unlock := s.manifestLock.Lock(uploadManifestName)
	defer unlock()

	manifest := s.readManifest()
	if _, ok := manifest[documentID]; !ok {
		return
	}
	delete(manifest, documentID)
	if err := util.WriteJSONAtomic(s.manifestPath(), manifest); err != nil {
		logger.Get().Warn("Failed to update upload manifest after delete", zap.Error(err))
	}
}

func (s *DocumentStore) readManifest() map[string]string {
	manifest := make(map[string]string)
	if err := util.ReadJSONFile(s.manifestPath(), &manifest); err != nil && !os.IsNotExist(err) {
		logger.Get().Warn("Failed to read upload manifest", zap.Error(err))
	}
	return manifest
}

var _ domain.DocumentRepository = (*DocumentStore)(nil)

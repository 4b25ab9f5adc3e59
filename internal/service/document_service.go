package service

import (
	"context"

	"doctutor/internal/domain"
	"doctutor/internal/extract"
	"doctutor/internal/index"
	"doctutor/internal/logger"

	"go.uber.org/zap"
)

// DocumentService owns the document lifecycle: raw upload, text extraction,
// content persistence, index build and transactional deletion across content
// and index.
type DocumentService struct {
	docs      domain.DocumentRepository
	extractor *extract.Extractor
	indexes   *index.Manager
}

func NewDocumentService(docs domain.DocumentRepository, extractor *extract.Extractor, indexes *index.Manager) *DocumentService {
	return &DocumentService{
		docs:      docs,
		extractor: extractor,
		indexes:   indexes,
	}
}

// Upload stores the raw bytes, extracts text by extension, persists the
// content record and kicks off the index build in the background. The
// document is usable for quiz generation as soon as Upload returns; queries
// become possible once the build completes.
func (s *DocumentService) Upload(ctx context.Context, raw []byte, originalFilename string) (*domain.Document, error) {
	documentID, rawPath, err := s.docs.SaveUpload(raw, originalFilename)
	if err != nil {
		return nil, err
	}

	content, err := s.extractor.Text(rawPath)
	if err != nil {
		return nil, err
	}

	doc, err := s.docs.Persist(documentID, content)
	if err != nil {
		return nil, err
	}

	go func() {
		buildCtx := context.WithoutCancel(ctx)
		if err := s.indexes.Build(buildCtx, documentID, content); err != nil {
			logger.Get().Error("Background index build failed",
				zap.String("document_id", documentID), zap.Error(err))
		}
	}()

	return doc, nil
}

// Get returns the extracted content record for a document.
func (s *DocumentService) Get(documentID string) (*domain.Document, error) {
	return s.docs.Get(documentID)
}

// List returns metadata for all stored documents.
func (s *DocumentService) List() ([]domain.DocumentMeta, error) {
	return s.docs.List()
}

// Delete removes the document's index first, then its content record, so a
// deleted document can never serve stale index data. Returns false when no
// document existed.
func (s *DocumentService) Delete(documentID string) (bool, error) {
	if err := s.indexes.Delete(documentID); err != nil {
		return false, err
	}
	return s.docs.Delete(documentID)
}

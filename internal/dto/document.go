package dto

import (
	"time"

	"doctutor/internal/domain"
)

// UploadResponse is returned after a successful upload and extraction.
type UploadResponse struct {
	DocumentID    string    `json:"document_id"`
	ContentLength int       `json:"content_length"`
	ExtractedAt   time.Time `json:"extracted_at"`
}

// DocumentResponse carries a document's full extracted content.
type DocumentResponse struct {
	DocumentID    string    `json:"document_id"`
	Content       string    `json:"content"`
	ContentLength int       `json:"content_length"`
	ExtractedAt   time.Time `json:"extracted_at"`
}

// DocumentListResponse lists document metadata, never content.
type DocumentListResponse struct {
	Documents []domain.DocumentMeta `json:"documents"`
}

// DeleteResponse reports whether anything was deleted.
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// ErrorResponse is the generic handler-level error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

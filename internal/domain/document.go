package domain

import "time"

// Document represents an extracted document's persisted content record.
// A document is immutable once extracted; deletion removes the record and
// any index built from it.
type Document struct {
	ID          string    `json:"file_id"`
	ExtractedAt time.Time `json:"extraction_date"`
	Content     string    `json:"content"`
}

// NewDocument creates a content record for an extracted document.
func NewDocument(id, content string) *Document {
	return &Document{
		ID:          id,
		ExtractedAt: time.Now().UTC(),
		Content:     content,
	}
}

// ContentLength returns the length of the extracted content in bytes.
func (d *Document) ContentLength() int {
	return len(d.Content)
}

// DocumentMeta is the listing view of a document. It never carries the full
// content so listing stays bounded regardless of document size.
type DocumentMeta struct {
	ID            string    `json:"file_id"`
	ExtractedAt   time.Time `json:"extraction_date"`
	ContentLength int       `json:"content_length"`
}

// Passage is a bounded unit of document text produced by chunking, the unit
// that gets embedded and retrieved.
type Passage struct {
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
	Position  int       `json:"position"`
}

// Index holds the embedded passages of a single document.
type Index struct {
	DocumentID string    `json:"document_id"`
	Passages   []Passage `json:"passages"`
	IndexedAt  time.Time `json:"indexed_at"`
}

// IndexEntry is a ledger record mapping a document id to its persisted index.
type IndexEntry struct {
	IndexedAt     time.Time `json:"indexed_at"`
	IndexLocation string    `json:"index_location"`
}

// Source is a retrieved passage with its similarity score to the query.
type Source struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

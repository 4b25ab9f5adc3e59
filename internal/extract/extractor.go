// Package extract pulls plain text out of uploaded document files.
// Dispatch is by file extension; only .pdf, .docx and .txt are accepted.
package extract

import (
	"os"
	"path/filepath"
	"strings"

	"doctutor/internal/domain"
	"doctutor/internal/logger"

	"github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// Extractor converts an uploaded file into plain text.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Text extracts the text content of the file at path. The extension decides
// the format; anything other than .pdf, .docx or .txt is rejected with
// UnsupportedFormat before any read is attempted.
func (e *Extractor) Text(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return e.fromPDF(path)
	case ".docx":
		return e.fromDOCX(path)
	case ".txt":
		return e.fromTXT(path)
	default:
		return "", domain.NewUnsupportedFormatError(ext)
	}
}

// fromPDF concatenates per-page text, separating pages with a newline.
func (e *Extractor) fromPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", domain.NewIOError("failed to open PDF file", err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Get().Warn("Failed to extract text from PDF page",
				zap.String("path", path), zap.Int("page", i), zap.Error(err))
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// fromDOCX degrades to an empty string on failure rather than failing the
// upload; the error is logged.
func (e *Extractor) fromDOCX(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		logger.Get().Error("Failed to open DOCX file", zap.String("path", path), zap.Error(err))
		return "", nil
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		logger.Get().Error("Failed to stat DOCX file", zap.String("path", path), zap.Error(err))
		return "", nil
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		logger.Get().Error("Failed to parse DOCX file", zap.String("path", path), zap.Error(err))
		return "", nil
	}

	var sb strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch block := item.(type) {
		case *docx.Paragraph:
			sb.WriteString(block.String())
			sb.WriteString("\n")
		case *docx.Table:
			sb.WriteString(block.String())
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

func (e *Extractor) fromTXT(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", domain.NewIOError("failed to read text file", err)
	}
	return string(data), nil
}

package handler

import (
	"io"

	"doctutor/internal/domain"
	"doctutor/internal/dto"
	"doctutor/internal/service"

	"github.com/gofiber/fiber/v2"
)

// DocumentHandler handles document upload and lifecycle HTTP requests.
type DocumentHandler struct {
	service *service.DocumentService
}

func NewDocumentHandler(service *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// Upload handles POST /api/documents/upload
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return domain.NewValidationError("multipart field 'file' is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return domain.NewIOError("failed to open uploaded file", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return domain.NewIOError("failed to read uploaded file", err)
	}

	doc, err := h.service.Upload(c.Context(), raw, fileHeader.Filename)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.UploadResponse{
		DocumentID:    doc.ID,
		ContentLength: doc.ContentLength(),
		ExtractedAt:   doc.ExtractedAt,
	})
}

// List handles GET /api/documents
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	metas, err := h.service.List()
	if err != nil {
		return err
	}
	return c.JSON(dto.DocumentListResponse{Documents: metas})
}

// Get handles GET /api/documents/:id
func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	doc, err := h.service.Get(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.DocumentResponse{
		DocumentID:    doc.ID,
		Content:       doc.Content,
		ContentLength: doc.ContentLength(),
		ExtractedAt:   doc.ExtractedAt,
	})
}

// Delete handles DELETE /api/documents/:id
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	deleted, err := h.service.Delete(c.Params("id"))
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NewDocumentNotFoundError(c.Params("id"))
	}
	return c.JSON(dto.DeleteResponse{Deleted: true})
}

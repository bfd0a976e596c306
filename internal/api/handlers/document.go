package handlers

import (
	"bytes"
	"net/http"

	"codeme-client/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DocumentHandler handles HTTP requests for documents
type DocumentHandler struct {
	documentService service.DocumentServiceInterface
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService service.DocumentServiceInterface) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
	}
}

// ListDocuments handles GET /documents
// @Summary List documents
// @Description Returns the logged-in user's documents, newest first
// @Tags documents
// @Produce json
// @Success 200 {array} models.Document "Successfully retrieved documents"
// @Failure 401 {object} ErrorResponse "Not logged in or token rejected"
// @Failure 502 {object} ErrorResponse "Backend unavailable or failed"
// @Router /documents [get]
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	docs, err := h.documentService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list documents")
		return
	}
	c.JSON(http.StatusOK, docs)
}

// UploadDocument handles POST /documents
// @Summary Upload a document
// @Description Uploads a file to the backend on behalf of the logged-in user
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param title formData string false "Document title; defaults to the file name"
// @Success 201 {object} models.Document "Successfully uploaded document"
// @Failure 400 {object} ErrorResponse "Missing file or file too large"
// @Failure 401 {object} ErrorResponse "Not logged in or token rejected"
// @Failure 502 {object} ErrorResponse "Backend unavailable or failed"
// @Router /documents [post]
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing file", Details: err.Error()})
		return
	}

	file, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unreadable file", Details: err.Error()})
		return
	}
	defer file.Close()

	doc, err := h.documentService.Upload(c.Request.Context(), &service.UploadDocumentRequest{
		FileName:    fh.Filename,
		Title:       c.PostForm("title"),
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Reader:      file,
	})
	if err != nil {
		respondError(c, err, "Failed to upload document")
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// DownloadDocument handles GET /documents/:id/download
// @Summary Download a document
// @Description Streams the stored file content
// @Tags documents
// @Produce octet-stream
// @Param id path string true "Document ID (UUID)"
// @Success 200 {file} file "Document content"
// @Failure 400 {object} ErrorResponse "Invalid document ID"
// @Failure 404 {object} ErrorResponse "Document not found"
// @Failure 502 {object} ErrorResponse "Backend unavailable or failed"
// @Router /documents/{id}/download [get]
func (h *DocumentHandler) DownloadDocument(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	// Buffer so a backend failure can still be reported as JSON
	var buf bytes.Buffer
	if _, err := h.documentService.Download(c.Request.Context(), id, &buf); err != nil {
		respondError(c, err, "Failed to download document")
		return
	}
	c.Data(http.StatusOK, "application/octet-stream", buf.Bytes())
}

// DeleteDocument handles DELETE /documents/:id
// @Summary Delete a document
// @Description Deletes the document and its stored file
// @Tags documents
// @Param id path string true "Document ID (UUID)"
// @Success 204 "Successfully deleted document"
// @Failure 400 {object} ErrorResponse "Invalid document ID"
// @Failure 404 {object} ErrorResponse "Document not found"
// @Failure 502 {object} ErrorResponse "Backend unavailable or failed"
// @Router /documents/{id} [delete]
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete document")
		return
	}
	c.Status(http.StatusNoContent)
}

func parseDocumentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid document ID", Details: err.Error()})
		return uuid.Nil, false
	}
	return id, true
}

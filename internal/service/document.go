package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"codeme-client/internal/apiclient"
	apperrors "codeme-client/internal/errors"
	"codeme-client/internal/logger"
	"codeme-client/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DocumentsPath is the backend collection route for documents, relative to API_V1_STR
const DocumentsPath = "/documents/"

// defaultUploadName mirrors the name the backend assigns to nameless uploads
const defaultUploadName = "upload.bin"

// DocumentService manages the user's uploaded documents on the backend
type DocumentService struct {
	client    *apiclient.Client
	maxBytes  int64
	validator *validator.Validate
}

// Ensure DocumentService implements DocumentServiceInterface
var _ DocumentServiceInterface = (*DocumentService)(nil)

// NewDocumentService creates a new DocumentService. maxBytes of zero disables
// the client-side size check.
func NewDocumentService(client *apiclient.Client, maxBytes int64, validator *validator.Validate) *DocumentService {
	return &DocumentService{
		client:    client,
		maxBytes:  maxBytes,
		validator: validator,
	}
}

// UploadDocumentRequest describes a file to upload
type UploadDocumentRequest struct {
	FileName    string    `validate:"required"`
	Title       string    `validate:"max=255"`
	ContentType string    // optional; defaults to application/octet-stream
	Size        int64     // -1 when unknown
	Reader      io.Reader `validate:"-"`
}

// List returns the user's documents, newest first
func (s *DocumentService) List(ctx context.Context) ([]models.Document, error) {
	docs := []models.Document{}
	if err := s.client.Do(ctx, http.MethodGet, DocumentsPath, nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Upload sends the file as multipart/form-data. Files larger than the
// configured limit are rejected before any request is made.
func (s *DocumentService) Upload(ctx context.Context, req *UploadDocumentRequest) (*models.Document, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("file", err.Error())
	}
	if req.Reader == nil {
		return nil, apperrors.NewValidationError("file", "content is required")
	}
	if s.maxBytes > 0 && req.Size > s.maxBytes {
		return nil, s.tooLarge(req.Size)
	}

	content := req.Reader
	if s.maxBytes > 0 {
		content = io.LimitReader(req.Reader, s.maxBytes+1)
	}

	body, contentType, err := s.multipartBody(req, content)
	if err != nil {
		return nil, err
	}

	var doc models.Document
	if err := s.client.Do(ctx, http.MethodPost, DocumentsPath+"upload", body, &doc,
		apiclient.WithHeader("Content-Type", contentType)); err != nil {
		return nil, err
	}

	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"document_id": doc.ID,
		"file_name":   doc.OriginalFileName,
	}).Info("Document uploaded")

	return &doc, nil
}

func (s *DocumentService) multipartBody(req *UploadDocumentRequest, content io.Reader) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(baseName(req.FileName))))
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file part: %w", err)
	}
	n, err := io.Copy(part, content)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}
	if s.maxBytes > 0 && n > s.maxBytes {
		return nil, "", s.tooLarge(n)
	}

	if req.Title != "" {
		if err := mw.WriteField("title", req.Title); err != nil {
			return nil, "", fmt.Errorf("failed to write title field: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

func (s *DocumentService) tooLarge(size int64) error {
	return fmt.Errorf("%w: %d bytes exceeds %d MB", apperrors.ErrFileTooLarge, size, s.maxBytes/(1024*1024))
}

// Download streams the document content into w and returns the bytes written
func (s *DocumentService) Download(ctx context.Context, id uuid.UUID, w io.Writer) (int64, error) {
	return s.client.Stream(ctx, http.MethodGet, DocumentsPath+id.String()+"/download", w,
		apiclient.WithHeader("Accept", "*/*"))
}

// Delete removes the document and its stored blob
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.client.Do(ctx, http.MethodDelete, DocumentsPath+id.String(), nil, nil)
}

// baseName drops any directory part from a client-supplied file name,
// accepting both slash styles
func baseName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return defaultUploadName
	}
	return name
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

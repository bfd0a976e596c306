package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentStatus is the processing state of an uploaded document
type DocumentStatus string

const (
	DocumentStatusUploaded   DocumentStatus = "UPLOADED"
	DocumentStatusProcessing DocumentStatus = "PROCESSING"
	DocumentStatusReady      DocumentStatus = "READY"
	DocumentStatusFailed     DocumentStatus = "FAILED"
)

// Document is a file a user uploaded to blob storage
type Document struct {
	ID               uuid.UUID      `json:"id"`
	UserID           uuid.UUID      `json:"user_id"`
	Title            string         `json:"title"`
	OriginalFileName string         `json:"original_file_name"`
	MimeType         *string        `json:"mime_type,omitempty"`
	SizeBytes        *int64         `json:"size_bytes,omitempty"`
	BlobPath         string         `json:"blob_path"`
	Source           string         `json:"source"`
	Status           DocumentStatus `json:"status"`
	CreatedAt        time.Time      `json:"created_at"`
}

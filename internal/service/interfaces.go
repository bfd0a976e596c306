package service

import (
	"context"
	"io"

	"codeme-client/internal/models"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/service_mocks.go -package=mocks

// LinkServiceInterface defines the interface for link service
type LinkServiceInterface interface {
	CreateForGroup(ctx context.Context, groupID, title string) (*models.Link, error)
}

// DocumentServiceInterface defines the interface for document service
type DocumentServiceInterface interface {
	List(ctx context.Context) ([]models.Document, error)
	Upload(ctx context.Context, req *UploadDocumentRequest) (*models.Document, error)
	Download(ctx context.Context, id uuid.UUID, w io.Writer) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

package service

import (
	"context"
	"net/http"

	"codeme-client/internal/apiclient"
	apperrors "codeme-client/internal/errors"
	"codeme-client/internal/logger"
	"codeme-client/internal/models"

	"github.com/google/uuid"
)

// LinksPath is the backend collection route for links, relative to API_V1_STR.
// The backend registers it with a trailing slash; without it every create
// costs a 307 redirect hop.
const LinksPath = "/links/"

// LinkService creates group share links on the backend
type LinkService struct {
	client          *apiclient.Client
	idempotencyKeys bool
	newKey          func() string
}

// Ensure LinkService implements LinkServiceInterface
var _ LinkServiceInterface = (*LinkService)(nil)

// NewLinkService creates a new LinkService. With idempotencyKeys set every
// create carries a fresh Idempotency-Key header.
func NewLinkService(client *apiclient.Client, idempotencyKeys bool) *LinkService {
	return &LinkService{
		client:          client,
		idempotencyKeys: idempotencyKeys,
		newKey:          func() string { return uuid.NewString() },
	}
}

// CreateForGroup creates a share link for groupID. An empty title is replaced
// by models.DefaultLinkTitle; any other title is sent unchanged. groupID is
// not checked locally and backend errors are returned as *errors.APIError.
// The request is sent once and never retried.
func (s *LinkService) CreateForGroup(ctx context.Context, groupID, title string) (*models.Link, error) {
	req := models.NewCreateLinkRequest(groupID, title)

	opts := []apiclient.RequestOption{apiclient.WithRequiredBody()}
	if s.idempotencyKeys {
		opts = append(opts, apiclient.WithIdempotencyKey(s.newKey()))
	}

	var link models.Link
	if err := s.client.DoJSON(ctx, http.MethodPost, LinksPath, req, &link, opts...); err != nil {
		return nil, err
	}
	if link.ID == uuid.Nil {
		return nil, &apperrors.APIError{
			Kind:    apperrors.KindDecode,
			Method:  http.MethodPost,
			Path:    s.client.APIPath(LinksPath),
			Message: "response is not a link",
		}
	}

	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"link_id":  link.ID,
		"group_id": link.GroupID,
	}).Info("Share link created")

	return &link, nil
}

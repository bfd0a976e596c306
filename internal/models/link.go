package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultLinkTitle is used when a share link is created without a title
const DefaultLinkTitle = "폴더 기반 공유 링크"

// Link is a shareable resource scoped to exactly one group
type Link struct {
	ID        uuid.UUID  `json:"id"`
	GroupID   string     `json:"group_id"`
	Title     string     `json:"title"`
	OwnerID   *uuid.UUID `json:"user_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// CreateLinkRequest is the body of a link creation request
type CreateLinkRequest struct {
	GroupID string `json:"group_id"`
	Title   string `json:"title"`
}

// LinkTitleOrDefault returns title, or DefaultLinkTitle when title is empty.
// A non-empty title is returned unchanged.
func LinkTitleOrDefault(title string) string {
	if title == "" {
		return DefaultLinkTitle
	}
	return title
}

// NewCreateLinkRequest builds the creation body for groupID with the default title substituted
func NewCreateLinkRequest(groupID, title string) CreateLinkRequest {
	return CreateLinkRequest{
		GroupID: groupID,
		Title:   LinkTitleOrDefault(title),
	}
}

package testutils

import (
	"encoding/json"
	"time"

	"codeme-client/internal/models"

	"github.com/google/uuid"
)

// LinkFactory provides methods to create test Link data
type LinkFactory struct{}

// NewLinkFactory creates a new LinkFactory
func NewLinkFactory() *LinkFactory {
	return &LinkFactory{}
}

// Create creates a test Link with default values
func (f *LinkFactory) Create() *models.Link {
	owner := uuid.New()
	return &models.Link{
		ID:        uuid.New(),
		GroupID:   "g1",
		Title:     models.DefaultLinkTitle,
		OwnerID:   &owner,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// WithGroup creates a link for groupID with the given title
func (f *LinkFactory) WithGroup(groupID, title string) *models.Link {
	link := f.Create()
	link.GroupID = groupID
	link.Title = models.LinkTitleOrDefault(title)
	return link
}

// DocumentFactory provides methods to create test Document data
type DocumentFactory struct{}

// NewDocumentFactory creates a new DocumentFactory
func NewDocumentFactory() *DocumentFactory {
	return &DocumentFactory{}
}

// Create creates a test Document with default values
func (f *DocumentFactory) Create() *models.Document {
	id := uuid.New()
	user := uuid.New()
	mimeType := "application/pdf"
	size := int64(11)

	return &models.Document{
		ID:               id,
		UserID:           user,
		Title:            "Quarterly report",
		OriginalFileName: "report.pdf",
		MimeType:         &mimeType,
		SizeBytes:        &size,
		BlobPath:         user.String() + "/" + id.String() + "/original/report.pdf",
		Source:           "upload",
		Status:           models.DocumentStatusUploaded,
		CreatedAt:        time.Now().UTC().Truncate(time.Second),
	}
}

// WithFile creates a document for fileName, titled like the backend does when no title is given
func (f *DocumentFactory) WithFile(fileName string) *models.Document {
	doc := f.Create()
	doc.Title = fileName
	doc.OriginalFileName = fileName
	doc.BlobPath = doc.UserID.String() + "/" + doc.ID.String() + "/original/" + fileName
	return doc
}

// JSON encodes v for use as a canned backend response
func JSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}

package handlers

import (
	"net/http"

	"codeme-client/internal/service"

	"github.com/gin-gonic/gin"
)

// LinkHandler handles HTTP requests for links
type LinkHandler struct {
	linkService service.LinkServiceInterface
}

// NewLinkHandler creates a new link handler
func NewLinkHandler(linkService service.LinkServiceInterface) *LinkHandler {
	return &LinkHandler{
		linkService: linkService,
	}
}

// CreateLinkRequest is the payload of POST /links
type CreateLinkRequest struct {
	GroupID string `json:"group_id" binding:"required" example:"g1"`
	Title   string `json:"title" example:"Design review"`
}

// CreateLink handles POST /links
// @Summary Create a share link for a group
// @Description Creates a link on the backend for the given group using the stored bearer token.
// @Description An empty title is replaced by the default share link title.
// @Tags links
// @Accept json
// @Produce json
// @Param link body CreateLinkRequest true "Link data"
// @Success 201 {object} models.Link "Successfully created link"
// @Failure 400 {object} ErrorResponse "Invalid request or rejected by the backend"
// @Failure 401 {object} ErrorResponse "Not logged in or token rejected"
// @Failure 404 {object} ErrorResponse "Group not found"
// @Failure 502 {object} ErrorResponse "Backend unavailable or failed"
// @Router /links [post]
func (h *LinkHandler) CreateLink(c *gin.Context) {
	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: err.Error()})
		return
	}

	link, err := h.linkService.CreateForGroup(c.Request.Context(), req.GroupID, req.Title)
	if err != nil {
		respondError(c, err, "Failed to create link")
		return
	}

	c.JSON(http.StatusCreated, link)
}

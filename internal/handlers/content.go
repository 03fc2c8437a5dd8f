package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContentHandler serves fixed content, one endpoint per access level.
type ContentHandler struct{}

func NewContentHandler() *ContentHandler {
	return &ContentHandler{}
}

// Public godoc
// @Summary Public content
// @Tags content
// @Produce plain
// @Success 200 {string} string
// @Router /test/all [get]
func (h *ContentHandler) Public(c *gin.Context) {
	c.String(http.StatusOK, "Public Content.")
}

// User godoc
// @Summary User content
// @Tags content
// @Security BearerAuth
// @Produce plain
// @Success 200 {string} string
// @Failure 401 {object} MessageResponse
// @Router /test/user [get]
func (h *ContentHandler) User(c *gin.Context) {
	c.String(http.StatusOK, "User Content.")
}

// Admin godoc
// @Summary Admin content
// @Tags content
// @Security BearerAuth
// @Produce plain
// @Success 200 {string} string
// @Failure 401 {object} MessageResponse
// @Failure 403 {object} MessageResponse
// @Router /test/admin [get]
func (h *ContentHandler) Admin(c *gin.Context) {
	c.String(http.StatusOK, "Admin Board.")
}

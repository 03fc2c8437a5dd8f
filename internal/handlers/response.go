package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/zohair-aabidi/ajenda/internal/middleware"
)

// MessageResponse is the body of every error and of plain acknowledgements.
type MessageResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// RespondError aborts the request with status and a message body.
func RespondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, MessageResponse{Message: message})
}

// LogAndRespondError logs err with the request id and responds with the
// generic message only.
func LogAndRespondError(c *gin.Context, log logrus.FieldLogger, status int, err error, message string) {
	log.WithFields(logrus.Fields{
		"request_id": middleware.GetRequestID(c),
		"path":       c.Request.URL.Path,
		"status":     status,
	}).WithError(err).Error(message)
	RespondError(c, status, message)
}

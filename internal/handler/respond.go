package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"geo-attendance/internal/apperr"
	"geo-attendance/internal/i18n"
)

// writeError renders err as {"error", "code"}. Internal causes are logged
// and never sent to the client.
func writeError(c *gin.Context, err error) {
	e := apperr.From(err)
	status := e.Kind.Status()
	if status >= http.StatusInternalServerError {
		log.Printf("ERROR %s %s %s: %v", c.GetString(requestIDHeader), c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{
		"error": i18n.T(c.Request.Context(), e.MessageID),
		"code":  e.MessageID,
	})
}

func abort(c *gin.Context, status int, messageID string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": i18n.T(c.Request.Context(), messageID),
		"code":  messageID,
	})
}

func message(c *gin.Context, messageID string, data map[string]any) string {
	return i18n.T(c.Request.Context(), messageID, data)
}

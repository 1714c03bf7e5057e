package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clientportal/internal/notify"
)

type RequestHandler struct {
	notifier Notifier
}

func NewRequestHandler(notifier Notifier) *RequestHandler {
	return &RequestHandler{notifier: notifier}
}

// SubmitChangeRequest handles POST /requests.
func (h *RequestHandler) SubmitChangeRequest(c *gin.Context) {
	account, ok := requireAccount(c)
	if !ok {
		return
	}

	var req notify.ChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	receipt, err := h.notifier.SubmitChangeRequest(c.Request.Context(), account, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"submission_id": receipt.SubmissionID,
		"status":        receipt.Status,
		"message":       notify.ChangeRequestAppliedMsg,
	})
}

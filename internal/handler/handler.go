package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clientportal/internal/model"
	"clientportal/internal/notify"
	"clientportal/internal/progress"
	"clientportal/internal/proposal"
	"clientportal/internal/session"
)

// ContextAccountKey is the gin context key the auth middleware stores the
// logged-in account under.
const ContextAccountKey = "account"

var ErrNoProgress = errors.New("no progress data")

// CurrentAccount returns the account set by the auth middleware.
func CurrentAccount(c *gin.Context) (*model.ClientAccount, bool) {
	v, exists := c.Get(ContextAccountKey)
	if !exists {
		return nil, false
	}
	account, ok := v.(*model.ClientAccount)
	return account, ok && account != nil
}

func requireAccount(c *gin.Context) (*model.ClientAccount, bool) {
	account, ok := CurrentAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return nil, false
	}
	return account, true
}

// writeError maps domain errors to status codes.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNoProgress), errors.Is(err, progress.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": ErrNoProgress.Error()})
	case errors.Is(err, proposal.ErrNotFound),
		errors.Is(err, proposal.ErrInvoiceUnavailable),
		errors.Is(err, proposal.ErrDesignNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, progress.ErrUnknownChannel),
		errors.Is(err, progress.ErrInvalidSeverity),
		errors.Is(err, notify.ErrInvalidSubmission),
		errors.Is(err, notify.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, notify.ErrDuplicateSubmission):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, notify.ErrSubmissionFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "retryable": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

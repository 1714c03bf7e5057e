package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"clientportal/internal/model"
	"clientportal/internal/notify"
	"clientportal/internal/progress"
	"clientportal/internal/proposal"
	"clientportal/internal/session"
)

func TestWriteError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err  error
		code int
	}{
		{session.ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrNoProgress, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", progress.ErrNotFound), http.StatusNotFound},
		{proposal.ErrInvoiceUnavailable, http.StatusNotFound},
		{progress.ErrUnknownChannel, http.StatusBadRequest},
		{progress.ErrInvalidSeverity, http.StatusBadRequest},
		{notify.ErrInvalidSubmission, http.StatusBadRequest},
		{notify.ErrInvalidAmount, http.StatusBadRequest},
		{proposal.ErrDesignNotFound, http.StatusNotFound},
		{notify.ErrDuplicateSubmission, http.StatusConflict},
		{notify.ErrSubmissionFailed, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			writeError(c, tt.err)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestWriteError_RetryableFlag(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	writeError(c, notify.ErrSubmissionFailed)

	assert.JSONEq(t, `{"error":"submission failed, please try again","retryable":true}`, w.Body.String())
}

func TestCurrentAccount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := CurrentAccount(c)
	assert.False(t, ok)

	c.Set(ContextAccountKey, &model.ClientAccount{ID: "client-a"})
	account, ok := CurrentAccount(c)
	assert.True(t, ok)
	assert.Equal(t, "client-a", account.ID)
}

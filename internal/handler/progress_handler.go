package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clientportal/internal/model"
	"clientportal/internal/progress"
	"clientportal/pkg/logger"
)

type ProgressHandler struct {
	store  *progress.Store
	logger *zap.Logger
}

func NewProgressHandler(store *progress.Store, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{store: store, logger: logger}
}

// GetProgress handles GET /progress.
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	account, ok := requireAccount(c)
	if !ok {
		return
	}

	p, found := h.store.Get(account.ID)
	if !found {
		writeError(c, ErrNoProgress)
		return
	}
	c.JSON(http.StatusOK, progress.Summary(p))
}

// SetDeliverable handles POST /progress/deliverables.
func (h *ProgressHandler) SetDeliverable(c *gin.Context) {
	account, ok := requireAccount(c)
	if !ok {
		return
	}

	var req struct {
		Name      string `json:"name" binding:"required"`
		Completed bool   `json:"completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.store.SetDeliverableCompleted(account.ID, req.Name, req.Completed); err != nil {
		writeError(c, err)
		return
	}

	msg := fmt.Sprintf("Deliverable \"%s\" marked as %s", req.Name, completionWord(req.Completed))
	h.announce(c, account.ID, msg, req.Completed)
	h.respondSummary(c, account.ID)
}

// SetMilestone handles POST /progress/milestones/:id.
func (h *ProgressHandler) SetMilestone(c *gin.Context) {
	account, ok := requireAccount(c)
	if !ok {
		return
	}

	var req struct {
		Completed bool `json:"completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.store.SetMilestoneCompleted(account.ID, c.Param("id"), req.Completed); err != nil {
		writeError(c, err)
		return
	}

	msg := "Milestone marked as " + completionWord(req.Completed)
	h.announce(c, account.ID, msg, req.Completed)
	h.respondSummary(c, account.ID)
}

// SetChannel handles POST /progress/channels/:channel.
func (h *ProgressHandler) SetChannel(c *gin.Context) {
	account, ok := requireAccount(c)
	if !ok {
		return
	}

	var req struct {
		Percentage *int `json:"percentage" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	channel := model.Channel(c.Param("channel"))
	if err := h.store.SetProgressPercentage(account.ID, channel, *req.Percentage); err != nil {
		writeError(c, err)
		return
	}
	h.respondSummary(c, account.ID)
}

// PostUpdate handles POST /progress/updates.
func (h *ProgressHandler) PostUpdate(c *gin.Context) {
	account, ok := requireAccount(c)
	if !ok {
		return
	}

	var req struct {
		Message  string         `json:"message" binding:"required"`
		Severity model.Severity `json:"severity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Severity == "" {
		req.Severity = model.SeverityInfo
	}

	update, err := h.store.AppendLiveUpdate(account.ID, req.Message, req.Severity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, update)
}

// AddSpecialRequest handles POST /progress/special-requests.
func (h *ProgressHandler) AddSpecialRequest(c *gin.Context) {
	account, ok := requireAccount(c)
	if !ok {
		return
	}

	var req progress.SpecialRequestInput
	if err := c.ShouldBindJSON(&req); err != nil || req.Request == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	created, err := h.store.AppendSpecialRequest(account.ID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// AddAsset handles POST /progress/assets.
func (h *ProgressHandler) AddAsset(c *gin.Context) {
	account, ok := requireAccount(c)
	if !ok {
		return
	}

	var req progress.AssetInput
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	created, err := h.store.AppendAsset(account.ID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// DownloadAsset handles GET /progress/assets/:id/download. Browsers are
// redirected to the file; ?format=json returns the pair instead.
func (h *ProgressHandler) DownloadAsset(c *gin.Context) {
	account, ok := requireAccount(c)
	if !ok {
		return
	}

	p, found := h.store.Get(account.ID)
	if !found {
		writeError(c, ErrNoProgress)
		return
	}

	asset, found := progress.FindAsset(p, c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
		return
	}

	dl := progress.AssetDownload(asset)
	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, dl)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dl.Filename))
	c.Redirect(http.StatusFound, dl.URL)
}

// DownloadAll handles GET /progress/assets/download-all.
func (h *ProgressHandler) DownloadAll(c *gin.Context) {
	account, ok := requireAccount(c)
	if !ok {
		return
	}

	p, found := h.store.Get(account.ID)
	if !found {
		writeError(c, ErrNoProgress)
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloads": progress.AssetDownloads(p)})
}

// announce posts the live update that accompanies a completion toggle. A
// failure here does not undo the toggle.
func (h *ProgressHandler) announce(c *gin.Context, clientID, msg string, completed bool) {
	severity := model.SeverityInfo
	if completed {
		severity = model.SeveritySuccess
	}
	if _, err := h.store.AppendLiveUpdate(clientID, msg, severity); err != nil {
		logger.WithTrace(c.Request.Context(), h.logger).Warn("Failed to append live update",
			zap.String("client_id", clientID),
			zap.Error(err),
		)
	}
}

func (h *ProgressHandler) respondSummary(c *gin.Context, clientID string) {
	p, found := h.store.Get(clientID)
	if !found {
		writeError(c, ErrNoProgress)
		return
	}
	c.JSON(http.StatusOK, progress.Summary(p))
}

func completionWord(completed bool) string {
	if completed {
		return "completed"
	}
	return "pending"
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clientportal/internal/model"
	"clientportal/internal/progress"
	"clientportal/internal/proposal"
)

type DashboardHandler struct {
	store   *progress.Store
	catalog *proposal.Catalog
}

func NewDashboardHandler(store *progress.Store, catalog *proposal.Catalog) *DashboardHandler {
	return &DashboardHandler{store: store, catalog: catalog}
}

// Dashboard handles GET /dashboard. The account tier picks the view.
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	account, ok := requireAccount(c)
	if !ok {
		return
	}

	switch account.Tier {
	case model.TierProgress:
		p, found := h.store.Get(account.ID)
		if !found {
			writeError(c, ErrNoProgress)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"kind":    string(model.TierProgress),
			"account": account,
			"view":    progress.Summary(p),
		})
	default:
		p, found := h.catalog.Get(account.ID)
		if !found {
			writeError(c, proposal.ErrNotFound)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"kind":    string(model.TierProposal),
			"account": account,
			"view":    proposal.BuildView(p),
		})
	}
}

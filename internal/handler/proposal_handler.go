package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"clientportal/internal/model"
	"clientportal/internal/notify"
	"clientportal/internal/proposal"
)

// Notifier is the part of notify.Service the handlers call.
type Notifier interface {
	SubmitChangeRequest(ctx context.Context, account *model.ClientAccount, req notify.ChangeRequest) (notify.Receipt, error)
	ConfirmProposal(ctx context.Context, account *model.ClientAccount, c notify.Confirmation) (notify.Receipt, error)
}

type ProposalHandler struct {
	catalog  *proposal.Catalog
	notifier Notifier
}

func NewProposalHandler(catalog *proposal.Catalog, notifier Notifier) *ProposalHandler {
	return &ProposalHandler{catalog: catalog, notifier: notifier}
}

// GetProposal handles GET /proposal.
func (h *ProposalHandler) GetProposal(c *gin.Context) {
	account, ok := requireAccount(c)
	if !ok {
		return
	}

	p, found := h.catalog.Get(account.ID)
	if !found {
		writeError(c, proposal.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, proposal.BuildView(p))
}

// confirmRequest is the confirmation form. Nil price or discount means the
// field was left out; an explicit 0 is kept.
type confirmRequest struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Company       string   `json:"company"`
	Type          string   `json:"type"`
	Price         *float64 `json:"price"`
	Discount      *float64 `json:"discount"`
	CustomMessage string   `json:"custom_message"`
}

// Confirm handles POST /proposal/confirm. Type, price and discount default to
// the client's proposal when the form leaves them out.
func (h *ProposalHandler) Confirm(c *gin.Context) {
	account, ok := requireAccount(c)
	if !ok {
		return
	}

	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	conf := notify.Confirmation{
		Name:          req.Name,
		Email:         req.Email,
		Company:       req.Company,
		Type:          req.Type,
		CustomMessage: req.CustomMessage,
	}
	if p, found := h.catalog.Get(account.ID); found {
		if conf.Type == "" {
			conf.Type = p.Proposal.ProjectType
		}
		conf.Price = proposal.BuildView(p).BasePrice
		conf.Discount = p.Proposal.Discount
	}
	if req.Price != nil {
		conf.Price = *req.Price
	}
	if req.Discount != nil {
		conf.Discount = *req.Discount
	}

	if err := notify.ValidateAmounts(conf.Price, conf.Discount); err != nil {
		writeError(c, err)
		return
	}

	receipt, err := h.notifier.ConfirmProposal(c.Request.Context(), account, conf)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, receipt)
}

// ToggleDesign handles POST /proposal/designs/:id/toggle.
func (h *ProposalHandler) ToggleDesign(c *gin.Context) {
	account, ok := requireAccount(c)
	if !ok {
		return
	}

	ids, err := h.catalog.ToggleDesign(account.ID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	p, _ := h.catalog.Get(account.ID)
	c.JSON(http.StatusOK, gin.H{
		"selected_design_ids": ids,
		"selected_designs":    proposal.SelectedDesigns(p),
	})
}

// Invoice handles GET /proposal/invoice.
func (h *ProposalHandler) Invoice(c *gin.Context) {
	account, ok := requireAccount(c)
	if !ok {
		return
	}

	inv, err := h.catalog.Invoice(account.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"url":      inv.FilePath,
		"filename": inv.DownloadName,
	})
}

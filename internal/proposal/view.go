package proposal

import (
	"clientportal/internal/model"
)

// View is the proposal dashboard view model.
type View struct {
	ClientID        string                `json:"client_id"`
	Title           string                `json:"title"`
	Subtitle        string                `json:"subtitle"`
	Requirements    []string              `json:"requirements"`
	Competitors     []model.Competitor    `json:"competitors"`
	Designs         []model.Design        `json:"designs"`
	SelectedDesigns []model.Design        `json:"selected_designs"`
	Proposal        model.ProposalDetails `json:"proposal"`
	BasePrice       float64               `json:"base_price"`
	FinalPrice      float64               `json:"final_price"`
	InvoiceReady    bool                  `json:"invoice_ready"`
}

// BuildView derives the dashboard view. A budget that does not parse
// leaves both prices at zero.
func BuildView(p *model.ProjectProposal) View {
	v := View{
		ClientID:        p.ClientID,
		Title:           p.Title,
		Subtitle:        p.Subtitle,
		Requirements:    p.Requirements,
		Competitors:     p.Competitors,
		Designs:         p.Designs,
		SelectedDesigns: SelectedDesigns(p),
		Proposal:        p.Proposal,
		InvoiceReady:    p.Invoice != nil && p.Invoice.FilePath != "",
	}
	if base, err := ParsePrice(p.Proposal.Budget); err == nil {
		v.BasePrice = base
		v.FinalPrice = FinalPrice(base, p.Proposal.Discount)
	}
	return v
}

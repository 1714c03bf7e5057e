package model

type Competitor struct {
	Name        string `json:"name" yaml:"name"`
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description" yaml:"description"`
}

type Design struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	ImageURL    string `json:"image_url" yaml:"image_url"`
	Description string `json:"description" yaml:"description"`
	Link        string `json:"link,omitempty" yaml:"link"`
	Premium     bool   `json:"premium" yaml:"premium"`
}

type ProposalDeliverable struct {
	Name    string `json:"name" yaml:"name"`
	Premium bool   `json:"premium" yaml:"premium"`
}

type ProposalDetails struct {
	ProjectType     string                `json:"project_type" yaml:"project_type"`
	Timeline        string                `json:"timeline" yaml:"timeline"`
	Budget          string                `json:"budget" yaml:"budget"`
	Features        []string              `json:"features" yaml:"features"`
	Discount        float64               `json:"discount" yaml:"discount"`
	Deliverables    []ProposalDeliverable `json:"deliverables" yaml:"deliverables"`
	SpecialRequests []string              `json:"special_requests" yaml:"special_requests"`
}

type Invoice struct {
	FilePath     string `json:"file_path" yaml:"file_path"`
	DownloadName string `json:"download_name" yaml:"download_name"`
}

// ProjectProposal is the pre-contract pitch shown to proposal-tier clients.
type ProjectProposal struct {
	ClientID        string          `json:"client_id" yaml:"client_id"`
	Title           string          `json:"title" yaml:"title"`
	Subtitle        string          `json:"subtitle" yaml:"subtitle"`
	Requirements    []string        `json:"requirements" yaml:"requirements"`
	Competitors     []Competitor    `json:"competitors" yaml:"competitors"`
	Designs         []Design        `json:"designs" yaml:"designs"`
	SelectedDesigns []string        `json:"selected_designs" yaml:"selected_designs"`
	Proposal        ProposalDetails `json:"proposal" yaml:"proposal"`
	Invoice         *Invoice        `json:"invoice,omitempty" yaml:"invoice"`
}

// Clone returns a deep copy.
func (p *ProjectProposal) Clone() *ProjectProposal {
	if p == nil {
		return nil
	}

	out := *p
	out.Requirements = cloneSlice(p.Requirements)
	out.Competitors = cloneSlice(p.Competitors)
	out.Designs = cloneSlice(p.Designs)
	out.SelectedDesigns = cloneSlice(p.SelectedDesigns)
	out.Proposal.Features = cloneSlice(p.Proposal.Features)
	out.Proposal.Deliverables = cloneSlice(p.Proposal.Deliverables)
	out.Proposal.SpecialRequests = cloneSlice(p.Proposal.SpecialRequests)
	if p.Invoice != nil {
		inv := *p.Invoice
		out.Invoice = &inv
	}
	return &out
}

// Package proposal serves the project proposals shown to clients before a
// contract is signed.
package proposal

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"

	"clientportal/internal/model"
)

var (
	ErrNotFound           = errors.New("proposal not found")
	ErrInvoiceUnavailable = errors.New("invoice is not available yet")
	ErrInvalidPrice       = errors.New("invalid price")
	ErrDesignNotFound     = errors.New("design not found")
)

// Catalog is keyed by client id. Only the design selection changes after
// construction.
type Catalog struct {
	mu        sync.RWMutex
	proposals map[string]*model.ProjectProposal
}

func NewCatalog(proposals []*model.ProjectProposal) *Catalog {
	c := &Catalog{proposals: make(map[string]*model.ProjectProposal, len(proposals))}
	for _, p := range proposals {
		c.proposals[p.ClientID] = p.Clone()
	}
	return c
}

// Get returns a snapshot of the client's proposal.
func (c *Catalog) Get(clientID string) (*model.ProjectProposal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.proposals[clientID]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Invoice returns the download pair for the client's invoice.
func (c *Catalog) Invoice(clientID string) (model.Invoice, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.proposals[clientID]
	if !ok {
		return model.Invoice{}, ErrNotFound
	}
	if p.Invoice == nil || p.Invoice.FilePath == "" {
		return model.Invoice{}, ErrInvoiceUnavailable
	}
	return *p.Invoice, nil
}

// ToggleDesign adds designID to the client's selection, or removes it when
// already selected, and returns the new selection.
func (c *Catalog) ToggleDesign(clientID, designID string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.proposals[clientID]
	if !ok {
		return nil, ErrNotFound
	}
	if !hasDesign(p, designID) {
		return nil, ErrDesignNotFound
	}

	p.SelectedDesigns = ToggleSelection(p.SelectedDesigns, designID)
	return cloneIDs(p.SelectedDesigns), nil
}

func hasDesign(p *model.ProjectProposal, designID string) bool {
	for _, d := range p.Designs {
		if d.ID == designID {
			return true
		}
	}
	return false
}

func cloneIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// FinalPrice applies a percentage discount and rounds to two decimals.
func FinalPrice(base, discountPct float64) float64 {
	final := base - base*discountPct/100
	return math.Round(final*100) / 100
}

// ParsePrice reads a budget string such as "₹50,000", "$28,000" or "50,000".
func ParsePrice(s string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			return r
		}
		return -1
	}, s)
	if cleaned == "" {
		return 0, ErrInvalidPrice
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, ErrInvalidPrice
	}
	return v, nil
}

// SelectedDesigns resolves the selected ids in selection order. Unknown
// ids are skipped.
func SelectedDesigns(p *model.ProjectProposal) []model.Design {
	byID := make(map[string]model.Design, len(p.Designs))
	for _, d := range p.Designs {
		if _, dup := byID[d.ID]; !dup {
			byID[d.ID] = d
		}
	}

	out := make([]model.Design, 0, len(p.SelectedDesigns))
	for _, id := range p.SelectedDesigns {
		if d, ok := byID[id]; ok {
			out = append(out, d)
		}
	}
	return out
}

// ToggleSelection adds id when absent and removes it when present. The
// input is not modified.
func ToggleSelection(ids []string, id string) []string {
	out := make([]string, 0, len(ids)+1)
	removed := false
	for _, existing := range ids {
		if existing == id {
			removed = true
			continue
		}
		out = append(out, existing)
	}
	if !removed {
		out = append(out, id)
	}
	return out
}

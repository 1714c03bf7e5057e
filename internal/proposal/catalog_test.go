package proposal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clientportal/internal/model"
)

func testProposal() *model.ProjectProposal {
	return &model.ProjectProposal{
		ClientID: "client-b",
		Title:    "SaaS Dashboard & Analytics Platform",
		Designs: []model.Design{
			{ID: "design-5", Title: "Data-Focused Layout"},
			{ID: "design-6", Title: "Executive Summary"},
			{ID: "design-7", Title: "Interactive Workspace"},
		},
		SelectedDesigns: []string{"design-6", "design-5", "design-99"},
		Proposal: model.ProposalDetails{
			ProjectType: "SaaS Platform",
			Budget:      "$28,000",
			Discount:    10,
		},
	}
}

func TestCatalog_Get(t *testing.T) {
	c := NewCatalog([]*model.ProjectProposal{testProposal()})

	p, ok := c.Get("client-b")
	require.True(t, ok)
	p.SelectedDesigns[0] = "changed"

	again, _ := c.Get("client-b")
	assert.Equal(t, "design-6", again.SelectedDesigns[0])

	_, ok = c.Get("client-z")
	assert.False(t, ok)
}

func TestCatalog_Invoice(t *testing.T) {
	withInvoice := testProposal()
	withInvoice.ClientID = "client-c"
	withInvoice.Invoice = &model.Invoice{FilePath: "/invoices/c.pdf", DownloadName: "Invoice.pdf"}
	c := NewCatalog([]*model.ProjectProposal{testProposal(), withInvoice})

	_, err := c.Invoice("client-b")
	assert.ErrorIs(t, err, ErrInvoiceUnavailable)

	inv, err := c.Invoice("client-c")
	require.NoError(t, err)
	assert.Equal(t, "Invoice.pdf", inv.DownloadName)

	_, err = c.Invoice("client-z")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalog_ToggleDesign(t *testing.T) {
	c := NewCatalog([]*model.ProjectProposal{testProposal()})

	ids, err := c.ToggleDesign("client-b", "design-7")
	require.NoError(t, err)
	assert.Equal(t, []string{"design-6", "design-5", "design-99", "design-7"}, ids)

	ids, err = c.ToggleDesign("client-b", "design-6")
	require.NoError(t, err)
	assert.Equal(t, []string{"design-5", "design-99", "design-7"}, ids)

	p, _ := c.Get("client-b")
	assert.Equal(t, ids, p.SelectedDesigns)

	ids[0] = "changed"
	again, _ := c.Get("client-b")
	assert.Equal(t, "design-5", again.SelectedDesigns[0])

	_, err = c.ToggleDesign("client-b", "design-42")
	assert.ErrorIs(t, err, ErrDesignNotFound)

	_, err = c.ToggleDesign("client-z", "design-5")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFinalPrice(t *testing.T) {
	assert.Equal(t, 45000.0, FinalPrice(50000, 10))
	assert.Equal(t, 29750.0, FinalPrice(35000, 15))
	assert.Equal(t, 28000.0, FinalPrice(28000, 0))
	assert.Equal(t, 66.67, FinalPrice(100, 33.333))
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"₹50,000", 50000},
		{"$28,000", 28000},
		{"50,000", 50000},
		{"1234.5", 1234.5},
	}
	for _, tt := range tests {
		got, err := ParsePrice(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParsePrice("TBD")
	assert.ErrorIs(t, err, ErrInvalidPrice)
	_, err = ParsePrice("1.2.3")
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestSelectedDesigns_KeepsSelectionOrder(t *testing.T) {
	got := SelectedDesigns(testProposal())
	require.Len(t, got, 2)
	assert.Equal(t, "design-6", got[0].ID)
	assert.Equal(t, "design-5", got[1].ID)
}

func TestToggleSelection(t *testing.T) {
	in := []string{"a", "b"}

	assert.Equal(t, []string{"a", "b", "c"}, ToggleSelection(in, "c"))
	assert.Equal(t, []string{"b"}, ToggleSelection(in, "a"))
	assert.Equal(t, []string{"a", "b"}, in)
	assert.Equal(t, []string{"x"}, ToggleSelection(nil, "x"))
}

func TestBuildView(t *testing.T) {
	v := BuildView(testProposal())
	assert.Equal(t, 28000.0, v.BasePrice)
	assert.Equal(t, 25200.0, v.FinalPrice)
	assert.Len(t, v.SelectedDesigns, 2)
	assert.False(t, v.InvoiceReady)
}

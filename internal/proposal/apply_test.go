package proposal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"edifika/internal/domain"
	"edifika/internal/proposal"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(v float64) *float64 { return &v }

func TestApplyImport_TextFieldsOverwriteOnlyWhenPresent(t *testing.T) {
	draft := proposal.Draft{
		Title:        "Reforma comercial",
		ScopeText:    "existing scope",
		PaymentTerms: "existing terms",
		Notes:        "existing notes",
	}
	data := &proposal.ParsedProposalData{
		ScopeText:    strPtr("extracted scope"),
		PaymentTerms: nil,           // null must keep the draft value
		Notes:        strPtr("   "), // blank must keep the draft value
	}

	merged := proposal.ApplyImport(data, draft, builtinLookup())

	assert.Equal(t, "extracted scope", merged.ScopeText)
	assert.Equal(t, "existing terms", merged.PaymentTerms)
	assert.Equal(t, "existing notes", merged.Notes)
	assert.Equal(t, "Reforma comercial", merged.Title)
}

func TestApplyImport_ItemsReplacedWholesale(t *testing.T) {
	draft := proposal.Draft{
		Items: []proposal.Item{
			{Category: "servicos", Description: "old item 1", Unit: "un", Quantity: 1, UnitPrice: 10, Total: 10},
			{Category: "servicos", Description: "old item 2", Unit: "un", Quantity: 2, UnitPrice: 20, Total: 40},
			{Category: "servicos", Description: "old item 3", Unit: "un", Quantity: 3, UnitPrice: 30, Total: 90},
		},
	}
	data := &proposal.ParsedProposalData{
		Items: []proposal.ParsedItem{
			{
				Category:    strPtr("serviço"),
				Description: "Pintura de fachada",
				Unit:        strPtr("m2"),
				Quantity:    f64Ptr(120),
				UnitPrice:   f64Ptr(45),
				Total:       f64Ptr(5400),
			},
			{
				Category:    strPtr("materiais"),
				Description: "Tinta acrílica",
				Unit:        strPtr("un"),
				Quantity:    f64Ptr(12),
				UnitPrice:   f64Ptr(89.9),
			},
			{Description: "   "}, // blank description dropped
		},
	}

	merged := proposal.ApplyImport(data, draft, builtinLookup())

	// Three draft items are replaced by exactly the two extracted items.
	assert.Len(t, merged.Items, 2)
	item := merged.Items[0]
	assert.Equal(t, "servicos", item.Category)
	assert.Equal(t, "Pintura de fachada", item.Description)
	assert.Equal(t, "m2", item.Unit)
	assert.Equal(t, 120.0, item.Quantity)
	assert.Equal(t, 45.0, item.UnitPrice)
	assert.Equal(t, 5400.0, item.Total)
	assert.Equal(t, "materiais", merged.Items[1].Category)
}

func TestApplyImport_EmptyExtractionKeepsDraftItems(t *testing.T) {
	existing := []proposal.Item{
		{Category: "materiais", Description: "cimento", Unit: "un", Quantity: 50, UnitPrice: 35, Total: 1750},
	}
	draft := proposal.Draft{Items: existing}

	merged := proposal.ApplyImport(&proposal.ParsedProposalData{}, draft, builtinLookup())
	assert.Equal(t, existing, merged.Items)

	// Items present but all blank also keep the draft's items.
	data := &proposal.ParsedProposalData{Items: []proposal.ParsedItem{{Description: ""}}}
	merged = proposal.ApplyImport(data, draft, builtinLookup())
	assert.Equal(t, existing, merged.Items)
}

func TestApplyImport_ItemTotalComputedWhenAbsent(t *testing.T) {
	data := &proposal.ParsedProposalData{
		Items: []proposal.ParsedItem{
			{Description: "Alvenaria", Quantity: f64Ptr(10), UnitPrice: f64Ptr(80)},
		},
	}

	merged := proposal.ApplyImport(data, proposal.Draft{}, builtinLookup())

	assert.Len(t, merged.Items, 1)
	assert.Equal(t, 800.0, merged.Items[0].Total)
}

func TestApplyImport_Discount(t *testing.T) {
	data := &proposal.ParsedProposalData{
		Totals: proposal.ParsedTotals{
			DiscountType:  strPtr("percent"),
			DiscountValue: f64Ptr(10),
		},
	}

	merged := proposal.ApplyImport(data, proposal.Draft{}, builtinLookup())

	if assert.NotNil(t, merged.DiscountType) {
		assert.Equal(t, domain.DiscountPercent, *merged.DiscountType)
	}
	if assert.NotNil(t, merged.DiscountValue) {
		assert.Equal(t, 10.0, *merged.DiscountValue)
	}
}

func TestApplyImport_DiscountIgnoredWhenIncomplete(t *testing.T) {
	fixed := domain.DiscountFixed
	draft := proposal.Draft{DiscountType: &fixed, DiscountValue: f64Ptr(500)}

	// Type without value keeps the draft's discount.
	data := &proposal.ParsedProposalData{
		Totals: proposal.ParsedTotals{DiscountType: strPtr("percent")},
	}
	merged := proposal.ApplyImport(data, draft, builtinLookup())
	assert.Equal(t, domain.DiscountFixed, *merged.DiscountType)
	assert.Equal(t, 500.0, *merged.DiscountValue)

	// Unknown type keeps the draft's discount too.
	data = &proposal.ParsedProposalData{
		Totals: proposal.ParsedTotals{DiscountType: strPtr("coupon"), DiscountValue: f64Ptr(5)},
	}
	merged = proposal.ApplyImport(data, draft, builtinLookup())
	assert.Equal(t, domain.DiscountFixed, *merged.DiscountType)
}

func TestApplyImport_DoesNotMutateInput(t *testing.T) {
	draft := proposal.Draft{ScopeText: "original"}
	data := &proposal.ParsedProposalData{ScopeText: strPtr("new scope")}

	merged := proposal.ApplyImport(data, draft, builtinLookup())

	assert.Equal(t, "new scope", merged.ScopeText)
	assert.Equal(t, "original", draft.ScopeText)
	assert.Equal(t, "new scope", *data.ScopeText)
}

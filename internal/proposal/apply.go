package proposal

import (
	"strings"

	"edifika/internal/domain"
)

// ApplyImport merges parsed import data into a proposal draft and returns the
// merged copy. Text fields only overwrite when the parsed value is non-null
// and non-blank, so an import never erases something the user already typed.
// Items are replaced wholesale when the import extracted at least one; an
// empty extraction keeps the draft's existing items.
func ApplyImport(data *ParsedProposalData, draft Draft, catalog *CatalogLookup) Draft {
	out := draft

	out.ScopeText = overrideText(draft.ScopeText, data.ScopeText)
	out.PaymentTerms = overrideText(draft.PaymentTerms, data.PaymentTerms)
	out.WarrantyTerms = overrideText(draft.WarrantyTerms, data.WarrantyTerms)
	out.Exclusions = overrideText(draft.Exclusions, data.Exclusions)
	out.Notes = overrideText(draft.Notes, data.Notes)

	if dt := parseDiscountType(data.Totals.DiscountType); dt != nil && data.Totals.DiscountValue != nil {
		out.DiscountType = dt
		v := *data.Totals.DiscountValue
		out.DiscountValue = &v
	}

	if len(data.Items) > 0 {
		items := make([]Item, 0, len(data.Items))
		for _, p := range data.Items {
			if strings.TrimSpace(p.Description) == "" {
				continue
			}
			items = append(items, buildItem(p, catalog))
		}
		if len(items) > 0 {
			out.Items = items
		}
	}
	return out
}

func buildItem(p ParsedItem, catalog *CatalogLookup) Item {
	item := Item{
		Category:    catalog.NormalizeCategory(deref(p.Category)),
		Description: strings.TrimSpace(p.Description),
		Unit:        catalog.NormalizeUnit(deref(p.Unit)),
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.UnitPrice != nil {
		item.UnitPrice = *p.UnitPrice
	}
	switch {
	case p.Total != nil:
		item.Total = *p.Total
	case p.Quantity != nil && p.UnitPrice != nil:
		item.Total = *p.Quantity * *p.UnitPrice
	}
	return item
}

func overrideText(current string, parsed *string) string {
	if parsed == nil {
		return current
	}
	if v := strings.TrimSpace(*parsed); v != "" {
		return v
	}
	return current
}

func parseDiscountType(raw *string) *domain.DiscountType {
	if raw == nil {
		return nil
	}
	switch dt := domain.DiscountType(strings.ToLower(strings.TrimSpace(*raw))); dt {
	case domain.DiscountPercent, domain.DiscountFixed:
		return &dt
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package proposal

import (
	"github.com/google/uuid"

	"edifika/internal/domain"
)

// ParsedProposalData is the structured candidate produced by the parsing stage
// of a PDF import. All free-text fields are nullable: nil means the model did
// not find the field in the document. It is immutable once stored on the
// import job; Apply derives a new draft and never rewrites it.
type ParsedProposalData struct {
	ScopeText     *string          `json:"scope_text"`
	PaymentTerms  *string          `json:"payment_terms"`
	WarrantyTerms *string          `json:"warranty_terms"`
	Exclusions    *string          `json:"exclusions"`
	Notes         *string          `json:"notes"`
	Totals        ParsedTotals     `json:"totals"`
	Items         []ParsedItem     `json:"items"`
	Confidence    ConfidenceScores `json:"confidence"`
}

// ParsedTotals carries the money summary extracted from the document.
type ParsedTotals struct {
	Subtotal      *float64 `json:"subtotal"`
	DiscountType  *string  `json:"discount_type"` // "percent", "fixed" or null
	DiscountValue *float64 `json:"discount_value"`
	Total         *float64 `json:"total"`
}

// ParsedItem is one extracted line item. Description is the only required
// field; items with a blank description are dropped at decode time.
type ParsedItem struct {
	Category    *string  `json:"category"`
	Description string   `json:"description"`
	Unit        *string  `json:"unit"`
	Quantity    *float64 `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price"`
	Total       *float64 `json:"total"`
}

// ConfidenceScores holds one self-reported score per logical field group,
// each in [0,1].
type ConfidenceScores struct {
	ScopeText     float64 `json:"scope_text"`
	PaymentTerms  float64 `json:"payment_terms"`
	WarrantyTerms float64 `json:"warranty_terms"`
	Exclusions    float64 `json:"exclusions"`
	Notes         float64 `json:"notes"`
	Totals        float64 `json:"totals"`
	Items         float64 `json:"items"`
}

// Item is one line item of a proposal draft. Category and Unit hold catalog
// codes, not free text.
type Item struct {
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

// Draft is the editable in-memory state of a proposal the preview/apply step
// merges into. It is persisted only when the surrounding proposal is saved.
type Draft struct {
	ClientID      *uuid.UUID           `json:"client_id"`
	Title         string               `json:"title"`
	ScopeText     string               `json:"scope_text"`
	PaymentTerms  string               `json:"payment_terms"`
	WarrantyTerms string               `json:"warranty_terms"`
	Exclusions    string               `json:"exclusions"`
	Notes         string               `json:"notes"`
	DiscountType  *domain.DiscountType `json:"discount_type"`
	DiscountValue *float64             `json:"discount_value"`
	Items         []Item               `json:"items"`
}

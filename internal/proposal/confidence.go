package proposal

// ConfidenceBand buckets a confidence score for display.
type ConfidenceBand string

const (
	BandHigh   ConfidenceBand = "high"
	BandMedium ConfidenceBand = "medium"
	BandLow    ConfidenceBand = "low"

	highThreshold   = 0.8
	reviewThreshold = 0.5
)

// BandFor maps a score to its display band: >=0.8 high, >=0.5 medium, else low.
func BandFor(score float64) ConfidenceBand {
	switch {
	case score >= highThreshold:
		return BandHigh
	case score >= reviewThreshold:
		return BandMedium
	default:
		return BandLow
	}
}

// FieldGroupScore pairs a logical field group with its score and band.
type FieldGroupScore struct {
	Group string         `json:"group"`
	Score float64        `json:"score"`
	Band  ConfidenceBand `json:"band"`
}

// Groups lists the per-group scores in display order.
func (c ConfidenceScores) Groups() []FieldGroupScore {
	groups := []struct {
		name  string
		score float64
	}{
		{"scope_text", c.ScopeText},
		{"payment_terms", c.PaymentTerms},
		{"warranty_terms", c.WarrantyTerms},
		{"exclusions", c.Exclusions},
		{"notes", c.Notes},
		{"totals", c.Totals},
		{"items", c.Items},
	}
	out := make([]FieldGroupScore, 0, len(groups))
	for _, g := range groups {
		out = append(out, FieldGroupScore{Group: g.name, Score: g.score, Band: BandFor(g.score)})
	}
	return out
}

// NeedsReview reports whether any field group scored below the review
// threshold; the preview flags the whole import when it does.
func (c ConfidenceScores) NeedsReview() bool {
	for _, g := range c.Groups() {
		if g.Score < reviewThreshold {
			return true
		}
	}
	return false
}

package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"edifika/internal/domain"
	"edifika/internal/proposal"
)

// SanitizeModelReply converts a raw assistant reply into validated parsed
// proposal data. Models sometimes wrap the JSON in a markdown code fence
// despite instructions; the fence is stripped before decoding. Anything that
// is not a JSON object matching the schema fails with
// domain.ErrModelReplyInvalid so the import job records a clear error instead
// of storing garbage.
func SanitizeModelReply(reply string) (*proposal.ParsedProposalData, error) {
	raw := stripFences(reply)
	if !strings.HasPrefix(raw, "{") {
		return nil, fmt.Errorf("%w: reply is not a JSON object", domain.ErrModelReplyInvalid)
	}

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrModelReplyInvalid, err)
	}
	if err := proposalSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrModelReplyInvalid, err)
	}

	var data proposal.ParsedProposalData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrModelReplyInvalid, err)
	}

	// Items without a description are noise (header rows, section totals).
	items := data.Items[:0]
	for _, item := range data.Items {
		if strings.TrimSpace(item.Description) != "" {
			items = append(items, item)
		}
	}
	data.Items = items

	clampConfidence(&data.Confidence)
	return &data, nil
}

func clampConfidence(c *proposal.ConfidenceScores) {
	for _, score := range []*float64{
		&c.ScopeText, &c.PaymentTerms, &c.WarrantyTerms,
		&c.Exclusions, &c.Notes, &c.Totals, &c.Items,
	} {
		if *score < 0 {
			*score = 0
		}
		if *score > 1 {
			*score = 1
		}
	}
}

// stripFences removes a surrounding markdown code fence, including an
// optional language tag, and any prose before the fence.
func stripFences(reply string) string {
	s := strings.TrimSpace(reply)
	if !strings.HasPrefix(s, "```") {
		i := strings.Index(s, "```")
		if i < 0 {
			return s
		}
		s = s[i:]
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

package extract

import (
	"fmt"
	"strings"
)

// BuildOCRPrompt returns the text-extraction prompt for proposal PDFs. The
// page cap keeps scanned documents from burning unbounded inference tokens.
func BuildOCRPrompt(maxPages int) string {
	return fmt.Sprintf(`You are an OCR assistant. Transcribe the full text content of the attached PDF document.

IMPORTANT INSTRUCTIONS:
- Transcribe the text faithfully, page by page, in reading order.
- Preserve tables as aligned plain-text rows so line items stay recognizable.
- Keep numbers, currency values and dates exactly as printed.
- Only transcribe the first %d pages. If the document is longer, stop there.
- Do not summarize, translate or interpret the content.

Return ONLY the transcribed text with no commentary and no markdown formatting.`, maxPages)
}

// BuildParsePrompt returns the structuring prompt for extracted proposal text.
// categoryCodes and unitCodes list the catalog codes the model should prefer;
// unknown values are normalized server side anyway.
func BuildParsePrompt(extractedText string, categoryCodes, unitCodes []string) string {
	return fmt.Sprintf(`You are a data extraction assistant for a construction and engineering firm. The text below was transcribed from a commercial proposal PDF (usually Brazilian Portuguese). Extract its data into the following JSON structure.

IMPORTANT INSTRUCTIONS:
- Extract EVERY line item from every table and section. Do not skip, summarize or merge items.
- Monetary values use Brazilian formatting (R$ 1.234,56). Output them as plain JSON numbers (1234.56).
- "category" should be one of: %s. "unit" should be one of: %s. If unsure, copy the document's own wording.
- Use null for any field the document does not state. Never invent values.

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation.

The JSON object must follow this schema:
{
  "scope_text": null,
  "payment_terms": null,
  "warranty_terms": null,
  "exclusions": null,
  "notes": null,
  "totals": {
    "subtotal": null,
    "discount_type": null,
    "discount_value": null,
    "total": null
  },
  "items": [
    {
      "category": null,
      "description": "",
      "unit": null,
      "quantity": null,
      "unit_price": null,
      "total": null
    }
  ],
  "confidence": {
    "scope_text": 0.0,
    "payment_terms": 0.0,
    "warranty_terms": 0.0,
    "exclusions": 0.0,
    "notes": 0.0,
    "totals": 0.0,
    "items": 0.0
  }
}

"discount_type" is "percent" or "fixed" when the document states a discount, otherwise null.

The "confidence" values are floats between 0.0 and 1.0 indicating how certain you are about each field group. Use 0.0 for groups not found in the document.

DOCUMENT TEXT:
%s`, strings.Join(categoryCodes, ", "), strings.Join(unitCodes, ", "), extractedText)
}

package extract

import "github.com/santhosh-tekuri/jsonschema/v5"

// proposalSchemaJSON is the contract the model's parse reply must satisfy
// before it is decoded into typed data.
const proposalSchemaJSON = `{
  "type": "object",
  "required": ["totals", "items", "confidence"],
  "properties": {
    "scope_text": {"type": ["string", "null"]},
    "payment_terms": {"type": ["string", "null"]},
    "warranty_terms": {"type": ["string", "null"]},
    "exclusions": {"type": ["string", "null"]},
    "notes": {"type": ["string", "null"]},
    "totals": {
      "type": "object",
      "properties": {
        "subtotal": {"type": ["number", "null"]},
        "discount_type": {"type": ["string", "null"]},
        "discount_value": {"type": ["number", "null"]},
        "total": {"type": ["number", "null"]}
      }
    },
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["description"],
        "properties": {
          "category": {"type": ["string", "null"]},
          "description": {"type": "string"},
          "unit": {"type": ["string", "null"]},
          "quantity": {"type": ["number", "null"]},
          "unit_price": {"type": ["number", "null"]},
          "total": {"type": ["number", "null"]}
        }
      }
    },
    "confidence": {
      "type": "object",
      "additionalProperties": {"type": "number"}
    }
  }
}`

var proposalSchema = jsonschema.MustCompileString("proposal_import.json", proposalSchemaJSON)

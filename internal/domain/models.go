package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated back-office user.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Client represents a (prospective) customer a proposal or import may be linked to.
type Client struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Proposal represents a commercial proposal draft. Line items are stored as a
// JSON array (see proposal.Item for the element shape).
type Proposal struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	ClientID      *uuid.UUID      `db:"client_id" json:"client_id"`
	Title         string          `db:"title" json:"title"`
	Status        ProposalStatus  `db:"status" json:"status"`
	ScopeText     string          `db:"scope_text" json:"scope_text"`
	PaymentTerms  string          `db:"payment_terms" json:"payment_terms"`
	WarrantyTerms string          `db:"warranty_terms" json:"warranty_terms"`
	Exclusions    string          `db:"exclusions" json:"exclusions"`
	Notes         string          `db:"notes" json:"notes"`
	DiscountType  *DiscountType   `db:"discount_type" json:"discount_type"`
	DiscountValue *float64        `db:"discount_value" json:"discount_value"`
	Items         json.RawMessage `db:"items" json:"items"`
	CreatedBy     uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// ImportJob is the durable record tracking one proposal-PDF import attempt.
// It is the state machine the import pipeline advances: queued → extracting →
// parsing → done, with failed reachable from any non-terminal state.
type ImportJob struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	CreatedBy     uuid.UUID       `db:"created_by" json:"created_by"`
	ClientID      *uuid.UUID      `db:"client_id" json:"client_id"`
	ProposalID    *uuid.UUID      `db:"proposal_id" json:"proposal_id"`
	FilePath      string          `db:"file_path" json:"file_path"`
	FileSize      int64           `db:"file_size" json:"file_size"`
	OriginalName  string          `db:"original_name" json:"original_name"`
	ExtractedText *string         `db:"extracted_text" json:"extracted_text"`
	ParsedJSON    json.RawMessage `db:"parsed_json" json:"parsed_json"`
	Status        ImportStatus    `db:"status" json:"status"`
	ErrorMessage  string          `db:"error_message" json:"error_message"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// Terminal reports whether the job has reached a terminal status.
func (j *ImportJob) Terminal() bool {
	return j.Status == ImportStatusDone || j.Status == ImportStatusFailed
}

// ItemCategory is a catalog entry for proposal line-item categories.
type ItemCategory struct {
	Code    string `db:"code" json:"code"`
	Label   string `db:"label" json:"label"`
	Aliases string `db:"aliases" json:"aliases"` // comma-separated lowercase synonyms
}

// ItemUnit is a catalog entry for proposal line-item measurement units.
type ItemUnit struct {
	Code    string `db:"code" json:"code"`
	Label   string `db:"label" json:"label"`
	Aliases string `db:"aliases" json:"aliases"`
}

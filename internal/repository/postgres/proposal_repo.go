package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"edifika/internal/domain"
	"edifika/internal/port"
)

type proposalRepo struct {
	db *sqlx.DB
}

// NewProposalRepo creates a new PostgreSQL-backed ProposalRepository.
func NewProposalRepo(db *sqlx.DB) port.ProposalRepository {
	return &proposalRepo{db: db}
}

func (r *proposalRepo) Create(ctx context.Context, proposal *domain.Proposal) error {
	now := time.Now().UTC()
	proposal.CreatedAt = now
	proposal.UpdatedAt = now
	if proposal.Items == nil {
		proposal.Items = []byte("[]")
	}

	query := `INSERT INTO proposals
		(id, client_id, title, status, scope_text, payment_terms, warranty_terms,
		 exclusions, notes, discount_type, discount_value, items, created_by,
		 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.ExecContext(ctx, query,
		proposal.ID, proposal.ClientID, proposal.Title, proposal.Status,
		proposal.ScopeText, proposal.PaymentTerms, proposal.WarrantyTerms,
		proposal.Exclusions, proposal.Notes, proposal.DiscountType,
		proposal.DiscountValue, proposal.Items, proposal.CreatedBy,
		proposal.CreatedAt, proposal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("proposalRepo.Create: %w", err)
	}
	return nil
}

func (r *proposalRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	var proposal domain.Proposal
	err := r.db.GetContext(ctx, &proposal, "SELECT * FROM proposals WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("proposalRepo.GetByID: %w", err)
	}
	return &proposal, nil
}

func (r *proposalRepo) List(ctx context.Context, status *domain.ProposalStatus, offset, limit int) ([]domain.Proposal, int, error) {
	countQuery := "SELECT COUNT(*) FROM proposals"
	listQuery := "SELECT * FROM proposals ORDER BY created_at DESC LIMIT $1 OFFSET $2"
	args := []interface{}{limit, offset}

	if status != nil {
		countQuery = "SELECT COUNT(*) FROM proposals WHERE status = $1"
		listQuery = "SELECT * FROM proposals WHERE status = $3 ORDER BY created_at DESC LIMIT $1 OFFSET $2"
		args = append(args, *status)
	}

	var total int
	var err error
	if status != nil {
		err = r.db.GetContext(ctx, &total, countQuery, *status)
	} else {
		err = r.db.GetContext(ctx, &total, countQuery)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("proposalRepo.List count: %w", err)
	}

	var proposals []domain.Proposal
	err = r.db.SelectContext(ctx, &proposals, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("proposalRepo.List: %w", err)
	}
	return proposals, total, nil
}

func (r *proposalRepo) Update(ctx context.Context, proposal *domain.Proposal) error {
	proposal.UpdatedAt = time.Now().UTC()
	if proposal.Items == nil {
		proposal.Items = []byte("[]")
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE proposals SET
			client_id = $1, title = $2, status = $3, scope_text = $4,
			payment_terms = $5, warranty_terms = $6, exclusions = $7, notes = $8,
			discount_type = $9, discount_value = $10, items = $11, updated_at = $12
		 WHERE id = $13`,
		proposal.ClientID, proposal.Title, proposal.Status, proposal.ScopeText,
		proposal.PaymentTerms, proposal.WarrantyTerms, proposal.Exclusions,
		proposal.Notes, proposal.DiscountType, proposal.DiscountValue,
		proposal.Items, proposal.UpdatedAt, proposal.ID)
	if err != nil {
		return fmt.Errorf("proposalRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *proposalRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProposalStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE proposals SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("proposalRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *proposalRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM proposals WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("proposalRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"edifika/internal/domain"
	"edifika/internal/port"
)

type importJobRepo struct {
	db *sqlx.DB
}

// NewImportJobRepo creates a new PostgreSQL-backed ImportJobRepository.
func NewImportJobRepo(db *sqlx.DB) port.ImportJobRepository {
	return &importJobRepo{db: db}
}

func (r *importJobRepo) Create(ctx context.Context, job *domain.ImportJob) error {
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	query := `INSERT INTO import_jobs
		(id, created_by, client_id, proposal_id, file_path, file_size, original_name,
		 extracted_text, parsed_json, status, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.CreatedBy, job.ClientID, job.ProposalID, job.FilePath,
		job.FileSize, job.OriginalName, job.ExtractedText, job.ParsedJSON,
		job.Status, job.ErrorMessage, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("importJobRepo.Create: %w", err)
	}
	return nil
}

func (r *importJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ImportJob, error) {
	var job domain.ImportJob
	err := r.db.GetContext(ctx, &job, "SELECT * FROM import_jobs WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("importJobRepo.GetByID: %w", err)
	}
	return &job, nil
}

func (r *importJobRepo) ListByCreator(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.ImportJob, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM import_jobs WHERE created_by = $1", userID)
	if err != nil {
		return nil, 0, fmt.Errorf("importJobRepo.ListByCreator count: %w", err)
	}

	var jobs []domain.ImportJob
	err = r.db.SelectContext(ctx, &jobs,
		`SELECT * FROM import_jobs WHERE created_by = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("importJobRepo.ListByCreator: %w", err)
	}
	return jobs, total, nil
}

// TransitionStatus advances the job status only when the stored status still
// equals from. The guard lives in the WHERE clause so two workers racing on
// the same job cannot both win.
func (r *importJobRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.ImportStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE import_jobs SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4",
		to, time.Now().UTC(), id, from)
	if err != nil {
		return fmt.Errorf("importJobRepo.TransitionStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return r.classifyTransitionFailure(ctx, id)
	}
	return nil
}

func (r *importJobRepo) classifyTransitionFailure(ctx context.Context, id uuid.UUID) error {
	job, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if job.Terminal() {
		return domain.ErrImportTerminal
	}
	return domain.ErrInvalidTransition
}

func (r *importJobRepo) SaveExtractedText(ctx context.Context, id uuid.UUID, text string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE import_jobs SET extracted_text = $1, updated_at = $2 WHERE id = $3",
		text, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("importJobRepo.SaveExtractedText: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *importJobRepo) SaveParsedJSON(ctx context.Context, id uuid.UUID, parsed json.RawMessage) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE import_jobs SET parsed_json = $1, updated_at = $2 WHERE id = $3",
		parsed, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("importJobRepo.SaveParsedJSON: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkFailed moves a job to failed from any non-terminal status and records
// the reason shown to the user.
func (r *importJobRepo) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE import_jobs SET status = $1, error_message = $2, updated_at = $3
		 WHERE id = $4 AND status NOT IN ($5, $6)`,
		domain.ImportStatusFailed, message, time.Now().UTC(), id,
		domain.ImportStatusDone, domain.ImportStatusFailed)
	if err != nil {
		return fmt.Errorf("importJobRepo.MarkFailed: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return r.classifyTransitionFailure(ctx, id)
	}
	return nil
}

func (r *importJobRepo) LinkProposal(ctx context.Context, id, proposalID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE import_jobs SET proposal_id = $1, updated_at = $2 WHERE id = $3",
		proposalID, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("importJobRepo.LinkProposal: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

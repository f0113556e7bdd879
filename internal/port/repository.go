package port

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"edifika/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, int, error)
	Update(ctx context.Context, user *domain.User) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// ClientRepository defines the contract for client persistence.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	List(ctx context.Context, offset, limit int) ([]domain.Client, int, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProposalRepository defines the contract for proposal persistence.
type ProposalRepository interface {
	Create(ctx context.Context, proposal *domain.Proposal) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error)
	List(ctx context.Context, status *domain.ProposalStatus, offset, limit int) ([]domain.Proposal, int, error)
	Update(ctx context.Context, proposal *domain.Proposal) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProposalStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ImportJobRepository defines the contract for import job persistence.
// TransitionStatus must be guarded: it only succeeds when the stored status
// still equals from, so concurrent workers cannot move a job backwards or out
// of a terminal state.
type ImportJobRepository interface {
	Create(ctx context.Context, job *domain.ImportJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ImportJob, error)
	ListByCreator(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.ImportJob, int, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.ImportStatus) error
	SaveExtractedText(ctx context.Context, id uuid.UUID, text string) error
	SaveParsedJSON(ctx context.Context, id uuid.UUID, parsed json.RawMessage) error
	MarkFailed(ctx context.Context, id uuid.UUID, message string) error
	LinkProposal(ctx context.Context, id, proposalID uuid.UUID) error
}

// CatalogRepository defines the contract for reading the line-item catalogs.
type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]domain.ItemCategory, error)
	ListUnits(ctx context.Context) ([]domain.ItemUnit, error)
}

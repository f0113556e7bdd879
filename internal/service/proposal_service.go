package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"edifika/internal/domain"
	"edifika/internal/port"
	"edifika/internal/proposal"
)

// ProposalInput is the DTO for proposal create and update requests.
type ProposalInput struct {
	ClientID      *uuid.UUID           `json:"client_id"`
	Title         string               `json:"title" binding:"required"`
	ScopeText     string               `json:"scope_text"`
	PaymentTerms  string               `json:"payment_terms"`
	WarrantyTerms string               `json:"warranty_terms"`
	Exclusions    string               `json:"exclusions"`
	Notes         string               `json:"notes"`
	DiscountType  *domain.DiscountType `json:"discount_type"`
	DiscountValue *float64             `json:"discount_value"`
	Items         []proposal.Item      `json:"items"`
}

// ProposalService defines the proposal management contract.
type ProposalService interface {
	Create(ctx context.Context, createdBy uuid.UUID, input ProposalInput) (*domain.Proposal, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error)
	List(ctx context.Context, status *domain.ProposalStatus, offset, limit int) ([]domain.Proposal, int, error)
	Update(ctx context.Context, id uuid.UUID, input ProposalInput) (*domain.Proposal, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProposalStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	Items(p *domain.Proposal) ([]proposal.Item, error)
}

type proposalService struct {
	proposalRepo port.ProposalRepository
	clientRepo   port.ClientRepository
}

// NewProposalService creates a new ProposalService implementation.
func NewProposalService(proposalRepo port.ProposalRepository, clientRepo port.ClientRepository) ProposalService {
	return &proposalService{
		proposalRepo: proposalRepo,
		clientRepo:   clientRepo,
	}
}

func (s *proposalService) Create(ctx context.Context, createdBy uuid.UUID, input ProposalInput) (*domain.Proposal, error) {
	if err := s.validateClient(ctx, input.ClientID); err != nil {
		return nil, err
	}

	p := &domain.Proposal{
		ID:        uuid.New(),
		Status:    domain.ProposalStatusDraft,
		CreatedBy: createdBy,
	}
	if err := applyInput(p, input); err != nil {
		return nil, err
	}

	if err := s.proposalRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *proposalService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	return s.proposalRepo.GetByID(ctx, id)
}

func (s *proposalService) List(ctx context.Context, status *domain.ProposalStatus, offset, limit int) ([]domain.Proposal, int, error) {
	return s.proposalRepo.List(ctx, status, offset, limit)
}

func (s *proposalService) Update(ctx context.Context, id uuid.UUID, input ProposalInput) (*domain.Proposal, error) {
	if err := s.validateClient(ctx, input.ClientID); err != nil {
		return nil, err
	}

	p, err := s.proposalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyInput(p, input); err != nil {
		return nil, err
	}

	if err := s.proposalRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *proposalService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProposalStatus) error {
	switch status {
	case domain.ProposalStatusDraft, domain.ProposalStatusSent,
		domain.ProposalStatusApproved, domain.ProposalStatusRejected:
	default:
		return fmt.Errorf("invalid proposal status: %s", status)
	}
	return s.proposalRepo.UpdateStatus(ctx, id, status)
}

func (s *proposalService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.proposalRepo.Delete(ctx, id)
}

// Items decodes the proposal's stored line items.
func (s *proposalService) Items(p *domain.Proposal) ([]proposal.Item, error) {
	if len(p.Items) == 0 {
		return nil, nil
	}
	var items []proposal.Item
	if err := json.Unmarshal(p.Items, &items); err != nil {
		return nil, fmt.Errorf("decoding proposal items: %w", err)
	}
	return items, nil
}

func (s *proposalService) validateClient(ctx context.Context, clientID *uuid.UUID) error {
	if clientID == nil {
		return nil
	}
	_, err := s.clientRepo.GetByID(ctx, *clientID)
	return err
}

func applyInput(p *domain.Proposal, input ProposalInput) error {
	items := input.Items
	if items == nil {
		items = []proposal.Item{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding proposal items: %w", err)
	}

	p.ClientID = input.ClientID
	p.Title = input.Title
	p.ScopeText = input.ScopeText
	p.PaymentTerms = input.PaymentTerms
	p.WarrantyTerms = input.WarrantyTerms
	p.Exclusions = input.Exclusions
	p.Notes = input.Notes
	p.DiscountType = input.DiscountType
	p.DiscountValue = input.DiscountValue
	p.Items = raw
	return nil
}

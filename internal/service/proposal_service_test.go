package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"edifika/internal/domain"
	"edifika/internal/proposal"
	"edifika/internal/service"
	"edifika/mocks"
)

func TestProposalService_Create_Success(t *testing.T) {
	proposalRepo := new(mocks.MockProposalRepo)
	clientRepo := new(mocks.MockClientRepo)
	svc := service.NewProposalService(proposalRepo, clientRepo)

	createdBy := uuid.New()
	proposalRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Proposal")).Return(nil)

	p, err := svc.Create(context.Background(), createdBy, service.ProposalInput{
		Title:     "Reforma do escritório",
		ScopeText: "pintura e elétrica",
		Items: []proposal.Item{
			{Category: "servicos", Description: "Pintura", Unit: "m2", Quantity: 100, UnitPrice: 40, Total: 4000},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.ProposalStatusDraft, p.Status)
	assert.Equal(t, createdBy, p.CreatedBy)
	assert.Equal(t, "Reforma do escritório", p.Title)

	var items []proposal.Item
	assert.NoError(t, json.Unmarshal(p.Items, &items))
	assert.Len(t, items, 1)
}

func TestProposalService_Create_NilItemsStoredAsEmptyArray(t *testing.T) {
	proposalRepo := new(mocks.MockProposalRepo)
	clientRepo := new(mocks.MockClientRepo)
	svc := service.NewProposalService(proposalRepo, clientRepo)

	proposalRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Proposal")).Return(nil)

	p, err := svc.Create(context.Background(), uuid.New(), service.ProposalInput{Title: "Sem itens"})

	assert.NoError(t, err)
	assert.JSONEq(t, "[]", string(p.Items))
}

func TestProposalService_Create_UnknownClient(t *testing.T) {
	proposalRepo := new(mocks.MockProposalRepo)
	clientRepo := new(mocks.MockClientRepo)
	svc := service.NewProposalService(proposalRepo, clientRepo)

	clientID := uuid.New()
	clientRepo.On("GetByID", mock.Anything, clientID).Return(nil, domain.ErrNotFound)

	p, err := svc.Create(context.Background(), uuid.New(), service.ProposalInput{
		Title:    "Cliente fantasma",
		ClientID: &clientID,
	})

	assert.Nil(t, p)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	proposalRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProposalService_UpdateStatus_ValidatesEnum(t *testing.T) {
	proposalRepo := new(mocks.MockProposalRepo)
	svc := service.NewProposalService(proposalRepo, new(mocks.MockClientRepo))

	id := uuid.New()
	proposalRepo.On("UpdateStatus", mock.Anything, id, domain.ProposalStatusSent).Return(nil)

	assert.NoError(t, svc.UpdateStatus(context.Background(), id, domain.ProposalStatusSent))

	err := svc.UpdateStatus(context.Background(), id, domain.ProposalStatus("archived"))
	assert.Error(t, err)
	proposalRepo.AssertNumberOfCalls(t, "UpdateStatus", 1)
}

func TestProposalService_Items(t *testing.T) {
	svc := service.NewProposalService(new(mocks.MockProposalRepo), new(mocks.MockClientRepo))

	p := &domain.Proposal{Items: json.RawMessage(`[{"category":"servicos","description":"Pintura","unit":"m2","quantity":100,"unit_price":40,"total":4000}]`)}
	items, err := svc.Items(p)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "Pintura", items[0].Description)

	empty := &domain.Proposal{}
	items, err = svc.Items(empty)
	assert.NoError(t, err)
	assert.Nil(t, items)

	broken := &domain.Proposal{Items: json.RawMessage(`{not json`)}
	_, err = svc.Items(broken)
	assert.Error(t, err)
}

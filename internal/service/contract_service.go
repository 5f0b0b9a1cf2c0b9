package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nurpe/marketpay/internal/model"
)

type ContractService struct {
	store ContractStore
}

func NewContractService(store ContractStore) *ContractService {
	return &ContractService{store: store}
}

// GetContract returns the contract only when the caller is a party to
// it; a contract owned by someone else looks identical to a missing one.
func (s *ContractService) GetContract(ctx context.Context, contractID, callerID uuid.UUID) (*model.Contract, error) {
	if contractID == uuid.Nil {
		return nil, fmt.Errorf("%w: contract id is required", ErrInvalidInput)
	}
	return s.store.GetContractForProfile(ctx, contractID, callerID)
}

// ListContracts returns the caller's non-terminated contracts.
func (s *ContractService) ListContracts(ctx context.Context, callerID uuid.UUID) ([]model.Contract, error) {
	if callerID == uuid.Nil {
		return nil, fmt.Errorf("%w: caller id is required", ErrInvalidInput)
	}
	return s.store.ListContractsForProfile(ctx, callerID)
}

// ListUnpaidJobs returns unpaid jobs under the caller's in_progress
// contracts, for either side of the contract.
func (s *ContractService) ListUnpaidJobs(ctx context.Context, callerID uuid.UUID) ([]model.Job, error) {
	if callerID == uuid.Nil {
		return nil, fmt.Errorf("%w: caller id is required", ErrInvalidInput)
	}
	return s.store.ListUnpaidJobsForProfile(ctx, callerID)
}

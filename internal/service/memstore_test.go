package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/marketpay/internal/model"
)

// memStore is an in-memory LedgerStore/ContractStore. Atomically holds a
// mutex for the whole callback, which mirrors the row-lock serialization
// the postgres implementation gets from FOR UPDATE and lets the
// concurrency tests run real goroutine races. Writes only happen after
// all checks in the services, so the fake does not need rollback.
type memStore struct {
	mu        sync.Mutex
	profiles  map[uuid.UUID]*model.Profile
	contracts map[uuid.UUID]*model.Contract
	jobs      map[uuid.UUID]*model.Job
}

func newMemStore() *memStore {
	return &memStore{
		profiles:  make(map[uuid.UUID]*model.Profile),
		contracts: make(map[uuid.UUID]*model.Contract),
		jobs:      make(map[uuid.UUID]*model.Job),
	}
}

func (m *memStore) addProfile(role model.Role, profession string, balance float64) uuid.UUID {
	id := uuid.New()
	m.profiles[id] = &model.Profile{
		ID:         id,
		FirstName:  "Test",
		LastName:   id.String()[:8],
		Profession: profession,
		Role:       role,
		Balance:    balance,
		CreatedAt:  time.Now(),
	}
	return id
}

func (m *memStore) addContract(clientID, contractorID uuid.UUID, status model.ContractStatus) uuid.UUID {
	id := uuid.New()
	m.contracts[id] = &model.Contract{
		ID:           id,
		ClientID:     clientID,
		ContractorID: contractorID,
		Terms:        "terms",
		Status:       status,
		CreatedAt:    time.Now(),
	}
	return id
}

func (m *memStore) addJob(contractID uuid.UUID, price float64) uuid.UUID {
	id := uuid.New()
	m.jobs[id] = &model.Job{
		ID:          id,
		ContractID:  contractID,
		Description: "work",
		Price:       price,
		CreatedAt:   time.Now(),
	}
	return id
}

func (m *memStore) markPaid(jobID uuid.UUID, at time.Time) {
	paid := true
	m.jobs[jobID].Paid = &paid
	m.jobs[jobID].PaymentDate = &at
}

func (m *memStore) Atomically(ctx context.Context, fn func(tx LedgerStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m)
}

func (m *memStore) GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	profile, ok := m.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *profile
	return &copied, nil
}

func (m *memStore) GetUnpaidJobForClient(ctx context.Context, jobID, clientID uuid.UUID) (*model.Job, error) {
	job, ok := m.jobs[jobID]
	if !ok || job.IsPaid() {
		return nil, ErrNotFound
	}
	contract, ok := m.contracts[job.ContractID]
	if !ok || contract.ClientID != clientID {
		return nil, ErrNotFound
	}
	copied := *job
	return &copied, nil
}

func (m *memStore) SumUnpaidForClient(ctx context.Context, clientID uuid.UUID) (float64, error) {
	total := 0.0
	for _, job := range m.jobs {
		if job.IsPaid() {
			continue
		}
		contract, ok := m.contracts[job.ContractID]
		if ok && contract.ClientID == clientID {
			total += job.Price
		}
	}
	return total, nil
}

func (m *memStore) UpdateBalance(ctx context.Context, profileID uuid.UUID, balance float64) error {
	profile, ok := m.profiles[profileID]
	if !ok {
		return ErrNotFound
	}
	profile.Balance = balance
	return nil
}

func (m *memStore) MarkJobPaid(ctx context.Context, jobID uuid.UUID, paidAt time.Time) error {
	job, ok := m.jobs[jobID]
	if !ok || job.IsPaid() {
		return ErrNotFound
	}
	m.markPaid(jobID, paidAt)
	return nil
}

func (m *memStore) GetContractForProfile(ctx context.Context, contractID, profileID uuid.UUID) (*model.Contract, error) {
	contract, ok := m.contracts[contractID]
	if !ok || (contract.ClientID != profileID && contract.ContractorID != profileID) {
		return nil, ErrNotFound
	}
	copied := *contract
	return &copied, nil
}

func (m *memStore) ListContractsForProfile(ctx context.Context, profileID uuid.UUID) ([]model.Contract, error) {
	var contracts []model.Contract
	for _, contract := range m.contracts {
		if contract.Status == model.ContractStatusTerminated {
			continue
		}
		if contract.ClientID == profileID || contract.ContractorID == profileID {
			contracts = append(contracts, *contract)
		}
	}
	return contracts, nil
}

func (m *memStore) ListUnpaidJobsForProfile(ctx context.Context, profileID uuid.UUID) ([]model.Job, error) {
	var jobs []model.Job
	for _, job := range m.jobs {
		if job.IsPaid() {
			continue
		}
		contract, ok := m.contracts[job.ContractID]
		if !ok || contract.Status != model.ContractStatusInProgress {
			continue
		}
		if contract.ClientID == profileID || contract.ContractorID == profileID {
			jobs = append(jobs, *job)
		}
	}
	return jobs, nil
}

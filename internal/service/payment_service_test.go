package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/marketpay/internal/config"
	"github.com/nurpe/marketpay/internal/model"
)

func testConfig() *config.Config {
	return &config.Config{
		Ledger: config.LedgerConfig{
			DepositCapRatio:  0.25,
			BestClientsLimit: 1,
		},
	}
}

func TestPaymentService_PayJob(t *testing.T) {
	ctx := context.Background()

	t.Run("success debits balance and marks job paid", func(t *testing.T) {
		store := newMemStore()
		client := store.addProfile(model.RoleClient, "", 150)
		contractor := store.addProfile(model.RoleContractor, "plumber", 0)
		contract := store.addContract(client, contractor, model.ContractStatusInProgress)
		job := store.addJob(contract, 100)

		svc := NewPaymentService(store, testConfig())
		result, err := svc.PayJob(ctx, PayJobInput{CallerID: client, JobID: job})
		require.NoError(t, err)
		require.Equal(t, 50.0, result.Balance)
		require.True(t, result.Job.IsPaid())
		require.NotNil(t, result.Job.PaymentDate)

		require.Equal(t, 50.0, store.profiles[client].Balance)
		require.True(t, store.jobs[job].IsPaid())
	})

	t.Run("insufficient funds leaves everything untouched", func(t *testing.T) {
		store := newMemStore()
		client := store.addProfile(model.RoleClient, "", 100)
		contractor := store.addProfile(model.RoleContractor, "plumber", 0)
		contract := store.addContract(client, contractor, model.ContractStatusInProgress)
		job := store.addJob(contract, 150)

		svc := NewPaymentService(store, testConfig())
		_, err := svc.PayJob(ctx, PayJobInput{CallerID: client, JobID: job})
		require.ErrorIs(t, err, ErrInsufficientFunds)

		require.Equal(t, 100.0, store.profiles[client].Balance)
		require.False(t, store.jobs[job].IsPaid())
	})

	t.Run("already paid job is not found", func(t *testing.T) {
		store := newMemStore()
		client := store.addProfile(model.RoleClient, "", 500)
		contractor := store.addProfile(model.RoleContractor, "plumber", 0)
		contract := store.addContract(client, contractor, model.ContractStatusInProgress)
		job := store.addJob(contract, 100)
		store.markPaid(job, time.Now())

		svc := NewPaymentService(store, testConfig())
		_, err := svc.PayJob(ctx, PayJobInput{CallerID: client, JobID: job})
		require.ErrorIs(t, err, ErrNotFound)
		require.Equal(t, 500.0, store.profiles[client].Balance)
	})

	t.Run("someone else's job is not found", func(t *testing.T) {
		store := newMemStore()
		owner := store.addProfile(model.RoleClient, "", 500)
		other := store.addProfile(model.RoleClient, "", 500)
		contractor := store.addProfile(model.RoleContractor, "plumber", 0)
		contract := store.addContract(owner, contractor, model.ContractStatusInProgress)
		job := store.addJob(contract, 100)

		svc := NewPaymentService(store, testConfig())
		_, err := svc.PayJob(ctx, PayJobInput{CallerID: other, JobID: job})
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown job is not found", func(t *testing.T) {
		store := newMemStore()
		client := store.addProfile(model.RoleClient, "", 500)

		svc := NewPaymentService(store, testConfig())
		_, err := svc.PayJob(ctx, PayJobInput{CallerID: client, JobID: uuid.New()})
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("missing ids are invalid input", func(t *testing.T) {
		svc := NewPaymentService(newMemStore(), testConfig())
		_, err := svc.PayJob(ctx, PayJobInput{CallerID: uuid.Nil, JobID: uuid.New()})
		require.ErrorIs(t, err, ErrInvalidInput)
		_, err = svc.PayJob(ctx, PayJobInput{CallerID: uuid.New(), JobID: uuid.Nil})
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

// With N jobs of price P and a balance of (N-1)*P, concurrent payments
// must settle with exactly one rejection and a zero balance; a stale
// balance read would let all N succeed.
func TestPaymentService_PayJob_Concurrent(t *testing.T) {
	const jobCount = 8
	const price = 10.0

	store := newMemStore()
	client := store.addProfile(model.RoleClient, "", (jobCount-1)*price)
	contractor := store.addProfile(model.RoleContractor, "plumber", 0)
	contract := store.addContract(client, contractor, model.ContractStatusInProgress)

	jobs := make([]uuid.UUID, jobCount)
	for i := range jobs {
		jobs[i] = store.addJob(contract, price)
	}

	svc := NewPaymentService(store, testConfig())

	errs := make(chan error, jobCount)
	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		go func(jobID uuid.UUID) {
			defer wg.Done()
			_, err := svc.PayJob(context.Background(), PayJobInput{CallerID: client, JobID: jobID})
			errs <- err
		}(job)
	}
	wg.Wait()
	close(errs)

	succeeded, rejected := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInsufficientFunds):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	require.Equal(t, jobCount-1, succeeded)
	require.Equal(t, 1, rejected)
	require.Equal(t, 0.0, store.profiles[client].Balance)

	paidJobs := 0
	for _, job := range store.jobs {
		if job.IsPaid() {
			paidJobs++
		}
	}
	require.Equal(t, jobCount-1, paidJobs)
}

func TestPaymentService_Deposit(t *testing.T) {
	ctx := context.Background()

	setup := func(outstanding float64) (*memStore, uuid.UUID) {
		store := newMemStore()
		client := store.addProfile(model.RoleClient, "", 10)
		contractor := store.addProfile(model.RoleContractor, "plumber", 0)
		contract := store.addContract(client, contractor, model.ContractStatusInProgress)
		if outstanding > 0 {
			store.addJob(contract, outstanding)
		}
		return store, client
	}

	t.Run("deposit at exactly the cap succeeds", func(t *testing.T) {
		store, client := setup(200)
		svc := NewPaymentService(store, testConfig())

		result, err := svc.Deposit(ctx, DepositInput{ClientID: client, Amount: 50})
		require.NoError(t, err)
		require.Equal(t, 60.0, result.Balance)
		require.Equal(t, 60.0, store.profiles[client].Balance)
	})

	t.Run("deposit above the cap is rejected", func(t *testing.T) {
		store, client := setup(200)
		svc := NewPaymentService(store, testConfig())

		_, err := svc.Deposit(ctx, DepositInput{ClientID: client, Amount: 51})
		require.ErrorIs(t, err, ErrDepositCapExceeded)
		require.Equal(t, 10.0, store.profiles[client].Balance)
	})

	t.Run("no outstanding jobs rejects any positive amount", func(t *testing.T) {
		store, client := setup(0)
		svc := NewPaymentService(store, testConfig())

		_, err := svc.Deposit(ctx, DepositInput{ClientID: client, Amount: 0.01})
		require.ErrorIs(t, err, ErrDepositCapExceeded)
	})

	t.Run("non-positive amount is invalid input", func(t *testing.T) {
		store, client := setup(200)
		svc := NewPaymentService(store, testConfig())

		_, err := svc.Deposit(ctx, DepositInput{ClientID: client, Amount: 0})
		require.ErrorIs(t, err, ErrInvalidInput)
		_, err = svc.Deposit(ctx, DepositInput{ClientID: client, Amount: -5})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown client is not found", func(t *testing.T) {
		store, _ := setup(200)
		svc := NewPaymentService(store, testConfig())

		_, err := svc.Deposit(ctx, DepositInput{ClientID: uuid.New(), Amount: 10})
		require.ErrorIs(t, err, ErrNotFound)
	})
}

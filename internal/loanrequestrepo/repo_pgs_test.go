//go:build integration

package loanrequestrepo_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/go-petr/microlend/internal/domain"
	"github.com/go-petr/microlend/internal/integrationtest"
	"github.com/go-petr/microlend/internal/loanrequestrepo"
	"github.com/go-petr/microlend/internal/test"
	"github.com/go-petr/microlend/pkg/configpkg"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	dbDriver string
	dbSource string
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	dbDriver = config.DBDriver
	dbSource = config.DBSource

	os.Exit(m.Run())
}

func TestCreate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(arg *domain.CreateLoanRequestParams)
		wantErr error
	}{
		{name: "OK", mutate: func(arg *domain.CreateLoanRequestParams) {}},
		{
			name:    "ErrPoolNotFound",
			mutate:  func(arg *domain.CreateLoanRequestParams) { arg.PoolID = -1 },
			wantErr: domain.ErrPoolNotFound,
		},
		{
			name:    "ErrAccountNotFound",
			mutate:  func(arg *domain.CreateLoanRequestParams) { arg.AccountID = -1 },
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name:    "ErrNonPositiveAmount",
			mutate:  func(arg *domain.CreateLoanRequestParams) { arg.Amount = decimal.Zero },
			wantErr: domain.ErrNonPositiveAmount,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tx := integrationtest.SetupTX(t, dbDriver, dbSource)
			user := test.SeedUser(t, tx)
			account := test.SeedAccount(t, tx, user.ID, "0")
			pool := test.SeedPool(t, tx, "0")

			arg := domain.CreateLoanRequestParams{
				UserID:    user.ID,
				AccountID: account.ID,
				PoolID:    pool.ID,
				Amount:    decimal.NewFromInt(1200),
			}
			tc.mutate(&arg)

			got, err := loanrequestrepo.NewRepoPGS(tx).Create(context.Background(), arg)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)

			want := domain.LoanRequest{
				ID:        got.ID,
				UserID:    arg.UserID,
				AccountID: arg.AccountID,
				PoolID:    arg.PoolID,
				Amount:    arg.Amount,
				CreatedAt: time.Now(),
			}

			if diff := cmp.Diff(want, got, test.EquateDecimal, cmpopts.EquateApproxTime(time.Minute)); diff != "" {
				t.Errorf("requestRepo.Create(context.Background(), %+v) returned unexpected difference (-want +got):\n%s",
					arg, diff)
			}
		})
	}
}

func TestGetListDelete(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	repo := loanrequestrepo.NewRepoPGS(tx)
	ctx := context.Background()

	user := test.SeedUser(t, tx)
	account := test.SeedAccount(t, tx, user.ID, "0")
	pool := test.SeedPool(t, tx, "0")

	lr1 := test.SeedLoanRequest(t, tx, account, pool.ID, "100")
	lr2 := test.SeedLoanRequest(t, tx, account, pool.ID, "200")

	got, err := repo.Get(ctx, lr1.ID)
	require.NoError(t, err)
	require.Equal(t, lr1.ID, got.ID)

	got, err = repo.GetForUpdate(ctx, lr2.ID)
	require.NoError(t, err)
	require.Equal(t, lr2.ID, got.ID)

	own, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)

	if diff := cmp.Diff([]domain.LoanRequest{lr1, lr2}, own, test.EquateDecimal); diff != "" {
		t.Errorf("requestRepo.ListByUser(ctx, %v) returned unexpected difference (-want +got):\n%s", user.ID, diff)
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(all), 2)

	require.NoError(t, repo.Delete(ctx, lr1.ID))
	require.ErrorIs(t, repo.Delete(ctx, lr1.ID), domain.ErrLoanRequestNotFound)

	_, err = repo.Get(ctx, lr1.ID)
	require.ErrorIs(t, err, domain.ErrLoanRequestNotFound)
}

package loanservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-petr/microlend/internal/domain"
	"github.com/go-petr/microlend/internal/test"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 20, 14, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*Service, *MockRepo) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)

	s := New(repo)
	s.now = func() time.Time { return fixedNow }

	return s, repo
}

func TestOriginate(t *testing.T) {
	t.Parallel()

	manager := domain.Actor{UserID: 1, IsBankManager: true}

	loan := test.RandomLoan(2, 3)
	result := domain.OriginationTxResult{Loan: loan, Pool: test.RandomPool()}

	testCases := []struct {
		name       string
		actor      domain.Actor
		rate       string
		dueDate    string
		buildStubs func(repo *MockRepo)
		wantErr    error
	}{
		{
			name:    "OK",
			actor:   manager,
			rate:    "5",
			dueDate: "2025-05-20",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().
					Originate(gomock.Any(), test.EqCmp(domain.OriginateLoanParams{
						LoanRequestID: 42,
						InterestRate:  decimal.NewFromInt(5),
						DateApproved:  fixedNow,
						DateDue:       time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
					})).
					Times(1).
					Return(result, nil)
			},
		},
		{
			name:    "DefaultRate",
			actor:   manager,
			rate:    " ",
			dueDate: "2024-12-01T10:00:00Z",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().
					Originate(gomock.Any(), test.EqCmp(domain.OriginateLoanParams{
						LoanRequestID: 42,
						InterestRate:  decimal.NewFromInt(domain.DefaultInterestRate),
						DateApproved:  fixedNow,
						DateDue:       time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC),
					})).
					Times(1).
					Return(result, nil)
			},
		},
		{
			name:    "DueToday",
			actor:   manager,
			rate:    "0",
			dueDate: "2024-05-20",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Originate(gomock.Any(), gomock.Any()).Times(1).Return(result, nil)
			},
		},
		{
			name:    "ErrNotBankManager",
			actor:   domain.Actor{UserID: 2},
			rate:    "5",
			dueDate: "2025-05-20",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Originate(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrNotBankManager,
		},
		{
			name:    "RateAbove100",
			actor:   manager,
			rate:    "100.01",
			dueDate: "2025-05-20",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Originate(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrInvalidInterestRate,
		},
		{
			name:    "NegativeRate",
			actor:   manager,
			rate:    "-1",
			dueDate: "2025-05-20",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Originate(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrInvalidInterestRate,
		},
		{
			name:    "NonNumericRate",
			actor:   manager,
			rate:    "five",
			dueDate: "2025-05-20",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Originate(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrInvalidInterestRate,
		},
		{
			name:    "ErrBlankDueDate",
			actor:   manager,
			rate:    "5",
			dueDate: "",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Originate(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrBlankDueDate,
		},
		{
			name:    "UnparsableDueDate",
			actor:   manager,
			rate:    "5",
			dueDate: "20/05/2025",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Originate(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrInvalidDueDate,
		},
		{
			name:    "DueDateInPast",
			actor:   manager,
			rate:    "5",
			dueDate: "2024-05-19",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Originate(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrInvalidDueDate,
		},
		{
			name:    "ErrLoanRequestNotFound",
			actor:   manager,
			rate:    "5",
			dueDate: "2025-05-20",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Originate(gomock.Any(), gomock.Any()).Times(1).
					Return(domain.OriginationTxResult{}, domain.ErrLoanRequestNotFound)
			},
			wantErr: domain.ErrLoanRequestNotFound,
		},
		{
			name:    "ErrInsufficientPoolFunds",
			actor:   manager,
			rate:    "5",
			dueDate: "2025-05-20",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Originate(gomock.Any(), gomock.Any()).Times(1).
					Return(domain.OriginationTxResult{}, domain.ErrInsufficientPoolFunds)
			},
			wantErr: domain.ErrInsufficientPoolFunds,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s, repo := setup(t)
			tc.buildStubs(repo)

			got, err := s.Originate(context.Background(), tc.actor, 42, tc.rate, tc.dueDate)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("s.Originate got error %v, want %v", err, tc.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("s.Originate returned error: %v", err)
			}

			if diff := cmp.Diff(result, got, test.EquateDecimal); diff != "" {
				t.Errorf("s.Originate returned unexpected difference (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListLoans(t *testing.T) {
	t.Parallel()

	actor := domain.Actor{UserID: 7}

	fresh := test.RandomLoan(actor.UserID, 1)
	fresh.DateApproved = fixedNow.Add(-time.Hour)

	old := test.RandomLoan(actor.UserID, 1)
	old.ID = fresh.ID + 1
	old.PrincipalAmount = decimal.NewFromInt(1000)
	old.AmountDue = old.PrincipalAmount
	old.InterestRate = decimal.RequireFromString("7.3")
	old.DateApproved = fixedNow.Add(-10 * day)

	accrued := old
	accrued.AmountAccrued = decimal.NewFromInt(2)
	accrued.AmountDue = decimal.NewFromInt(1002)

	t.Run("SavesOnlyChanged", func(t *testing.T) {
		t.Parallel()

		s, repo := setup(t)

		repo.EXPECT().ListByUser(gomock.Any(), actor.UserID).Times(1).Return([]domain.Loan{fresh, old}, nil)
		repo.EXPECT().
			SaveAccruals(gomock.Any(), test.EqCmp([]domain.Loan{accrued})).
			Times(1).
			Return([]domain.Loan{accrued}, nil)

		got, err := s.ListLoans(context.Background(), actor)
		require.NoError(t, err)

		if diff := cmp.Diff([]domain.Loan{fresh, accrued}, got, test.EquateDecimal); diff != "" {
			t.Errorf("s.ListLoans returned unexpected difference (-want +got):\n%s", diff)
		}
	})

	t.Run("NothingToSave", func(t *testing.T) {
		t.Parallel()

		s, repo := setup(t)

		repo.EXPECT().ListByUser(gomock.Any(), actor.UserID).Times(1).Return([]domain.Loan{fresh, accrued}, nil)
		repo.EXPECT().SaveAccruals(gomock.Any(), gomock.Any()).Times(0)

		got, err := s.ListLoans(context.Background(), actor)
		require.NoError(t, err)
		require.Len(t, got, 2)
	})

	t.Run("ReturnsStoredAccrual", func(t *testing.T) {
		t.Parallel()

		s, repo := setup(t)

		stored := accrued
		stored.AmountAccrued = decimal.NewFromInt(3)
		stored.AmountDue = decimal.NewFromInt(1003)

		repo.EXPECT().ListByUser(gomock.Any(), actor.UserID).Times(1).Return([]domain.Loan{fresh, old}, nil)
		repo.EXPECT().SaveAccruals(gomock.Any(), gomock.Len(1)).Times(1).Return([]domain.Loan{stored}, nil)

		got, err := s.ListLoans(context.Background(), actor)
		require.NoError(t, err)

		if diff := cmp.Diff([]domain.Loan{fresh, stored}, got, test.EquateDecimal); diff != "" {
			t.Errorf("s.ListLoans returned unexpected difference (-want +got):\n%s", diff)
		}
	})

	t.Run("SaveFails", func(t *testing.T) {
		t.Parallel()

		s, repo := setup(t)

		repo.EXPECT().ListByUser(gomock.Any(), actor.UserID).Times(1).Return([]domain.Loan{old}, nil)
		repo.EXPECT().SaveAccruals(gomock.Any(), gomock.Any()).Times(1).Return(nil, domain.ErrLoanNotFound)

		_, err := s.ListLoans(context.Background(), actor)
		require.ErrorIs(t, err, domain.ErrLoanNotFound)
	})
}

func TestAccrueAll(t *testing.T) {
	t.Parallel()

	s, repo := setup(t)

	ln := test.RandomLoan(3, 4)
	ln.PrincipalAmount = decimal.NewFromInt(1200)
	ln.AmountDue = ln.PrincipalAmount
	ln.InterestRate = decimal.NewFromInt(5)
	ln.DateApproved = fixedNow.Add(-73 * day)

	repo.EXPECT().List(gomock.Any()).Times(1).Return([]domain.Loan{ln, test.RandomLoan(3, 4)}, nil)
	repo.EXPECT().
		SaveAccruals(gomock.Any(), gomock.Len(1)).
		Times(1).
		DoAndReturn(func(_ context.Context, loans []domain.Loan) ([]domain.Loan, error) {
			require.Equal(t, "12.00", loans[0].AmountAccrued.StringFixed(2))
			return loans, nil
		})

	n, err := s.AccrueAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

package accountservice

import (
	"context"
	"errors"
	"testing"

	"github.com/go-petr/microlend/internal/domain"
	"github.com/go-petr/microlend/internal/test"
	"github.com/go-petr/microlend/pkg/errorspkg"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func sequence(numbers ...int64) func() int64 {
	i := 0

	return func() int64 {
		n := numbers[i%len(numbers)]
		i++

		return n
	}
}

func TestNewAccountNumber(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		buildStubs func(repo *MockRepo)
		want       int64
		wantErr    error
	}{
		{
			name: "FirstFree",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().NumberExists(gomock.Any(), int64(5000000001)).Times(1).Return(false, nil)
			},
			want: 5000000001,
		},
		{
			name: "RetriesTaken",
			buildStubs: func(repo *MockRepo) {
				gomock.InOrder(
					repo.EXPECT().NumberExists(gomock.Any(), int64(5000000001)).Times(1).Return(true, nil),
					repo.EXPECT().NumberExists(gomock.Any(), int64(5000000002)).Times(1).Return(false, nil),
				)
			},
			want: 5000000002,
		},
		{
			name: "Exhausted",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().NumberExists(gomock.Any(), gomock.Any()).Times(maxNumberAttempts).Return(true, nil)
			},
			wantErr: domain.ErrAccountNumberExists,
		},
		{
			name: "RepoError",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().NumberExists(gomock.Any(), gomock.Any()).Times(1).Return(false, errorspkg.ErrInternal)
			},
			wantErr: errorspkg.ErrInternal,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			tc.buildStubs(repo)

			s := New(repo)
			s.newNumber = sequence(5000000001, 5000000002)

			got, err := s.NewAccountNumber(context.Background())
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("s.NewAccountNumber(ctx) error = %v, want %v", err, tc.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("s.NewAccountNumber(ctx) returned error: %v", err)
			}

			if got != tc.want {
				t.Errorf("s.NewAccountNumber(ctx) = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	actor := domain.Actor{UserID: 3, Username: "alice"}
	account := test.RandomAccount(actor.UserID)

	testCases := []struct {
		name       string
		accName    string
		buildStubs func(repo *MockRepo)
		wantErr    error
	}{
		{
			name:    "OK",
			accName: "  Savings ",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().NumberExists(gomock.Any(), gomock.Any()).Times(1).Return(false, nil)
				repo.EXPECT().
					Create(gomock.Any(), test.EqCmp(domain.CreateAccountParams{
						UserID:  actor.UserID,
						Name:    "Savings",
						Number:  5000000001,
						Balance: decimal.Zero,
					})).
					Times(1).
					Return(account, nil)
			},
		},
		{
			name:    "RetryOnUniqueViolation",
			accName: "Savings",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().NumberExists(gomock.Any(), gomock.Any()).Times(2).Return(false, nil)
				gomock.InOrder(
					repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(1).
						Return(domain.Account{}, domain.ErrAccountNumberExists),
					repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(1).
						Return(account, nil),
				)
			},
		},
		{
			name:    "ErrBlankField",
			accName: "   ",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().NumberExists(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrBlankField,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			tc.buildStubs(repo)

			s := New(repo)
			s.newNumber = sequence(5000000001)

			got, err := s.Open(context.Background(), actor, tc.accName)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("s.Open(ctx, %+v, %q) error = %v, want %v", actor, tc.accName, err, tc.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("s.Open(ctx, %+v, %q) returned error: %v", actor, tc.accName, err)
			}

			if diff := cmp.Diff(account, got, test.EquateDecimal); diff != "" {
				t.Errorf("s.Open returned unexpected difference (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	actor := domain.Actor{UserID: 3}
	own := test.RandomAccount(actor.UserID)
	foreign := test.RandomAccount(actor.UserID + 1)

	testCases := []struct {
		name       string
		id         int32
		buildStubs func(repo *MockRepo)
		wantErr    error
	}{
		{
			name: "OK",
			id:   own.ID,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Get(gomock.Any(), own.ID).Times(1).Return(own, nil)
			},
		},
		{
			name: "ErrAccountOwnerMismatch",
			id:   foreign.ID,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Get(gomock.Any(), foreign.ID).Times(1).Return(foreign, nil)
			},
			wantErr: domain.ErrAccountOwnerMismatch,
		},
		{
			name: "ErrAccountNotFound",
			id:   404,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Get(gomock.Any(), int32(404)).Times(1).Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			wantErr: domain.ErrAccountNotFound,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			tc.buildStubs(repo)

			got, err := New(repo).Get(context.Background(), actor, tc.id)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("s.Get(ctx, %+v, %v) error = %v, want %v", actor, tc.id, err, tc.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("s.Get(ctx, %+v, %v) returned error: %v", actor, tc.id, err)
			}

			if diff := cmp.Diff(own, got, test.EquateDecimal); diff != "" {
				t.Errorf("s.Get returned unexpected difference (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAddFunds(t *testing.T) {
	t.Parallel()

	actor := domain.Actor{UserID: 3}
	own := test.RandomAccount(actor.UserID)

	testCases := []struct {
		name       string
		amount     string
		buildStubs func(repo *MockRepo)
		wantErr    error
	}{
		{
			name:   "OK",
			amount: "800",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Get(gomock.Any(), own.ID).Times(1).Return(own, nil)
				repo.EXPECT().AddBalance(gomock.Any(), test.EqDecimal(decimal.NewFromInt(800)), own.ID).Times(1).Return(own, nil)
			},
		},
		{
			name:   "ErrBlankAmount",
			amount: "",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrBlankAmount,
		},
		{
			name:   "ErrInvalidAmount",
			amount: "12.345",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:   "ErrNonPositiveAmount",
			amount: "-5",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrNonPositiveAmount,
		},
		{
			name:   "ErrAccountOwnerMismatch",
			amount: "5",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Get(gomock.Any(), own.ID).Times(1).Return(test.RandomAccount(99), nil)
				repo.EXPECT().AddBalance(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrAccountOwnerMismatch,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			tc.buildStubs(repo)

			_, err := New(repo).AddFunds(context.Background(), actor, own.ID, tc.amount)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("s.AddFunds(ctx, %+v, %v, %q) error = %v, want %v", actor, own.ID, tc.amount, err, tc.wantErr)
			}
		})
	}
}

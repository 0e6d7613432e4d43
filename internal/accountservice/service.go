// Package accountservice manages business logic layer of bank accounts.
package accountservice

import (
	"context"
	"errors"
	"strings"

	"github.com/go-petr/microlend/internal/domain"
	"github.com/go-petr/microlend/pkg/randompkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
	Get(ctx context.Context, id int32) (domain.Account, error)
	List(ctx context.Context, userID int32) ([]domain.Account, error)
	AddBalance(ctx context.Context, amount decimal.Decimal, id int32) (domain.Account, error)
	NumberExists(ctx context.Context, number int64) (bool, error)
}

// maxNumberAttempts bounds the search for a free account number.
const maxNumberAttempts = 10

// Service facilitates account service layer logic.
type Service struct {
	repo      Repo
	newNumber func() int64
}

// New returns account service struct to manage account bussines logic.
func New(ar Repo) *Service {
	return &Service{
		repo:      ar,
		newNumber: randompkg.AccountNumber,
	}
}

// NewAccountNumber returns a random account number not used by any account yet.
func (s *Service) NewAccountNumber(ctx context.Context) (int64, error) {
	l := zerolog.Ctx(ctx)

	for i := 0; i < maxNumberAttempts; i++ {
		number := s.newNumber()

		exists, err := s.repo.NumberExists(ctx, number)
		if err != nil {
			return 0, err
		}

		if !exists {
			return number, nil
		}

		l.Info().Int64("number", number).Msg("account number is taken")
	}

	return 0, domain.ErrAccountNumberExists
}

// Open opens a new empty account with the given name for the actor.
func (s *Service) Open(ctx context.Context, actor domain.Actor, name string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		l.Info().Err(domain.ErrBlankField).Send()
		return domain.Account{}, domain.ErrBlankField
	}

	// The check in NewAccountNumber can race with another insert, so
	// the unique constraint has the final say.
	for i := 0; i < maxNumberAttempts; i++ {
		number, err := s.NewAccountNumber(ctx)
		if err != nil {
			return domain.Account{}, err
		}

		account, err := s.repo.Create(ctx, domain.CreateAccountParams{
			UserID:  actor.UserID,
			Name:    name,
			Number:  number,
			Balance: decimal.Zero,
		})
		if errors.Is(err, domain.ErrAccountNumberExists) {
			continue
		}

		return account, err
	}

	return domain.Account{}, domain.ErrAccountNumberExists
}

// Get returns the actor's account with the given id.
func (s *Service) Get(ctx context.Context, actor domain.Actor, id int32) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}

	if account.UserID != actor.UserID {
		l.Info().Int32("account_id", id).Int32("user_id", actor.UserID).Err(domain.ErrAccountOwnerMismatch).Send()
		return domain.Account{}, domain.ErrAccountOwnerMismatch
	}

	return account, nil
}

// List returns accounts that are owned by the actor.
func (s *Service) List(ctx context.Context, actor domain.Actor) ([]domain.Account, error) {
	return s.repo.List(ctx, actor.UserID)
}

// AddFunds credits the actor's account with the given amount.
func (s *Service) AddFunds(ctx context.Context, actor domain.Actor, id int32, amount string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	value, err := domain.ParsePositiveAmount(amount)
	if err != nil {
		l.Info().Err(err).Str("amount", amount).Send()
		return domain.Account{}, err
	}

	if _, err := s.Get(ctx, actor, id); err != nil {
		return domain.Account{}, err
	}

	return s.repo.AddBalance(ctx, value, id)
}

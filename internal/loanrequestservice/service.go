// Package loanrequestservice manages business logic layer of loan requests.
package loanrequestservice

import (
	"context"

	"github.com/go-petr/microlend/internal/domain"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by loan request service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package loanrequestservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateLoanRequestParams) (domain.LoanRequest, error)
	List(ctx context.Context) ([]domain.LoanRequest, error)
	ListByUser(ctx context.Context, userID int32) ([]domain.LoanRequest, error)
	Delete(ctx context.Context, id int64) error
}

// AccountService returns accounts owned by the actor.
type AccountService interface {
	Get(ctx context.Context, actor domain.Actor, id int32) (domain.Account, error)
}

// PoolService returns pools.
type PoolService interface {
	Get(ctx context.Context, id int32) (domain.Pool, error)
}

// Service facilitates loan request service layer logic.
type Service struct {
	repo           Repo
	accountService AccountService
	poolService    PoolService
}

// New returns loan request service struct to manage loan request bussines logic.
func New(lr Repo, as AccountService, ps PoolService) *Service {
	return &Service{
		repo:           lr,
		accountService: as,
		poolService:    ps,
	}
}

// Request records the actor's ask to borrow the amount from the pool. No funds move.
func (s *Service) Request(ctx context.Context, actor domain.Actor, poolID, accountID int32, amount string) (domain.LoanRequest, error) {
	l := zerolog.Ctx(ctx)

	value, err := domain.ParsePositiveAmount(amount)
	if err != nil {
		l.Info().Err(err).Str("amount", amount).Send()
		return domain.LoanRequest{}, err
	}

	if _, err := s.accountService.Get(ctx, actor, accountID); err != nil {
		return domain.LoanRequest{}, err
	}

	pool, err := s.poolService.Get(ctx, poolID)
	if err != nil {
		return domain.LoanRequest{}, err
	}

	if pool.Amount.LessThan(value) {
		l.Info().Err(domain.ErrInsufficientPoolFunds).
			Str("pool_amount", pool.Amount.String()).
			Str("amount", value.String()).
			Send()

		return domain.LoanRequest{}, domain.ErrInsufficientPoolFunds
	}

	return s.repo.Create(ctx, domain.CreateLoanRequestParams{
		UserID:    actor.UserID,
		AccountID: accountID,
		PoolID:    poolID,
		Amount:    value,
	})
}

// ListOwn returns the actor's pending loan requests.
func (s *Service) ListOwn(ctx context.Context, actor domain.Actor) ([]domain.LoanRequest, error) {
	return s.repo.ListByUser(ctx, actor.UserID)
}

// ListAll returns every pending loan request. Only bank managers may do it.
func (s *Service) ListAll(ctx context.Context, actor domain.Actor) ([]domain.LoanRequest, error) {
	if !actor.IsBankManager {
		zerolog.Ctx(ctx).Info().Err(domain.ErrNotBankManager).Int32("user_id", actor.UserID).Send()
		return nil, domain.ErrNotBankManager
	}

	return s.repo.List(ctx)
}

// Deny removes the pending loan request. Only bank managers may do it.
func (s *Service) Deny(ctx context.Context, actor domain.Actor, id int64) error {
	l := zerolog.Ctx(ctx)

	if !actor.IsBankManager {
		l.Info().Err(domain.ErrNotBankManager).Int32("user_id", actor.UserID).Send()
		return domain.ErrNotBankManager
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	l.Info().Int64("loan_request_id", id).Int32("by_user_id", actor.UserID).Msg("loan request denied")

	return nil
}

// Package poolservice manages business logic layer of loan pools and contributions.
package poolservice

import (
	"context"
	"strings"

	"github.com/go-petr/microlend/internal/domain"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by pool service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package poolservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreatePoolParams) (domain.Pool, error)
	Get(ctx context.Context, id int32) (domain.Pool, error)
	List(ctx context.Context, category string) ([]domain.Pool, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// ContributionRepo provides data access layer interface for contributions.
type ContributionRepo interface {
	Contribute(ctx context.Context, arg domain.CreateContributionParams) (domain.ContributionTxResult, error)
	ListByUser(ctx context.Context, userID int32) ([]domain.Contribution, error)
}

// AccountService returns accounts owned by the actor.
type AccountService interface {
	Get(ctx context.Context, actor domain.Actor, id int32) (domain.Account, error)
}

// Service facilitates pool service layer logic.
type Service struct {
	repo             Repo
	contributionRepo ContributionRepo
	accountService   AccountService
}

// New returns pool service struct to manage pool bussines logic.
func New(pr Repo, cr ContributionRepo, as AccountService) *Service {
	return &Service{
		repo:             pr,
		contributionRepo: cr,
		accountService:   as,
	}
}

// Create creates a pool with the given starting amount. Only bank managers may do it.
func (s *Service) Create(ctx context.Context, actor domain.Actor, name, category, amount string) (domain.Pool, error) {
	l := zerolog.Ctx(ctx)

	if !actor.IsBankManager {
		l.Info().Err(domain.ErrNotBankManager).Int32("user_id", actor.UserID).Send()
		return domain.Pool{}, domain.ErrNotBankManager
	}

	name, category = strings.TrimSpace(name), strings.TrimSpace(category)
	if name == "" || category == "" {
		l.Info().Err(domain.ErrBlankField).Send()
		return domain.Pool{}, domain.ErrBlankField
	}

	value, err := domain.ParseNonNegativeAmount(amount)
	if err != nil {
		l.Info().Err(err).Str("amount", amount).Send()
		return domain.Pool{}, err
	}

	return s.repo.Create(ctx, domain.CreatePoolParams{
		Name:     name,
		Category: category,
		Amount:   value,
	})
}

// Get returns the pool with the given id.
func (s *Service) Get(ctx context.Context, id int32) (domain.Pool, error) {
	return s.repo.Get(ctx, id)
}

// List returns pools of the given category. Empty or "All" category returns every pool.
func (s *Service) List(ctx context.Context, category string) ([]domain.Pool, error) {
	category = strings.TrimSpace(category)
	if category == domain.AllCategories {
		category = ""
	}

	return s.repo.List(ctx, category)
}

// ListCategories returns distinct pool categories.
func (s *Service) ListCategories(ctx context.Context) ([]string, error) {
	return s.repo.ListCategories(ctx)
}

// Contribute moves the amount from the actor's account into the pool.
//
// Every check runs before any write, so a rejected contribution changes nothing.
func (s *Service) Contribute(ctx context.Context, actor domain.Actor, poolID, accountID int32, amount string) (domain.ContributionTxResult, error) {
	l := zerolog.Ctx(ctx)

	value, err := domain.ParsePositiveAmount(amount)
	if err != nil {
		l.Info().Err(err).Str("amount", amount).Send()
		return domain.ContributionTxResult{}, err
	}

	account, err := s.accountService.Get(ctx, actor, accountID)
	if err != nil {
		return domain.ContributionTxResult{}, err
	}

	if _, err := s.repo.Get(ctx, poolID); err != nil {
		return domain.ContributionTxResult{}, err
	}

	if account.Balance.LessThan(value) {
		l.Info().Err(domain.ErrInsufficientBalance).
			Str("balance", account.Balance.String()).
			Str("amount", value.String()).
			Send()

		return domain.ContributionTxResult{}, domain.ErrInsufficientBalance
	}

	return s.contributionRepo.Contribute(ctx, domain.CreateContributionParams{
		UserID:    actor.UserID,
		PoolID:    poolID,
		AccountID: accountID,
		Amount:    value,
	})
}

// ListContributions returns the actor's contribution history.
func (s *Service) ListContributions(ctx context.Context, actor domain.Actor) ([]domain.Contribution, error) {
	return s.contributionRepo.ListByUser(ctx, actor.UserID)
}

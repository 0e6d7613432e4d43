// Package loanservice manages business logic layer of loans.
package loanservice

import (
	"context"
	"strings"
	"time"

	"github.com/go-petr/microlend/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Repo provides data access layer interface needed by loan service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package loanservice
type Repo interface {
	Originate(ctx context.Context, arg domain.OriginateLoanParams) (domain.OriginationTxResult, error)
	List(ctx context.Context) ([]domain.Loan, error)
	ListByUser(ctx context.Context, userID int32) ([]domain.Loan, error)
	SaveAccruals(ctx context.Context, loans []domain.Loan) ([]domain.Loan, error)
}

const dateLayout = "2006-01-02"

var maxInterestRate = decimal.NewFromInt(100)

// Service facilitates loan service layer logic.
type Service struct {
	repo Repo
	now  func() time.Time
}

// New returns loan service struct to manage loan bussines logic.
func New(lr Repo) *Service {
	return &Service{
		repo: lr,
		now:  time.Now,
	}
}

// Originate approves the pending loan request: the pool is debited, the loan
// is created and the request is removed. Only bank managers may do it.
func (s *Service) Originate(ctx context.Context, actor domain.Actor, requestID int64, rate, dueDate string) (domain.OriginationTxResult, error) {
	l := zerolog.Ctx(ctx)

	if !actor.IsBankManager {
		l.Info().Err(domain.ErrNotBankManager).Int32("user_id", actor.UserID).Send()
		return domain.OriginationTxResult{}, domain.ErrNotBankManager
	}

	interestRate, err := parseInterestRate(rate)
	if err != nil {
		l.Info().Err(err).Str("interest_rate", rate).Send()
		return domain.OriginationTxResult{}, err
	}

	now := s.now().UTC()

	due, err := parseDueDate(dueDate, now)
	if err != nil {
		l.Info().Err(err).Str("due_date", dueDate).Send()
		return domain.OriginationTxResult{}, err
	}

	result, err := s.repo.Originate(ctx, domain.OriginateLoanParams{
		LoanRequestID: requestID,
		InterestRate:  interestRate,
		DateApproved:  now,
		DateDue:       due,
	})
	if err != nil {
		return domain.OriginationTxResult{}, err
	}

	l.Info().
		Int64("loan_request_id", requestID).
		Int64("loan_id", result.Loan.ID).
		Int32("by_user_id", actor.UserID).
		Msg("loan originated")

	return result, nil
}

func parseInterestRate(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NewFromInt(domain.DefaultInterestRate), nil
	}

	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, domain.ErrInvalidInterestRate
	}

	rate, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, domain.ErrInvalidInterestRate
	}

	if rate.IsNegative() || rate.GreaterThan(maxInterestRate) {
		return decimal.Zero, domain.ErrInvalidInterestRate
	}

	return rate, nil
}

// parseDueDate accepts YYYY-MM-DD or RFC 3339. A due date earlier than the
// approval day is rejected.
func parseDueDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, domain.ErrBlankDueDate
	}

	due, err := time.Parse(dateLayout, s)
	if err != nil {
		due, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, domain.ErrInvalidDueDate
		}
	}

	due = due.UTC()

	if due.Before(now.Truncate(day)) {
		return time.Time{}, domain.ErrInvalidDueDate
	}

	return due, nil
}

// ListLoans returns the actor's loans with interest accrued up to now.
// Only loans whose amounts moved are written back.
func (s *Service) ListLoans(ctx context.Context, actor domain.Actor) ([]domain.Loan, error) {
	loans, err := s.repo.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	all, changed := accrueAll(loans, s.now())

	if len(changed) == 0 {
		return all, nil
	}

	saved, err := s.repo.SaveAccruals(ctx, changed)
	if err != nil {
		return nil, err
	}

	// Stored rows may carry a larger accrual written concurrently.
	byID := make(map[int64]domain.Loan, len(saved))
	for _, ln := range saved {
		byID[ln.ID] = ln
	}

	for i, ln := range all {
		if stored, ok := byID[ln.ID]; ok {
			all[i] = stored
		}
	}

	return all, nil
}

// AccrueAll catches every loan up to now and returns how many loans changed.
func (s *Service) AccrueAll(ctx context.Context) (int, error) {
	l := zerolog.Ctx(ctx)

	loans, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}

	_, changed := accrueAll(loans, s.now())
	if len(changed) == 0 {
		return 0, nil
	}

	if _, err := s.repo.SaveAccruals(ctx, changed); err != nil {
		return 0, err
	}

	l.Info().Int("loans", len(loans)).Int("changed", len(changed)).Msg("accrual done")

	return len(changed), nil
}

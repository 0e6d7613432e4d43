// Package userservice manages business logic layer of users.
package userservice

import (
	"context"
	"errors"
	"strings"

	"github.com/go-petr/microlend/internal/domain"
	"github.com/go-petr/microlend/pkg/errorspkg"
	"github.com/go-petr/microlend/pkg/passpkg"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by user service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package userservice
type Repo interface {
	SignUp(ctx context.Context, arg domain.CreateUserParams, accountNumber int64) (domain.SignUpResult, error)
	Get(ctx context.Context, id int32) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	Update(ctx context.Context, arg domain.UpdateUserParams) (domain.User, error)
	UpdatePassword(ctx context.Context, id int32, hashedPassword string) (domain.User, error)
	SetBankManager(ctx context.Context, id int32) (domain.User, error)
}

// AccountNumberGenerator provides free bank account numbers.
type AccountNumberGenerator interface {
	NewAccountNumber(ctx context.Context) (int64, error)
}

// Service facilitates user service layer logic.
type Service struct {
	repo             Repo
	numbers          AccountNumberGenerator
	bootstrapManager string
}

// New return user service struct to manage user bussines logic.
//
// The user signing up with bootstrapManager username becomes a bank manager.
func New(ur Repo, numbers AccountNumberGenerator, bootstrapManager string) *Service {
	return &Service{
		repo:             ur,
		numbers:          numbers,
		bootstrapManager: bootstrapManager,
	}
}

func anyBlank(fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return true
		}
	}

	return false
}

// SignUp creates the user together with the default checking account.
func (s *Service) SignUp(ctx context.Context, firstName, lastName, username, password string) (domain.UserWihtoutPassword, domain.Account, error) {
	l := zerolog.Ctx(ctx)

	if anyBlank(firstName, lastName, username, password) {
		l.Info().Err(domain.ErrBlankField).Send()
		return domain.UserWihtoutPassword{}, domain.Account{}, domain.ErrBlankField
	}

	if len(password) < domain.MinPasswordLength {
		l.Info().Err(domain.ErrShortPassword).Send()
		return domain.UserWihtoutPassword{}, domain.Account{}, domain.ErrShortPassword
	}

	hashedPassword, err := passpkg.Hash(password)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.UserWihtoutPassword{}, domain.Account{}, errorspkg.ErrInternal
	}

	number, err := s.numbers.NewAccountNumber(ctx)
	if err != nil {
		return domain.UserWihtoutPassword{}, domain.Account{}, err
	}

	arg := domain.CreateUserParams{
		FirstName:      strings.TrimSpace(firstName),
		LastName:       strings.TrimSpace(lastName),
		Username:       username,
		HashedPassword: hashedPassword,
		IsBankManager:  s.bootstrapManager != "" && username == s.bootstrapManager,
	}

	result, err := s.repo.SignUp(ctx, arg, number)
	if err != nil {
		return domain.UserWihtoutPassword{}, domain.Account{}, err
	}

	return domain.NewUserWihtoutPassword(result.User), result.Account, nil
}

// CheckPassword checks if the password is valid for the given username.
func (s *Service) CheckPassword(ctx context.Context, username, pass string) (domain.UserWihtoutPassword, error) {
	l := zerolog.Ctx(ctx)

	var response domain.UserWihtoutPassword

	gotUser, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return response, err
	}

	err = passpkg.Check(pass, gotUser.HashedPassword)
	if err != nil {
		l.Warn().Err(err).Send()
		return response, domain.ErrWrongPassword
	}

	response = domain.NewUserWihtoutPassword(gotUser)

	return response, nil
}

// GetProfile returns the actor's profile.
func (s *Service) GetProfile(ctx context.Context, actor domain.Actor) (domain.UserWihtoutPassword, error) {
	u, err := s.repo.Get(ctx, actor.UserID)
	if err != nil {
		return domain.UserWihtoutPassword{}, err
	}

	return domain.NewUserWihtoutPassword(u), nil
}

// UpdateProfile changes the actor's names and username.
func (s *Service) UpdateProfile(ctx context.Context, actor domain.Actor, firstName, lastName, username string) (domain.UserWihtoutPassword, error) {
	l := zerolog.Ctx(ctx)

	if anyBlank(firstName, lastName, username) {
		l.Info().Err(domain.ErrBlankField).Send()
		return domain.UserWihtoutPassword{}, domain.ErrBlankField
	}

	u, err := s.repo.Update(ctx, domain.UpdateUserParams{
		ID:        actor.UserID,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Username:  username,
	})
	if err != nil {
		return domain.UserWihtoutPassword{}, err
	}

	return domain.NewUserWihtoutPassword(u), nil
}

// ChangePassword replaces the actor's password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, actor domain.Actor, current, newPassword, confirmation string) error {
	l := zerolog.Ctx(ctx)

	if newPassword != confirmation {
		l.Info().Err(domain.ErrPasswordMismatch).Send()
		return domain.ErrPasswordMismatch
	}

	if len(newPassword) < domain.MinPasswordLength {
		l.Info().Err(domain.ErrShortPassword).Send()
		return domain.ErrShortPassword
	}

	u, err := s.repo.Get(ctx, actor.UserID)
	if err != nil {
		return err
	}

	if err := passpkg.Check(current, u.HashedPassword); err != nil {
		l.Warn().Err(err).Send()
		return domain.ErrWrongPassword
	}

	hashedPassword, err := passpkg.Hash(newPassword)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if _, err := s.repo.UpdatePassword(ctx, actor.UserID, hashedPassword); err != nil {
		return err
	}

	return nil
}

// Promote grants the bank manager role to the user with the given id.
func (s *Service) Promote(ctx context.Context, actor domain.Actor, userID int32) (domain.UserWihtoutPassword, error) {
	l := zerolog.Ctx(ctx)

	if !actor.IsBankManager {
		l.Info().Err(domain.ErrNotBankManager).Int32("user_id", actor.UserID).Send()
		return domain.UserWihtoutPassword{}, domain.ErrNotBankManager
	}

	u, err := s.repo.SetBankManager(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			l.Error().Err(err).Send()
		}

		return domain.UserWihtoutPassword{}, err
	}

	l.Info().Int32("promoted_user_id", userID).Int32("by_user_id", actor.UserID).Msg("user promoted to bank manager")

	return domain.NewUserWihtoutPassword(u), nil
}

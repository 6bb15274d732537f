package usecase

import (
	"context"

	"telegram-subscription-admin/internal/domain"
	"telegram-subscription-admin/internal/domain/model"
	"telegram-subscription-admin/internal/domain/ports/repository"
	"telegram-subscription-admin/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

// UserUseCase exposes user-related operations used by bot/admin flows.
type UserUseCase interface {
	RegisterOrFetch(ctx context.Context, tgID int64, profile repository.UserProfile) (*model.User, error)
	GetByTelegramID(ctx context.Context, tgID int64) (*model.User, error)
	SetLanguage(ctx context.Context, tgID int64, lang model.Language) error
	SetStatus(ctx context.Context, tgID int64, status model.UserStatus) error
	MarkTestUsed(ctx context.Context, tgID int64) error
}

type userUC struct {
	users repository.UserRepository
	log   *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, logger *zerolog.Logger) *userUC {
	return &userUC{users: users, log: logger}
}

// RegisterOrFetch returns the stored user, creating it on first contact.
// Safe under concurrent first contact from the same actor: the repository
// treats a duplicate insert as "already created" and re-fetches.
func (u *userUC) RegisterOrFetch(ctx context.Context, tgID int64, profile repository.UserProfile) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.RegisterOrFetch")()
	if tgID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	user, err := u.users.GetOrCreate(ctx, tgID, profile)
	if err != nil {
		u.log.Error().Err(err).Int64("tg_id", tgID).Msg("failed to register or fetch user")
		return nil, err
	}
	return user, nil
}

func (u *userUC) GetByTelegramID(ctx context.Context, tgID int64) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.GetByTelegramID")()
	return u.users.Find(ctx, tgID)
}

func (u *userUC) SetLanguage(ctx context.Context, tgID int64, lang model.Language) error {
	defer logging.TraceDuration(u.log, "UserUC.SetLanguage")()
	if !model.ValidLanguage(string(lang)) {
		return domain.ErrInvalidArgument
	}
	return u.users.Update(ctx, tgID, model.UserPatch{Language: &lang})
}

func (u *userUC) SetStatus(ctx context.Context, tgID int64, status model.UserStatus) error {
	defer logging.TraceDuration(u.log, "UserUC.SetStatus")()
	return u.users.Update(ctx, tgID, model.UserPatch{Status: &status})
}

func (u *userUC) MarkTestUsed(ctx context.Context, tgID int64) error {
	defer logging.TraceDuration(u.log, "UserUC.MarkTestUsed")()
	used := true
	return u.users.Update(ctx, tgID, model.UserPatch{TestUsed: &used})
}

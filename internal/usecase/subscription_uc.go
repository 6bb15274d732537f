package usecase

import (
	"context"
	"time"

	"telegram-subscription-admin/internal/domain/model"
	"telegram-subscription-admin/internal/domain/ports/repository"
	"telegram-subscription-admin/internal/infra/logging"

	"github.com/rs/zerolog"
)

var _ SubscriptionUseCase = (*subscriptionUC)(nil)

// SubscriptionUseCase tracks per-user subscriptions created when an order
// completes; status transitions are admin- or backend-driven.
type SubscriptionUseCase interface {
	Create(ctx context.Context, tgID int64, planID, backendConfigID string, expiresAt *time.Time) (*model.Subscription, error)
	List(ctx context.Context, tgID int64, status model.SubscriptionStatus) ([]*model.Subscription, error)
	UpdateStatus(ctx context.Context, id int64, status model.SubscriptionStatus) error
}

type subscriptionUC struct {
	subs repository.SubscriptionRepository
	log  *zerolog.Logger
}

func NewSubscriptionUseCase(subs repository.SubscriptionRepository, logger *zerolog.Logger) *subscriptionUC {
	return &subscriptionUC{subs: subs, log: logger}
}

func (uc *subscriptionUC) Create(ctx context.Context, tgID int64, planID, backendConfigID string, expiresAt *time.Time) (*model.Subscription, error) {
	defer logging.TraceDuration(uc.log, "SubscriptionUC.Create")()
	sub, err := model.NewSubscription(tgID, planID, backendConfigID, expiresAt)
	if err != nil {
		return nil, err
	}
	if err := uc.subs.Create(ctx, sub); err != nil {
		uc.log.Error().Err(err).Int64("tg_id", tgID).Str("plan_id", planID).Msg("failed to create subscription")
		return nil, err
	}
	return sub, nil
}

func (uc *subscriptionUC) List(ctx context.Context, tgID int64, status model.SubscriptionStatus) ([]*model.Subscription, error) {
	defer logging.TraceDuration(uc.log, "SubscriptionUC.List")()
	return uc.subs.ListByUser(ctx, tgID, status)
}

func (uc *subscriptionUC) UpdateStatus(ctx context.Context, id int64, status model.SubscriptionStatus) error {
	defer logging.TraceDuration(uc.log, "SubscriptionUC.UpdateStatus")()
	return uc.subs.UpdateStatus(ctx, id, status)
}

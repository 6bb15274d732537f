package repository

import (
	"context"

	"telegram-subscription-admin/internal/domain/model"
)

type SubscriptionRepository interface {
	// Create persists the subscription and fills in its generated id.
	Create(ctx context.Context, sub *model.Subscription) error
	// ListByUser returns the user's subscriptions most-recent-first.
	// status filters by exact match when non-empty.
	ListByUser(ctx context.Context, tgID int64, status model.SubscriptionStatus) ([]*model.Subscription, error)
	UpdateStatus(ctx context.Context, id int64, status model.SubscriptionStatus) error
}

package sqlite

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"telegram-subscription-admin/internal/domain"
	"telegram-subscription-admin/internal/domain/model"
	"telegram-subscription-admin/internal/domain/ports/repository"
)

var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

type subscriptionRow struct {
	ID              int64      `gorm:"column:id;primaryKey;autoIncrement"`
	TelegramID      int64      `gorm:"column:telegram_id;not null;index:idx_subs_telegram_id"`
	PlanID          string     `gorm:"column:plan_id;not null"`
	BackendConfigID string     `gorm:"column:backend_config_id"`
	Status          string     `gorm:"column:status;not null;default:active;index:idx_subs_status"`
	ExpiresAt       *time.Time `gorm:"column:expires_at"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`

	User userRow `gorm:"foreignKey:TelegramID;references:TelegramID;constraint:OnDelete:CASCADE"`
}

func (subscriptionRow) TableName() string { return "user_subscriptions" }

func (r subscriptionRow) toModel() *model.Subscription {
	return &model.Subscription{
		ID:              r.ID,
		TelegramID:      r.TelegramID,
		PlanID:          r.PlanID,
		BackendConfigID: r.BackendConfigID,
		Status:          model.SubscriptionStatus(r.Status),
		ExpiresAt:       r.ExpiresAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

type SubscriptionRepo struct {
	db *gorm.DB
}

func NewSubscriptionRepo(db *gorm.DB) *SubscriptionRepo {
	return &SubscriptionRepo{db: db}
}

func (r *SubscriptionRepo) Create(ctx context.Context, sub *model.Subscription) error {
	row := subscriptionRow{
		TelegramID:      sub.TelegramID,
		PlanID:          sub.PlanID,
		BackendConfigID: sub.BackendConfigID,
		Status:          string(sub.Status),
		ExpiresAt:       sub.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("%w: create subscription: %v", domain.ErrStorage, err)
	}
	sub.ID = row.ID
	sub.CreatedAt = row.CreatedAt
	sub.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *SubscriptionRepo) ListByUser(ctx context.Context, tgID int64, status model.SubscriptionStatus) ([]*model.Subscription, error) {
	q := r.db.WithContext(ctx).Where("telegram_id = ?", tgID)
	if status != "" {
		q = q.Where("status = ?", string(status))
	}
	var rows []subscriptionRow
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: list subscriptions: %v", domain.ErrStorage, err)
	}
	out := make([]*model.Subscription, len(rows))
	for i, row := range rows {
		out[i] = row.toModel()
	}
	return out, nil
}

func (r *SubscriptionRepo) UpdateStatus(ctx context.Context, id int64, status model.SubscriptionStatus) error {
	res := r.db.WithContext(ctx).Model(&subscriptionRow{}).Where("id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("%w: update subscription status: %v", domain.ErrStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

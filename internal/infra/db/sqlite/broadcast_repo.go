package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"telegram-subscription-admin/internal/domain"
	"telegram-subscription-admin/internal/domain/model"
	"telegram-subscription-admin/internal/domain/ports/repository"
)

var _ repository.BroadcastRepository = (*BroadcastRepo)(nil)

type broadcastRow struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Audience    string    `gorm:"column:audience;not null"`
	MessageText string    `gorm:"column:message_text;not null"`
	SentCount   int       `gorm:"column:sent_count;not null;default:0"`
	FailedCount int       `gorm:"column:failed_count;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (broadcastRow) TableName() string { return "broadcast_history" }

type BroadcastRepo struct {
	db *gorm.DB
}

func NewBroadcastRepo(db *gorm.DB) *BroadcastRepo {
	return &BroadcastRepo{db: db}
}

func (r *BroadcastRepo) Create(ctx context.Context, audience model.Audience, messageText string) (int64, error) {
	row := broadcastRow{
		Audience:    string(audience),
		MessageText: messageText,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("%w: create broadcast record: %v", domain.ErrStorage, err)
	}
	return row.ID, nil
}

func (r *BroadcastRepo) UpdateStats(ctx context.Context, id int64, sent, failed int) error {
	res := r.db.WithContext(ctx).Model(&broadcastRow{}).Where("id = ?", id).
		Updates(map[string]any{
			"sent_count":   sent,
			"failed_count": failed,
		})
	if res.Error != nil {
		return fmt.Errorf("%w: update broadcast stats: %v", domain.ErrStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BroadcastRepo) Find(ctx context.Context, id int64) (*model.BroadcastRecord, error) {
	var row broadcastRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: find broadcast record: %v", domain.ErrStorage, err)
	}
	return &model.BroadcastRecord{
		ID:          row.ID,
		Audience:    model.Audience(row.Audience),
		MessageText: row.MessageText,
		SentCount:   row.SentCount,
		FailedCount: row.FailedCount,
		CreatedAt:   row.CreatedAt,
	}, nil
}

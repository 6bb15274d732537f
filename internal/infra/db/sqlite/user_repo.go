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

var _ repository.UserRepository = (*UserRepo)(nil)

type userRow struct {
	TelegramID int64     `gorm:"column:telegram_id;primaryKey;autoIncrement:false"`
	Username   string    `gorm:"column:username"`
	FirstName  string    `gorm:"column:first_name"`
	LastName   string    `gorm:"column:last_name"`
	Language   string    `gorm:"column:language;not null;default:en"`
	Status     string    `gorm:"column:status;not null;default:active;index:idx_users_status"`
	TestUsed   bool      `gorm:"column:test_used;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (userRow) TableName() string { return "users" }

func (r userRow) toModel() *model.User {
	return &model.User{
		TelegramID: r.TelegramID,
		Username:   r.Username,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Language:   model.Language(r.Language),
		Status:     model.UserStatus(r.Status),
		TestUsed:   r.TestUsed,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Find(ctx context.Context, tgID int64) (*model.User, error) {
	var row userRow
	err := r.db.WithContext(ctx).First(&row, "telegram_id = ?", tgID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: find user: %v", domain.ErrStorage, err)
	}
	return row.toModel(), nil
}

func (r *UserRepo) GetOrCreate(ctx context.Context, tgID int64, profile repository.UserProfile) (*model.User, error) {
	u, err := r.Find(ctx, tgID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	row := userRow{
		TelegramID: tgID,
		Username:   profile.Username,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		Language:   string(model.LangEN),
		Status:     string(model.UserActive),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		// A concurrent first contact may have inserted the row between the
		// read and the write; the duplicate key means it exists now.
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: create user: %v", domain.ErrStorage, err)
		}
	}
	return r.Find(ctx, tgID)
}

func (r *UserRepo) Update(ctx context.Context, tgID int64, patch model.UserPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	fields := map[string]any{"updated_at": time.Now().UTC()}
	if patch.Username != nil {
		fields["username"] = *patch.Username
	}
	if patch.FirstName != nil {
		fields["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		fields["last_name"] = *patch.LastName
	}
	if patch.Language != nil {
		fields["language"] = string(*patch.Language)
	}
	if patch.Status != nil {
		fields["status"] = string(*patch.Status)
	}
	if patch.TestUsed != nil {
		fields["test_used"] = *patch.TestUsed
	}
	res := r.db.WithContext(ctx).Model(&userRow{}).Where("telegram_id = ?", tgID).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("%w: update user: %v", domain.ErrStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepo) IDsByStatus(ctx context.Context, status model.UserStatus) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&userRow{}).
		Where("status = ?", string(status)).
		Pluck("telegram_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("%w: ids by status: %v", domain.ErrStorage, err)
	}
	return ids, nil
}

func (r *UserRepo) AllIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&userRow{}).Pluck("telegram_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("%w: all ids: %v", domain.ErrStorage, err)
	}
	return ids, nil
}

func (r *UserRepo) TestUserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&userRow{}).
		Where("test_used = ?", true).
		Pluck("telegram_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("%w: test user ids: %v", domain.ErrStorage, err)
	}
	return ids, nil
}

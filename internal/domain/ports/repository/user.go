package repository

import (
	"context"

	"telegram-subscription-admin/internal/domain/model"
)

// -----------------------------
// Users
// -----------------------------

// UserProfile carries the profile fields known at first contact.
type UserProfile struct {
	Username  string
	FirstName string
	LastName  string
}

type UserRepository interface {
	// GetOrCreate returns the stored user, inserting it with defaults on
	// first contact. A concurrent duplicate insert is treated as "already
	// created": the row is re-fetched and returned.
	GetOrCreate(ctx context.Context, tgID int64, profile UserProfile) (*model.User, error)
	Find(ctx context.Context, tgID int64) (*model.User, error)
	// Update writes only the supplied patch fields plus updated_at.
	Update(ctx context.Context, tgID int64, patch model.UserPatch) error

	// Audience resolution for broadcast fan-out.
	IDsByStatus(ctx context.Context, status model.UserStatus) ([]int64, error)
	AllIDs(ctx context.Context) ([]int64, error)
	TestUserIDs(ctx context.Context) ([]int64, error)
}

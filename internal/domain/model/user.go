package model

import (
	"time"

	"telegram-subscription-admin/internal/domain"
)

type Language string

const (
	LangEN Language = "en"
	LangFA Language = "fa"
)

// ValidLanguage reports whether code is a supported locale.
func ValidLanguage(code string) bool {
	return code == string(LangEN) || code == string(LangFA)
}

type UserStatus string

const (
	UserActive  UserStatus = "active"
	UserExpired UserStatus = "expired"
	UserTest    UserStatus = "test"
	UserBanned  UserStatus = "banned"
)

// User is a domain entity representing a Telegram user in our system.
// It is keyed by the Telegram id; users are never hard-deleted.
type User struct {
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
	Language   Language
	Status     UserStatus
	TestUsed   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewUser(tgID int64, username, firstName, lastName string) (*User, error) {
	if tgID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now().UTC()
	return &User{
		TelegramID: tgID,
		Username:   username,
		FirstName:  firstName,
		LastName:   lastName,
		Language:   LangEN,
		Status:     UserActive,
		TestUsed:   false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (u *User) IsZero() bool { return u == nil || u.TelegramID == 0 }

// UserPatch is a partial update: only non-nil fields are written.
type UserPatch struct {
	Username  *string
	FirstName *string
	LastName  *string
	Language  *Language
	Status    *UserStatus
	TestUsed  *bool
}

func (p UserPatch) IsEmpty() bool {
	return p.Username == nil && p.FirstName == nil && p.LastName == nil &&
		p.Language == nil && p.Status == nil && p.TestUsed == nil
}

package model

import (
	"time"

	"telegram-subscription-admin/internal/domain"
)

type SubscriptionStatus string

const (
	SubActive    SubscriptionStatus = "active"
	SubExpired   SubscriptionStatus = "expired"
	SubCancelled SubscriptionStatus = "cancelled"
)

// Subscription links a user to a purchased plan and the backend config
// provisioned for it. Status changes are admin- or backend-driven.
type Subscription struct {
	ID              int64
	TelegramID      int64
	PlanID          string
	BackendConfigID string
	Status          SubscriptionStatus
	ExpiresAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NewSubscription(tgID int64, planID string, backendConfigID string, expiresAt *time.Time) (*Subscription, error) {
	if tgID <= 0 || planID == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now().UTC()
	return &Subscription{
		TelegramID:      tgID,
		PlanID:          planID,
		BackendConfigID: backendConfigID,
		Status:          SubActive,
		ExpiresAt:       expiresAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

package repository

import (
	"context"

	"telegram-subscription-admin/internal/domain/model"
)

type BroadcastRepository interface {
	// Create inserts a record with zero counts before fan-out starts and
	// returns its id.
	Create(ctx context.Context, audience model.Audience, messageText string) (int64, error)
	// UpdateStats writes the final counts once, after fan-out completes.
	UpdateStats(ctx context.Context, id int64, sent, failed int) error
	Find(ctx context.Context, id int64) (*model.BroadcastRecord, error)
}

package repository

import (
	"context"

	"telegram-subscription-admin/internal/domain/model"
)

// PlanCatalog is the port for the file-backed plan catalog. Operations are
// whole-document: callers serialize their own read-modify-write through the
// workflow engine (catalog edits are human-paced, last writer wins).
type PlanCatalog interface {
	Load(ctx context.Context) ([]model.Plan, error)
	Save(ctx context.Context, plans []model.Plan) error
}

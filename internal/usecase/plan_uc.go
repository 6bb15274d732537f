package usecase

import (
	"context"

	"telegram-subscription-admin/internal/domain"
	"telegram-subscription-admin/internal/domain/model"
	"telegram-subscription-admin/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

var _ PlanUseCase = (*planUC)(nil)

// PlanUseCase edits the plan catalog document. All mutations are
// whole-document read-modify-write; the workflow engine serializes them
// (catalog edits are human-paced, one admin workflow per actor).
type PlanUseCase interface {
	List(ctx context.Context) ([]model.Plan, error)
	Get(ctx context.Context, id string) (*model.Plan, error)
	// Add inserts the plan, replacing any existing entry with the same id.
	Add(ctx context.Context, plan *model.Plan) error
	// Edit merges a partial patch into the entry with the given id.
	// A missing id is domain.ErrNotFound, never a silent insert.
	Edit(ctx context.Context, id string, patch *model.PlanPatch) error
}

type planUC struct {
	catalog repository.PlanCatalog
	log     *zerolog.Logger
}

func NewPlanUseCase(catalog repository.PlanCatalog, logger *zerolog.Logger) *planUC {
	return &planUC{catalog: catalog, log: logger}
}

func (uc *planUC) List(ctx context.Context) ([]model.Plan, error) {
	return uc.catalog.Load(ctx)
}

func (uc *planUC) Get(ctx context.Context, id string) (*model.Plan, error) {
	plans, err := uc.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range plans {
		if plans[i].ID == id {
			p := plans[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (uc *planUC) Add(ctx context.Context, plan *model.Plan) error {
	if plan.IsZero() {
		return domain.ErrValidation
	}
	plans, err := uc.catalog.Load(ctx)
	if err != nil {
		return err
	}
	// Replace if an entry with the same id exists; else append.
	kept := plans[:0]
	for _, p := range plans {
		if p.ID != plan.ID {
			kept = append(kept, p)
		}
	}
	kept = append(kept, *plan)
	if err := uc.catalog.Save(ctx, kept); err != nil {
		uc.log.Error().Err(err).Str("plan_id", plan.ID).Msg("failed to save plan catalog")
		return err
	}
	return nil
}

func (uc *planUC) Edit(ctx context.Context, id string, patch *model.PlanPatch) error {
	if patch == nil {
		return domain.ErrValidation
	}
	plans, err := uc.catalog.Load(ctx)
	if err != nil {
		return err
	}
	updated := false
	for i := range plans {
		if plans[i].ID == id {
			plans[i] = patch.Apply(plans[i])
			updated = true
			break
		}
	}
	if !updated {
		return domain.ErrNotFound
	}
	if err := uc.catalog.Save(ctx, plans); err != nil {
		uc.log.Error().Err(err).Str("plan_id", id).Msg("failed to save plan catalog")
		return err
	}
	return nil
}

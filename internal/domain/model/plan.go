package model

import (
	"encoding/json"
	"strings"

	"telegram-subscription-admin/internal/domain"
)

// Plan is a catalog item: a purchasable subscription plan mapped onto a
// backend plan id. The catalog is an ordered document, not a table.
type Plan struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	DurationDays  int     `json:"duration_days"`
	DataGB        int     `json:"data_gb"`
	BackendPlanID string  `json:"backend_plan_id"`
}

func (p *Plan) IsZero() bool { return p == nil || p.ID == "" }

// ParsePlan decodes an admin-entered plan document. Every field is required;
// a missing field is a validation error, not a default.
func ParsePlan(text string) (*Plan, error) {
	var raw struct {
		ID            *string  `json:"id"`
		Name          *string  `json:"name"`
		Price         *float64 `json:"price"`
		DurationDays  *int     `json:"duration_days"`
		DataGB        *int     `json:"data_gb"`
		BackendPlanID *string  `json:"backend_plan_id"`
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, domain.ErrValidation
	}
	if raw.ID == nil || raw.Name == nil || raw.Price == nil ||
		raw.DurationDays == nil || raw.DataGB == nil || raw.BackendPlanID == nil {
		return nil, domain.ErrValidation
	}
	p := &Plan{
		ID:            *raw.ID,
		Name:          *raw.Name,
		Price:         *raw.Price,
		DurationDays:  *raw.DurationDays,
		DataGB:        *raw.DataGB,
		BackendPlanID: *raw.BackendPlanID,
	}
	if p.ID == "" || p.Name == "" {
		return nil, domain.ErrValidation
	}
	return p, nil
}

// PlanPatch is a partial plan update. Only non-nil fields are merged into an
// existing entry; the target id itself is immutable.
type PlanPatch struct {
	Name          *string  `json:"name"`
	Price         *float64 `json:"price"`
	DurationDays  *int     `json:"duration_days"`
	DataGB        *int     `json:"data_gb"`
	BackendPlanID *string  `json:"backend_plan_id"`
}

// ParsePlanPatch decodes a partial plan document. Unknown fields are
// rejected so typos surface as errors instead of silently vanishing.
func ParsePlanPatch(text string) (*PlanPatch, error) {
	var patch PlanPatch
	dec := json.NewDecoder(strings.NewReader(text))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		return nil, domain.ErrValidation
	}
	return &patch, nil
}

func (pp *PlanPatch) IsEmpty() bool {
	return pp == nil || (pp.Name == nil && pp.Price == nil && pp.DurationDays == nil &&
		pp.DataGB == nil && pp.BackendPlanID == nil)
}

// Apply merges the patch into a plan copy and returns it.
func (pp *PlanPatch) Apply(p Plan) Plan {
	if pp == nil {
		return p
	}
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	if pp.DurationDays != nil {
		p.DurationDays = *pp.DurationDays
	}
	if pp.DataGB != nil {
		p.DataGB = *pp.DataGB
	}
	if pp.BackendPlanID != nil {
		p.BackendPlanID = *pp.BackendPlanID
	}
	return p
}

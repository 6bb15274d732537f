//go:build !integration

package model_test

import (
	"errors"
	"testing"

	"telegram-subscription-admin/internal/domain"
	"telegram-subscription-admin/internal/domain/model"
)

const fullPlanJSON = `{"id":"basic","name":"Basic","price":5.0,"duration_days":30,"data_gb":50,"backend_plan_id":"B30"}`

func TestParsePlan(t *testing.T) {
	t.Run("accepts a complete document", func(t *testing.T) {
		p, err := model.ParsePlan(fullPlanJSON)
		if err != nil {
			t.Fatalf("ParsePlan returned error: %v", err)
		}
		if p.ID != "basic" || p.Price != 5.0 || p.DurationDays != 30 || p.DataGB != 50 || p.BackendPlanID != "B30" {
			t.Fatalf("unexpected plan: %+v", p)
		}
	})

	cases := []struct {
		name string
		in   string
	}{
		{"not json", "plans please"},
		{"missing field", `{"id":"basic","name":"Basic","price":5.0,"duration_days":30,"data_gb":50}`},
		{"unknown field", `{"id":"basic","name":"Basic","price":5.0,"duration_days":30,"data_gb":50,"backend_plan_id":"B30","color":"red"}`},
		{"empty id", `{"id":"","name":"Basic","price":5.0,"duration_days":30,"data_gb":50,"backend_plan_id":"B30"}`},
		{"empty name", `{"id":"basic","name":"","price":5.0,"duration_days":30,"data_gb":50,"backend_plan_id":"B30"}`},
	}
	for _, tc := range cases {
		t.Run("rejects "+tc.name, func(t *testing.T) {
			if _, err := model.ParsePlan(tc.in); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("want ErrValidation, got %v", err)
			}
		})
	}
}

func TestParsePlanPatch(t *testing.T) {
	t.Run("partial fields are allowed", func(t *testing.T) {
		patch, err := model.ParsePlanPatch(`{"price":7.5}`)
		if err != nil {
			t.Fatalf("ParsePlanPatch returned error: %v", err)
		}
		if patch.Price == nil || *patch.Price != 7.5 {
			t.Fatalf("price not decoded: %+v", patch)
		}
		if patch.Name != nil || patch.DurationDays != nil {
			t.Fatalf("absent fields must stay nil: %+v", patch)
		}
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		if _, err := model.ParsePlanPatch(`{"pricee":7.5}`); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("want ErrValidation, got %v", err)
		}
	})
}

func TestPlanPatch_Apply(t *testing.T) {
	base := model.Plan{ID: "basic", Name: "Basic", Price: 5, DurationDays: 30, DataGB: 50, BackendPlanID: "B30"}

	name := "Basic v2"
	days := 60
	patch := &model.PlanPatch{Name: &name, DurationDays: &days}

	got := patch.Apply(base)
	if got.Name != "Basic v2" || got.DurationDays != 60 {
		t.Fatalf("patched fields not applied: %+v", got)
	}
	if got.ID != "basic" || got.Price != 5 || got.DataGB != 50 || got.BackendPlanID != "B30" {
		t.Fatalf("unpatched fields changed: %+v", got)
	}
	if base.Name != "Basic" {
		t.Fatalf("Apply must not mutate its input: %+v", base)
	}
}

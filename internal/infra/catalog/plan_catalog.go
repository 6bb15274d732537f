// Package catalog stores the plan catalog as a single human-readable JSON
// document, rewritten wholesale on every mutation.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"telegram-subscription-admin/internal/domain"
	"telegram-subscription-admin/internal/domain/model"
	"telegram-subscription-admin/internal/domain/ports/repository"
)

var _ repository.PlanCatalog = (*FileCatalog)(nil)

type FileCatalog struct {
	path string
}

func NewFileCatalog(path string) *FileCatalog {
	return &FileCatalog{path: path}
}

// Load returns the stored plans in document order. A missing file is an
// empty catalog, not an error.
func (c *FileCatalog) Load(ctx context.Context) ([]model.Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Plan{}, nil
		}
		return nil, fmt.Errorf("%w: read catalog: %v", domain.ErrStorage, err)
	}
	var plans []model.Plan
	if err := json.Unmarshal(b, &plans); err != nil {
		return nil, fmt.Errorf("%w: parse catalog: %v", domain.ErrStorage, err)
	}
	return plans, nil
}

// Save rewrites the document atomically: the content lands under a temporary
// name and is renamed into place, so a failed write never corrupts the
// current catalog.
func (c *FileCatalog) Save(ctx context.Context, plans []model.Plan) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if plans == nil {
		plans = []model.Plan{}
	}
	b, err := json.MarshalIndent(plans, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode catalog: %v", domain.ErrStorage, err)
	}
	b = append(b, '\n')

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create catalog dir: %v", domain.ErrStorage, err)
	}
	tmp, err := os.CreateTemp(dir, ".plans-*.json")
	if err != nil {
		return fmt.Errorf("%w: create temp catalog: %v", domain.ErrStorage, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write catalog: %v", domain.ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close catalog: %v", domain.ErrStorage, err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replace catalog: %v", domain.ErrStorage, err)
	}
	return nil
}

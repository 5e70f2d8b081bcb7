package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/gaganrajn/urban-company-backend/internal/models"
)

// SeedServices inserts catalog entries that do not exist yet, matched by
// name. Existing entries are left untouched so seeding is idempotent and
// never undoes admin edits.
func (db *DB) SeedServices(ctx context.Context, services []models.Service) (int, error) {
	inserted := 0
	for i := range services {
		svc := services[i]
		if svc.EstimatedMinutes <= 0 {
			svc.EstimatedMinutes = models.DefaultEstimatedMinutes
		}
		svc.IsActive = true

		if err := db.CreateService(ctx, &svc); err != nil {
			if errors.Is(err, ErrDuplicate) {
				continue
			}
			return inserted, fmt.Errorf("seed service %q: %w", svc.Name, err)
		}
		inserted++
	}

	if inserted > 0 {
		db.logger.Info().Int("count", inserted).Msg("catalog seeded")
	}
	return inserted, nil
}

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/gaganrajn/urban-company-backend/internal/models"
)

const serviceColumns = `id, name, description, category, base_price, icon,
	is_active, estimated_minutes, created_at, updated_at`

func (db *DB) scanService(row interface{ Scan(...any) error }) (*models.Service, error) {
	var s models.Service
	err := row.Scan(
		&s.ID, &s.Name, &s.Description, &s.Category, &s.BasePrice, &s.Icon,
		&s.IsActive, &s.EstimatedMinutes, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, mapSQLError(err)
	}
	return &s, nil
}

// CreateService inserts a catalog entry. A duplicate name yields
// ErrDuplicate.
func (db *DB) CreateService(ctx context.Context, svc *models.Service) error {
	query := `INSERT INTO services (name, description, category, base_price, icon,
	            is_active, estimated_minutes, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		svc.Name, svc.Description, svc.Category, svc.BasePrice, svc.Icon,
		svc.IsActive, svc.EstimatedMinutes, now, now,
	)
	if err != nil {
		return mapSQLError(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	svc.ID = id
	svc.CreatedAt = now
	svc.UpdatedAt = now
	return nil
}

func (db *DB) GetServiceByID(ctx context.Context, id int64) (*models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = ?`
	return db.scanService(db.QueryRowContext(ctx, query, id))
}

// GetServices lists the catalog. Deactivated entries are excluded unless
// includeInactive is set.
func (db *DB) GetServices(ctx context.Context, includeInactive bool) ([]*models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services`
	if !includeInactive {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY category, name`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	var services []*models.Service
	for rows.Next() {
		s, err := db.scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

// UpdateService applies only the provided fields.
func (db *DB) UpdateService(ctx context.Context, id int64, upd models.ServiceUpdate) error {
	query := `UPDATE services SET
	            name = COALESCE(?, name),
	            description = COALESCE(?, description),
	            category = COALESCE(?, category),
	            base_price = COALESCE(?, base_price),
	            icon = COALESCE(?, icon),
	            is_active = COALESCE(?, is_active),
	            estimated_minutes = COALESCE(?, estimated_minutes),
	            updated_at = ?
	          WHERE id = ?`
	res, err := db.ExecContext(ctx, query,
		upd.Name, upd.Description, upd.Category, upd.BasePrice, upd.Icon,
		upd.IsActive, upd.EstimatedMinutes, time.Now(), id,
	)
	if err != nil {
		return mapSQLError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateService is the only deletion: rows are never removed.
func (db *DB) DeactivateService(ctx context.Context, id int64) error {
	query := `UPDATE services SET is_active = 0, updated_at = ? WHERE id = ?`
	res, err := db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate service: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetServicesByIDs loads a batch of services keyed by id for view
// resolution.
func (db *DB) GetServicesByIDs(ctx context.Context, ids []int64) (map[int64]*models.Service, error) {
	out := make(map[int64]*models.Service, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query := `SELECT ` + serviceColumns + ` FROM services WHERE id IN (?` +
		repeatPlaceholder(len(ids)-1) + `)`
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query services by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		s, err := db.scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		out[s.ID] = s
	}
	return out, rows.Err()
}

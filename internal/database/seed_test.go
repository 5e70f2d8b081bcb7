package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaganrajn/urban-company-backend/internal/models"
)

func TestSeedServicesIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seed := []models.Service{
		{Name: "Deep Cleaning", Category: models.CategoryCleaning, BasePrice: 499},
		{Name: "AC Repair", Category: models.CategoryRepairs, BasePrice: 799, EstimatedMinutes: 90},
	}

	inserted, err := db.SeedServices(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	// Second run inserts nothing and fails nothing.
	inserted, err = db.SeedServices(ctx, seed)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	services, err := db.GetServices(ctx, false)
	require.NoError(t, err)
	require.Len(t, services, 2)
}

func TestSeedServicesKeepsAdminEdits(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.SeedServices(ctx, []models.Service{
		{Name: "Deep Cleaning", Category: models.CategoryCleaning, BasePrice: 499},
	})
	require.NoError(t, err)

	services, err := db.GetServices(ctx, false)
	require.NoError(t, err)
	price := 999.0
	require.NoError(t, db.UpdateService(ctx, services[0].ID, models.ServiceUpdate{BasePrice: &price}))

	// Reseeding must not revert the admin's price change.
	_, err = db.SeedServices(ctx, []models.Service{
		{Name: "Deep Cleaning", Category: models.CategoryCleaning, BasePrice: 499},
	})
	require.NoError(t, err)

	svc, err := db.GetServiceByID(ctx, services[0].ID)
	require.NoError(t, err)
	assert.Equal(t, price, svc.BasePrice)
}

func TestSeedServicesDefaultsDuration(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.SeedServices(context.Background(), []models.Service{
		{Name: "Quick Fix", Category: models.CategoryRepairs, BasePrice: 99},
	})
	require.NoError(t, err)

	services, err := db.GetServices(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, int64(models.DefaultEstimatedMinutes), services[0].EstimatedMinutes)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gaganrajn/urban-company-backend/internal/auth"
	"github.com/gaganrajn/urban-company-backend/internal/database"
	"github.com/gaganrajn/urban-company-backend/internal/models"
)

func TestUpdateProfileReturnsFreshUser(t *testing.T) {
	store := &mockStore{}
	city := "Bengaluru"
	upd := models.ProfileUpdate{City: &city}

	store.On("UpdateProfile", mock.Anything, int64(1), upd).Return(nil)
	store.On("GetUserByID", mock.Anything, int64(1)).
		Return(&models.User{ID: 1, Name: "Asha", City: city}, nil)

	svc := NewUserService(store, testLogger())

	user, err := svc.UpdateProfile(context.Background(), 1, upd)
	require.NoError(t, err)
	assert.Equal(t, city, user.City)
}

func TestUpdateProfileHashesPassword(t *testing.T) {
	store := &mockStore{}
	plain := "s3cret-pass"

	var stored models.ProfileUpdate
	store.On("UpdateProfile", mock.Anything, int64(1), mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(2).(models.ProfileUpdate)
		}).Return(nil)
	store.On("GetUserByID", mock.Anything, int64(1)).Return(&models.User{ID: 1}, nil)

	svc := NewUserService(store, testLogger())

	_, err := svc.UpdateProfile(context.Background(), 1, models.ProfileUpdate{Password: &plain})
	require.NoError(t, err)

	assert.Nil(t, stored.Password)
	require.NotNil(t, stored.PasswordHash)
	assert.True(t, auth.CheckPassword(*stored.PasswordHash, plain))
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	store := &mockStore{}
	store.On("UpdateProfile", mock.Anything, int64(404), mock.Anything).Return(database.ErrNotFound)

	svc := NewUserService(store, testLogger())

	_, err := svc.UpdateProfile(context.Background(), 404, models.ProfileUpdate{})
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestListPartnersDelegates(t *testing.T) {
	store := &mockStore{}
	store.On("GetVerifiedPartners", mock.Anything).
		Return([]*models.User{{ID: 2, Role: models.RolePartner, IsVerified: true}}, nil)

	svc := NewUserService(store, testLogger())

	partners, err := svc.ListPartners(context.Background())
	require.NoError(t, err)
	require.Len(t, partners, 1)
	assert.Equal(t, models.RolePartner, partners[0].Role)
}

func TestDisableUser(t *testing.T) {
	store := &mockStore{}
	store.On("DisableUser", mock.Anything, int64(3)).Return(nil)

	svc := NewUserService(store, testLogger())

	require.NoError(t, svc.Disable(context.Background(), 3))
	store.AssertExpectations(t)
}

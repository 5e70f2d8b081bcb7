package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaganrajn/urban-company-backend/internal/auth"
	"github.com/gaganrajn/urban-company-backend/internal/config"
	"github.com/gaganrajn/urban-company-backend/internal/database"
	"github.com/gaganrajn/urban-company-backend/internal/events"
	"github.com/gaganrajn/urban-company-backend/internal/models"
	"github.com/gaganrajn/urban-company-backend/internal/repository"
	"github.com/gaganrajn/urban-company-backend/internal/service"
	"github.com/gaganrajn/urban-company-backend/internal/sms"
)

const testSchedule = "2026-09-01T10:00:00Z"

type testAPI struct {
	router http.Handler
	db     *database.DB
}

func setupAPI(t *testing.T) *testAPI {
	t.Helper()
	logger := zerolog.New(io.Discard)

	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	authCfg := config.AuthConfig{
		JWTSecret:            "test-secret",
		TokenTTLHours:        1,
		OTPTTLMinutes:        10,
		OTPSendLimit:         50,
		OTPSendWindowSeconds: 3600,
	}
	apiCfg := config.APIConfig{
		Port:      0,
		RateLimit: config.APIRateLimitConfig{RPS: 1000, Burst: 1000},
	}

	tokens := auth.NewTokenManager(authCfg.JWTSecret, "urban-company", authCfg.TokenTTL())
	gateway := sms.NewConsoleGateway(&logger)
	bus := events.NewEventBus()

	authSvc := service.NewAuthService(db, repository.NewMemoryThrottle(), gateway, tokens, bus, authCfg, false, &logger)
	userSvc := service.NewUserService(db, &logger)
	catalogSvc := service.NewCatalogService(db, &logger)
	bookingSvc := service.NewBookingService(db, bus, nil, &logger)

	handlers := NewHandlers(authSvc, userSvc, catalogSvc, bookingSvc, &logger)
	return &testAPI{router: NewRouter(handlers, tokens, apiCfg, &logger), db: db}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

// login walks the OTP flow end to end and returns a session token.
func (a *testAPI) login(t *testing.T, phone, role string) string {
	t.Helper()

	rec, payload := a.do(t, http.MethodPost, "/api/auth/send-otp", "", map[string]any{"phone": phone})
	require.Equal(t, http.StatusOK, rec.Code, "send-otp: %s", rec.Body.String())
	otp, _ := payload["test_otp"].(string)
	require.NotEmpty(t, otp)

	rec, payload = a.do(t, http.MethodPost, "/api/auth/verify-otp", "", map[string]any{
		"phone": phone,
		"otp":   otp,
		"name":  "Test " + role,
		"role":  role,
	})
	require.Equal(t, http.StatusOK, rec.Code, "verify-otp: %s", rec.Body.String())
	token, _ := payload["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthIsPublic(t *testing.T) {
	api := setupAPI(t)
	rec, payload := api.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, payload["success"])
}

func TestSendOTPEchoesPhone(t *testing.T) {
	api := setupAPI(t)
	rec, payload := api.do(t, http.MethodPost, "/api/auth/send-otp", "", map[string]any{"phone": "9000000099"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "9000000099", payload["phone"])
}

func TestSendOTPRejectsBadPhones(t *testing.T) {
	api := setupAPI(t)
	for _, phone := range []string{"", "123", "98765432101", "98765x3210"} {
		rec, payload := api.do(t, http.MethodPost, "/api/auth/send-otp", "", map[string]any{"phone": phone})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "phone %q", phone)
		assert.Equal(t, false, payload["success"])
	}
}

func TestVerifyOTPWrongCode(t *testing.T) {
	api := setupAPI(t)

	rec, _ := api.do(t, http.MethodPost, "/api/auth/send-otp", "", map[string]any{"phone": "9000000001"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = api.do(t, http.MethodPost, "/api/auth/verify-otp", "", map[string]any{
		"phone": "9000000001", "otp": "000000",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyOTPWithoutPendingCode(t *testing.T) {
	api := setupAPI(t)
	rec, _ := api.do(t, http.MethodPost, "/api/auth/verify-otp", "", map[string]any{
		"phone": "9000000002", "otp": "123456",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOTPIsSingleUse(t *testing.T) {
	api := setupAPI(t)

	_, payload := api.do(t, http.MethodPost, "/api/auth/send-otp", "", map[string]any{"phone": "9000000003"})
	otp := payload["test_otp"].(string)

	rec, _ := api.do(t, http.MethodPost, "/api/auth/verify-otp", "", map[string]any{"phone": "9000000003", "otp": otp})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = api.do(t, http.MethodPost, "/api/auth/verify-otp", "", map[string]any{"phone": "9000000003", "otp": otp})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthorizationMatrix(t *testing.T) {
	api := setupAPI(t)
	userToken := api.login(t, "9000000010", models.RoleUser)
	partnerToken := api.login(t, "9000000011", models.RolePartner)

	// Missing token: 401 before any role check.
	rec, _ := api.do(t, http.MethodGet, "/api/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = api.do(t, http.MethodGet, "/api/users", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Authenticated but wrong role: 403.
	rec, _ = api.do(t, http.MethodGet, "/api/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = api.do(t, http.MethodGet, "/api/bookings/partner/available", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = api.do(t, http.MethodPost, "/api/services", partnerToken, map[string]any{"name": "X"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = api.do(t, http.MethodGet, "/api/bookings/partner/available", partnerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMeExcludesSecrets(t *testing.T) {
	api := setupAPI(t)
	token := api.login(t, "9000000020", models.RoleUser)

	rec, payload := api.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	user := payload["user"].(map[string]any)
	assert.Equal(t, "9000000020", user["phone"])
	assert.Equal(t, true, user["is_verified"])
	assert.NotContains(t, user, "otp_code")
	assert.NotContains(t, user, "password_hash")
}

func TestProfileUpdateIsPartial(t *testing.T) {
	api := setupAPI(t)
	token := api.login(t, "9000000030", models.RoleUser)

	rec, payload := api.do(t, http.MethodPut, "/api/users/profile", token, map[string]any{"city": "Bengaluru"})
	require.Equal(t, http.StatusOK, rec.Code)

	user := payload["user"].(map[string]any)
	assert.Equal(t, "Bengaluru", user["city"])
	// Name from registration survives an update that omits it.
	assert.Equal(t, "Test user", user["name"])
}

func createService(t *testing.T, api *testAPI, adminToken, name string, price float64) int64 {
	t.Helper()
	rec, payload := api.do(t, http.MethodPost, "/api/services", adminToken, map[string]any{
		"name": name, "category": models.CategoryCleaning, "base_price": price,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return int64(payload["service"].(map[string]any)["id"].(float64))
}

func TestServiceLifecycle(t *testing.T) {
	api := setupAPI(t)
	admin := api.login(t, "9000000040", models.RoleAdmin)

	id := createService(t, api, admin, "Deep Cleaning", 499)

	// Duplicate name is a conflict.
	rec, _ := api.do(t, http.MethodPost, "/api/services", admin, map[string]any{
		"name": "Deep Cleaning", "category": models.CategoryCleaning, "base_price": 999,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Public listing works without a token.
	rec, payload := api.do(t, http.MethodGet, "/api/services", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, payload["services"].([]any), 1)

	// Partial update.
	rec, payload = api.do(t, http.MethodPut, fmt.Sprintf("/api/services/%d", id), admin, map[string]any{"base_price": 599})
	require.Equal(t, http.StatusOK, rec.Code)
	svc := payload["service"].(map[string]any)
	assert.Equal(t, 599.0, svc["base_price"])
	assert.Equal(t, "Deep Cleaning", svc["name"])

	// Delete deactivates: gone from the public listing, row still there.
	rec, _ = api.do(t, http.MethodDelete, fmt.Sprintf("/api/services/%d", id), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, payload = api.do(t, http.MethodGet, "/api/services", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, payload["services"])

	rec, payload = api.do(t, http.MethodGet, "/api/services?all=true", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, payload["services"].([]any), 1)
}

func TestBookingLifecycle(t *testing.T) {
	api := setupAPI(t)
	admin := api.login(t, "9000000050", models.RoleAdmin)
	user := api.login(t, "9000000051", models.RoleUser)
	partner := api.login(t, "9000000052", models.RolePartner)
	rival := api.login(t, "9000000053", models.RolePartner)

	serviceID := createService(t, api, admin, "Deep Cleaning", 499)

	// Create: price is snapshotted from the service.
	rec, payload := api.do(t, http.MethodPost, "/api/bookings", user, map[string]any{
		"service_id": serviceID, "scheduled_date": testSchedule, "address": "12 MG Road",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	booking := payload["booking"].(map[string]any)
	bookingID := int64(booking["id"].(float64))
	assert.Equal(t, models.StatusPending, booking["status"])
	assert.Equal(t, 499.0, booking["price"])
	assert.Nil(t, booking["partner_id"])

	// A later price change must not touch the snapshot.
	rec, _ = api.do(t, http.MethodPut, fmt.Sprintf("/api/services/%d", serviceID), admin, map[string]any{"base_price": 999})
	require.Equal(t, http.StatusOK, rec.Code)

	// Pending booking shows up for partners.
	rec, payload = api.do(t, http.MethodGet, "/api/bookings/partner/available", partner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, payload["bookings"].([]any), 1)

	// First accept wins, the second sees a conflict.
	rec, payload = api.do(t, http.MethodPatch, fmt.Sprintf("/api/bookings/%d/accept", bookingID), partner, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.StatusAccepted, payload["booking"].(map[string]any)["status"])

	rec, _ = api.do(t, http.MethodPatch, fmt.Sprintf("/api/bookings/%d/accept", bookingID), rival, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Status walk to completed stamps completed_at and keeps the price.
	rec, payload = api.do(t, http.MethodPatch, fmt.Sprintf("/api/bookings/%d/status", bookingID), user, map[string]any{"status": models.StatusInProgress})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, payload = api.do(t, http.MethodPatch, fmt.Sprintf("/api/bookings/%d/status", bookingID), partner, map[string]any{"status": models.StatusCompleted})
	require.Equal(t, http.StatusOK, rec.Code)
	booking = payload["booking"].(map[string]any)
	assert.NotNil(t, booking["completed_at"])
	assert.Equal(t, 499.0, booking["price"])

	// Unknown status is rejected.
	rec, _ = api.do(t, http.MethodPatch, fmt.Sprintf("/api/bookings/%d/status", bookingID), user, map[string]any{"status": "finished"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Rating out of range fails, in range lands on the partner.
	rec, _ = api.do(t, http.MethodPatch, fmt.Sprintf("/api/bookings/%d/rate", bookingID), user, map[string]any{"rating": 6})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, payload = api.do(t, http.MethodPatch, fmt.Sprintf("/api/bookings/%d/rate", bookingID), user, map[string]any{"rating": 3, "review": "fine"})
	require.Equal(t, http.StatusOK, rec.Code)
	booking = payload["booking"].(map[string]any)
	partnerID := int64(booking["partner_id"].(float64))

	rec, payload = api.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d", partnerID), user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3.0, payload["user"].(map[string]any)["rating"])

	// my-bookings only lists the creator's bookings.
	rec, payload = api.do(t, http.MethodGet, "/api/bookings/user/my-bookings", user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, payload["bookings"].([]any), 1)

	rec, payload = api.do(t, http.MethodGet, "/api/bookings/user/my-bookings", rival, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, payload["bookings"])

	// Admin list-all sees it too.
	rec, payload = api.do(t, http.MethodGet, "/api/bookings", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, payload["bookings"].([]any), 1)
}

func TestCreateBookingValidation(t *testing.T) {
	api := setupAPI(t)
	admin := api.login(t, "9000000060", models.RoleAdmin)
	user := api.login(t, "9000000061", models.RoleUser)

	// Unknown service.
	rec, _ := api.do(t, http.MethodPost, "/api/bookings", user, map[string]any{
		"service_id": 999, "scheduled_date": testSchedule, "address": "x",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Deactivated service is not bookable.
	id := createService(t, api, admin, "Old Service", 100)
	rec, _ = api.do(t, http.MethodDelete, fmt.Sprintf("/api/services/%d", id), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = api.do(t, http.MethodPost, "/api/bookings", user, map[string]any{
		"service_id": id, "scheduled_date": testSchedule, "address": "x",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Missing scheduled date.
	rec, _ = api.do(t, http.MethodPost, "/api/bookings", user, map[string]any{"service_id": id, "address": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Missing address.
	rec, _ = api.do(t, http.MethodPost, "/api/bookings", user, map[string]any{
		"service_id": id, "scheduled_date": testSchedule,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookingNotFound(t *testing.T) {
	api := setupAPI(t)
	user := api.login(t, "9000000070", models.RoleUser)

	rec, _ := api.do(t, http.MethodGet, "/api/bookings/999", user, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = api.do(t, http.MethodPatch, "/api/bookings/999/status", user, map[string]any{"status": models.StatusCancelled})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDisabledUserCannotLogIn(t *testing.T) {
	api := setupAPI(t)
	admin := api.login(t, "9000000080", models.RoleAdmin)
	api.login(t, "9000000081", models.RoleUser)

	rec, payload := api.do(t, http.MethodGet, "/api/users", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var targetID int64
	for _, raw := range payload["users"].([]any) {
		u := raw.(map[string]any)
		if u["phone"] == "9000000081" {
			targetID = int64(u["id"].(float64))
		}
	}
	require.NotZero(t, targetID)

	rec, _ = api.do(t, http.MethodPatch, fmt.Sprintf("/api/users/%d/disable", targetID), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, payload = api.do(t, http.MethodPost, "/api/auth/send-otp", "", map[string]any{"phone": "9000000081"})
	otp := payload["test_otp"].(string)

	rec, _ = api.do(t, http.MethodPost, "/api/auth/verify-otp", "", map[string]any{"phone": "9000000081", "otp": otp})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPartnersListing(t *testing.T) {
	api := setupAPI(t)
	user := api.login(t, "9000000090", models.RoleUser)
	api.login(t, "9000000091", models.RolePartner)

	for _, path := range []string{"/api/users/partners", "/api/users/nearby"} {
		rec, payload := api.do(t, http.MethodGet, path, user, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		partners := payload["partners"].([]any)
		require.Len(t, partners, 1, path)
		assert.Equal(t, models.RolePartner, partners[0].(map[string]any)["role"])
	}
}

func TestExportBookingsStreamsXLSX(t *testing.T) {
	api := setupAPI(t)
	admin := api.login(t, "9000000095", models.RoleAdmin)
	user := api.login(t, "9000000096", models.RoleUser)

	serviceID := createService(t, api, admin, "Deep Cleaning", 499)
	rec, _ := api.do(t, http.MethodPost, "/api/bookings", user, map[string]any{
		"service_id": serviceID, "scheduled_date": testSchedule, "address": "x",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = api.do(t, http.MethodGet, "/api/bookings/export", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, rec.Body.Len())

	// Not for regular users.
	rec, _ = api.do(t, http.MethodGet, "/api/bookings/export", user, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRateLimitKicksIn(t *testing.T) {
	api := setupAPI(t)

	// Rebuild the router with a tiny budget.
	logger := zerolog.New(io.Discard)
	tokens := auth.NewTokenManager("test-secret", "urban-company", 0)
	handlers := NewHandlers(nil, nil, nil, nil, &logger)
	router := NewRouter(handlers, tokens, config.APIConfig{
		RateLimit: config.APIRateLimitConfig{RPS: 1, Burst: 2},
	}, &logger)
	api.router = router

	codes := make(map[int]int)
	for i := 0; i < 5; i++ {
		rec, _ := api.do(t, http.MethodGet, "/api/health", "", nil)
		codes[rec.Code]++
	}
	assert.NotZero(t, codes[http.StatusTooManyRequests])
	assert.NotZero(t, codes[http.StatusOK])
}

package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/gaganrajn/urban-company-backend/internal/service"
)

// Handlers holds the HTTP endpoints over the domain services.
type Handlers struct {
	auth     *service.AuthService
	users    *service.UserService
	catalog  *service.CatalogService
	bookings *service.BookingService
	logger   *zerolog.Logger
}

func NewHandlers(
	auth *service.AuthService,
	users *service.UserService,
	catalog *service.CatalogService,
	bookings *service.BookingService,
	logger *zerolog.Logger,
) *Handlers {
	return &Handlers{
		auth:     auth,
		users:    users,
		catalog:  catalog,
		bookings: bookings,
		logger:   logger,
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

type sendOTPRequest struct {
	Phone string `json:"phone"`
}

// SendOTP handles POST /api/auth/send-otp (and /api/auth/login, which is
// the same operation under the name older clients use).
func (h *Handlers) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.auth.SendOTP(r.Context(), req.Phone)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	extra := map[string]any{"phone": req.Phone}
	if result.TestOTP != "" {
		extra["test_otp"] = result.TestOTP
	}
	writeSuccess(w, http.StatusOK, "otp sent", extra)
}

type verifyOTPRequest struct {
	Phone string  `json:"phone"`
	OTP   string  `json:"otp"`
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

// VerifyOTP handles POST /api/auth/verify-otp.
func (h *Handlers) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, token, err := h.auth.VerifyOTP(r.Context(), req.Phone, req.OTP, req.Name, req.Email, req.Role)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "login successful", map[string]any{
		"token": token,
		"user":  user,
	})
}

// Me handles GET /api/auth/me.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	user, err := h.auth.Me(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"user": user})
}

// Logout handles POST /api/auth/logout.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	h.auth.Logout(r.Context(), claims.UserID)
	writeSuccess(w, http.StatusOK, "logged out", nil)
}

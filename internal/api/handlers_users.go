package api

import (
	"net/http"

	"github.com/gaganrajn/urban-company-backend/internal/models"
)

// ListUsers handles GET /api/users (admin).
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"users": users})
}

// ListPartners handles GET /api/users/partners and GET /api/users/nearby.
// There is no geo filter yet, so nearby returns every verified partner.
func (h *Handlers) ListPartners(w http.ResponseWriter, r *http.Request) {
	partners, err := h.users.ListPartners(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"partners": partners})
}

// GetUser handles GET /api/users/{id}.
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"user": user})
}

// UpdateProfile handles PUT /api/users/profile. Callers only ever edit
// their own profile; the target comes from claims, not the body.
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	var upd models.ProfileUpdate
	if !decodeBody(w, r, &upd) {
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), claims.UserID, upd)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "profile updated", map[string]any{"user": user})
}

// DisableUser handles PATCH /api/users/{id}/disable (admin).
func (h *Handlers) DisableUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.users.Disable(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "user disabled", nil)
}

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gaganrajn/urban-company-backend/internal/models"
)

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// ListServices handles GET /api/services. Admins may pass ?all=true to
// include deactivated entries.
func (h *Handlers) ListServices(w http.ResponseWriter, r *http.Request) {
	includeInactive := false
	if r.URL.Query().Get("all") == "true" {
		if claims, ok := ClaimsFromContext(r.Context()); ok && claims.Role == models.RoleAdmin {
			includeInactive = true
		}
	}

	services, err := h.catalog.List(r.Context(), includeInactive)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"services": services})
}

// GetService handles GET /api/services/{id}.
func (h *Handlers) GetService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	svc, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"service": svc})
}

// CreateService handles POST /api/services (admin).
func (h *Handlers) CreateService(w http.ResponseWriter, r *http.Request) {
	var svc models.Service
	if !decodeBody(w, r, &svc) {
		return
	}
	if svc.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := h.catalog.Create(r.Context(), &svc); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "service created", map[string]any{"service": svc})
}

// UpdateService handles PUT /api/services/{id} (admin).
func (h *Handlers) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var upd models.ServiceUpdate
	if !decodeBody(w, r, &upd) {
		return
	}

	svc, err := h.catalog.Update(r.Context(), id, upd)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "service updated", map[string]any{"service": svc})
}

// DeleteService handles DELETE /api/services/{id} (admin). The service
// is deactivated, never removed.
func (h *Handlers) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "service deleted", nil)
}

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gaganrajn/urban-company-backend/internal/export"
	"github.com/gaganrajn/urban-company-backend/internal/models"
)

type createBookingRequest struct {
	ServiceID     int64     `json:"service_id"`
	ScheduledDate time.Time `json:"scheduled_date"`
	Address       string    `json:"address"`
	Lat           float64   `json:"lat"`
	Lng           float64   `json:"lng"`
	Notes         string    `json:"notes"`
}

// CreateBooking handles POST /api/bookings.
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	var req createBookingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ServiceID <= 0 {
		writeError(w, http.StatusBadRequest, "service_id is required")
		return
	}
	if req.ScheduledDate.IsZero() {
		writeError(w, http.StatusBadRequest, "scheduled_date is required")
		return
	}
	if req.Address == "" {
		writeError(w, http.StatusBadRequest, "address is required")
		return
	}

	view, err := h.bookings.Create(r.Context(), &models.Booking{
		UserID:        claims.UserID,
		ServiceID:     req.ServiceID,
		ScheduledDate: req.ScheduledDate,
		Address:       req.Address,
		Lat:           req.Lat,
		Lng:           req.Lng,
		Notes:         req.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "booking created", map[string]any{"booking": view})
}

// ListBookings handles GET /api/bookings (admin).
func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	views, err := h.bookings.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"bookings": views})
}

// MyBookings handles GET /api/bookings/user/my-bookings.
func (h *Handlers) MyBookings(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	views, err := h.bookings.ListForUser(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"bookings": views})
}

// AvailableBookings handles GET /api/bookings/partner/available (partner).
func (h *Handlers) AvailableBookings(w http.ResponseWriter, r *http.Request) {
	views, err := h.bookings.ListAvailableForPartners(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"bookings": views})
}

// GetBooking handles GET /api/bookings/{id}.
func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	view, err := h.bookings.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"booking": view})
}

// AcceptBooking handles PATCH /api/bookings/{id}/accept (partner). The
// accepting partner is the caller.
func (h *Handlers) AcceptBooking(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	view, err := h.bookings.Accept(r.Context(), id, claims.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "booking accepted", map[string]any{"booking": view})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateBookingStatus handles PATCH /api/bookings/{id}/status.
func (h *Handlers) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	view, err := h.bookings.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "status updated", map[string]any{"booking": view})
}

type rateBookingRequest struct {
	Rating int64   `json:"rating"`
	Review *string `json:"review"`
}

// RateBooking handles PATCH /api/bookings/{id}/rate.
func (h *Handlers) RateBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req rateBookingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	view, err := h.bookings.Rate(r.Context(), id, req.Rating, req.Review)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "booking rated", map[string]any{"booking": view})
}

// ExportBookings handles GET /api/bookings/export (admin) and streams an
// xlsx report.
func (h *Handlers) ExportBookings(w http.ResponseWriter, r *http.Request) {
	views, err := h.bookings.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	f, err := export.BookingReport(views)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to build booking report")
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.ReportFileName(time.Now())))
	if err := f.Write(w); err != nil {
		h.logger.Error().Err(err).Msg("failed to stream booking report")
	}
}

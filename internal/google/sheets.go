package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/gaganrajn/urban-company-backend/internal/config"
	"github.com/gaganrajn/urban-company-backend/internal/models"
)

// ErrRowNotFound means the booking has no row in the sheet yet.
var ErrRowNotFound = errors.New("booking row not found")

var bookingHeaders = []interface{}{
	"ID", "User ID", "Partner ID", "Service ID", "Status",
	"Scheduled", "Price", "Payment", "Rating", "Updated At",
}

var userHeaders = []interface{}{
	"ID", "Phone", "Name", "Email", "Role", "Verified", "Active",
	"Rating", "Total Bookings", "Created At",
}

// SheetsService mirrors marketplace data into Google Sheets for the ops
// team. Booking rows are addressed through a row-index cache keyed by
// booking id to avoid rescanning the ID column on every write.
type SheetsService struct {
	service         *sheets.Service
	usersSheetID    string
	bookingsSheetID string
	rowCache        map[int64]int
	cacheMu         sync.RWMutex
}

func NewSheetsService(cfg config.GoogleConfig) (*SheetsService, error) {
	ctx := context.Background()

	credentialsJSON, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	service := &SheetsService{
		service:         srv,
		usersSheetID:    cfg.UsersSpreadSheetID,
		bookingsSheetID: cfg.BookingsSpreadSheetID,
		rowCache:        make(map[int64]int),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = service.WarmUpCache(ctx)
	}()

	return service, nil
}

// TestConnection reads one cell to verify credentials and sharing.
func (s *SheetsService) TestConnection(ctx context.Context) error {
	if _, err := s.service.Spreadsheets.Values.Get(s.usersSheetID, "Users!A1").Context(ctx).Do(); err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	return nil
}

// ReplaceUsersSheet rewrites the Users sheet from scratch.
func (s *SheetsService) ReplaceUsersSheet(ctx context.Context, users []*models.User) error {
	values := [][]interface{}{userHeaders}
	for _, user := range users {
		values = append(values, []interface{}{
			user.ID,
			user.Phone,
			user.Name,
			user.Email,
			user.Role,
			user.IsVerified,
			user.IsActive,
			user.Rating,
			user.TotalBookings,
			user.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	rangeData := fmt.Sprintf("Users!A1:J%d", len(values))
	_, err := s.service.Spreadsheets.Values.Update(s.usersSheetID, rangeData, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

// ReplaceBookingsSheet rewrites the Bookings sheet from scratch and
// rebuilds the row cache.
func (s *SheetsService) ReplaceBookingsSheet(ctx context.Context, bookings []*models.Booking) error {
	values := [][]interface{}{bookingHeaders}
	cache := make(map[int64]int, len(bookings))
	for i, booking := range bookings {
		values = append(values, bookingRowValues(booking))
		cache[booking.ID] = i + 2
	}

	rangeData := fmt.Sprintf("Bookings!A1:J%d", len(values))
	_, err := s.service.Spreadsheets.Values.Update(s.bookingsSheetID, rangeData, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return err
	}

	s.cacheMu.Lock()
	s.rowCache = cache
	s.cacheMu.Unlock()
	return nil
}

// UpsertBooking updates the booking's row or appends one if missing.
func (s *SheetsService) UpsertBooking(ctx context.Context, booking *models.Booking) error {
	if booking == nil {
		return fmt.Errorf("booking is nil")
	}

	rowIdx, err := s.findBookingRow(ctx, booking.ID)
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return s.appendBooking(ctx, booking)
		}
		return err
	}

	rangeData := fmt.Sprintf("Bookings!A%d:J%d", rowIdx, rowIdx)
	_, err = s.service.Spreadsheets.Values.Update(s.bookingsSheetID, rangeData, &sheets.ValueRange{
		Values: [][]interface{}{bookingRowValues(booking)},
	}).ValueInputOption("RAW").Context(ctx).Do()
	return err
}

func (s *SheetsService) appendBooking(ctx context.Context, booking *models.Booking) error {
	_, err := s.service.Spreadsheets.Values.Append(s.bookingsSheetID, "Bookings!A:A", &sheets.ValueRange{
		Values: [][]interface{}{bookingRowValues(booking)},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	return err
}

// WarmUpCache populates the row index cache from the ID column.
func (s *SheetsService) WarmUpCache(ctx context.Context) error {
	resp, err := s.service.Spreadsheets.Values.Get(s.bookingsSheetID, "Bookings!A:A").Context(ctx).Do()
	if err != nil {
		return err
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.rowCache = make(map[int64]int)

	for i, row := range resp.Values {
		if id := cellID(row); id > 0 {
			s.rowCache[id] = i + 1
		}
	}
	return nil
}

// findBookingRow locates the 1-based row for a booking id, consulting
// the cache before rescanning column A.
func (s *SheetsService) findBookingRow(ctx context.Context, bookingID int64) (int, error) {
	if bookingID == 0 {
		return 0, fmt.Errorf("booking id is required")
	}

	s.cacheMu.RLock()
	row, ok := s.rowCache[bookingID]
	s.cacheMu.RUnlock()
	if ok {
		return row, nil
	}

	resp, err := s.service.Spreadsheets.Values.Get(s.bookingsSheetID, "Bookings!A:A").Context(ctx).Do()
	if err != nil {
		return 0, err
	}

	for i, cells := range resp.Values {
		if cellID(cells) == bookingID {
			rowIdx := i + 1
			s.cacheMu.Lock()
			s.rowCache[bookingID] = rowIdx
			s.cacheMu.Unlock()
			return rowIdx, nil
		}
	}

	return 0, ErrRowNotFound
}

func cellID(row []interface{}) int64 {
	if len(row) == 0 {
		return 0
	}
	switch v := row[0].(type) {
	case float64:
		return int64(v)
	case string:
		var id int64
		fmt.Sscanf(v, "%d", &id)
		return id
	}
	return 0
}

func bookingRowValues(b *models.Booking) []interface{} {
	var partnerID interface{}
	if b.PartnerID != nil {
		partnerID = *b.PartnerID
	}
	var rating interface{}
	if b.Rating != nil {
		rating = *b.Rating
	}

	return []interface{}{
		b.ID,
		b.UserID,
		partnerID,
		b.ServiceID,
		b.Status,
		b.ScheduledDate.Format("2006-01-02 15:04"),
		b.Price,
		b.PaymentStatus,
		rating,
		b.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

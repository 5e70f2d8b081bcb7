package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/gaganrajn/urban-company-backend/internal/models"
)

var reportColumns = []string{
	"ID", "Customer", "Partner", "Service", "Status",
	"Scheduled", "Price", "Payment", "Rating", "Created",
}

// BookingReport renders bookings into a spreadsheet for the ops team.
// The caller owns the file and must Close it.
func BookingReport(bookings []*models.BookingView) (*excelize.File, error) {
	f := excelize.NewFile()

	sheetName := "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for col, title := range reportColumns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheetName, cell, title)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, b := range bookings {
		row := i + 2
		values := []any{
			b.ID,
			summaryName(b.User),
			summaryName(b.Partner),
			serviceName(b.Service),
			b.Status,
			b.ScheduledDate.Format("2006-01-02 15:04"),
			b.Price,
			b.PaymentStatus,
			ratingCell(b.Rating),
			b.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "F", 22)
	_ = f.SetColWidth(sheetName, "G", "J", 14)

	return f, nil
}

// ReportFileName stamps the report with the generation time.
func ReportFileName(now time.Time) string {
	return fmt.Sprintf("bookings_%s.xlsx", now.Format("2006-01-02_150405"))
}

func summaryName(u *models.UserSummary) string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Phone
}

func serviceName(s *models.ServiceSummary) string {
	if s == nil {
		return ""
	}
	return s.Name
}

func ratingCell(rating *int64) any {
	if rating == nil {
		return ""
	}
	return *rating
}

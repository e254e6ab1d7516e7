package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"stolik/internal/domain"
	"stolik/internal/models"

	"github.com/xuri/excelize/v2"
)

// Exporter writes booking snapshots to xlsx files for the front of house.
type Exporter struct {
	repo domain.Repository
	path string
}

func NewExporter(repo domain.Repository, path string) *Exporter {
	return &Exporter{repo: repo, path: path}
}

// ExportBookings writes all bookings plus a statistics sheet and returns
// the file path.
func (e *Exporter) ExportBookings(ctx context.Context) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	bookings, err := e.repo.GetAllBookings(ctx)
	if err != nil {
		return "", fmt.Errorf("get bookings: %w", err)
	}
	stats, err := e.repo.GetBookingStatistics(ctx)
	if err != nil {
		return "", fmt.Errorf("get statistics: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeBookingsSheet(f, bookings); err != nil {
		return "", err
	}
	if err := e.writeStatsSheet(f, stats); err != nil {
		return "", err
	}
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02_150405"))
	fullPath := filepath.Join(e.path, fileName)
	if err := f.SaveAs(fullPath); err != nil {
		return "", fmt.Errorf("save export file: %w", err)
	}
	return fullPath, nil
}

func (e *Exporter) writeBookingsSheet(f *excelize.File, bookings []*models.Booking) error {
	const sheet = "Bookings"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"ID", "User", "Table", "Date", "Time", "Duration (h)", "Guests", "Status", "Special requests"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	_ = f.SetCellStyle(sheet, "A1", "I1", headerStyle)
	_ = f.SetColWidth(sheet, "A", "I", 16)

	for row, b := range bookings {
		values := []any{
			b.ID, b.UserID, b.TableID,
			b.BookingDate.Format(models.DateLayout), b.BookingTime,
			b.DurationHours, b.GuestsCount, string(b.Status), b.SpecialRequests,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	return nil
}

func (e *Exporter) writeStatsSheet(f *excelize.File, stats *models.BookingStatistics) error {
	const sheet = "Statistics"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	_ = f.SetCellValue(sheet, "A1", "Total bookings")
	_ = f.SetCellValue(sheet, "B1", stats.TotalBookings)

	row := 3
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Status")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "Count")
	for status, count := range stats.StatusBreakdown {
		row++
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), status)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), count)
	}

	row += 2
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Table")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "Location")
	_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), "Bookings")
	for _, p := range stats.TablePopularity {
		row++
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), p.TableNumber)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), p.Location)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), p.BookingsCount)
	}

	_ = f.SetColWidth(sheet, "A", "C", 18)
	return nil
}

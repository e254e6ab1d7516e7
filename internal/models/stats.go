package models

// TablePopularity counts bookings per table for the statistics report.
type TablePopularity struct {
	TableNumber   int64  `json:"table_number"`
	Location      string `json:"location"`
	BookingsCount int64  `json:"bookings_count"`
}

// BookingStatistics aggregates booking totals for reporting.
type BookingStatistics struct {
	TotalBookings   int64             `json:"total_bookings"`
	StatusBreakdown map[string]int64  `json:"status_breakdown"`
	TablePopularity []TablePopularity `json:"table_popularity"`
}

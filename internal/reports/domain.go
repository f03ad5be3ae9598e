package reports

import "time"

// OccupancySummary describes room usage over a period.
type OccupancySummary struct {
	TotalRooms    int     `json:"total_rooms"`
	NightsBooked  int     `json:"nights_booked"`
	NightsInStock int     `json:"nights_in_stock"`
	OccupancyPct  float64 `json:"occupancy_pct"`
}

// RevenueSummary aggregates booking income over a period.
type RevenueSummary struct {
	GrossRevenue    float64 `json:"gross_revenue"`
	TotalCommission float64 `json:"total_commission"`
	TotalFees       float64 `json:"total_fees"`
	NetToOwners     float64 `json:"net_to_owners"`
	BookingCount    int     `json:"booking_count"`
}

// ExpenseSummary aggregates operating costs over a period, per category.
type ExpenseSummary struct {
	Total      float64            `json:"total"`
	ByCategory map[string]float64 `json:"by_category"`
}

// MonthlyReport bundles the three summaries for one calendar month.
type MonthlyReport struct {
	Year        int              `json:"year"`
	Month       time.Month       `json:"month"`
	Occupancy   OccupancySummary `json:"occupancy"`
	Revenue     RevenueSummary   `json:"revenue"`
	Expenses    ExpenseSummary   `json:"expenses"`
	NetResult   float64          `json:"net_result"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// DashboardSummary is the landing page snapshot.
type DashboardSummary struct {
	TodayArrivals    int     `json:"today_arrivals"`
	TodayDepartures  int     `json:"today_departures"`
	RoomsOccupied    int     `json:"rooms_occupied"`
	RoomsTotal       int     `json:"rooms_total"`
	PendingCleanings int     `json:"pending_cleanings"`
	MonthRevenue     float64 `json:"month_revenue"`
}

package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WriteCSV renders a monthly report as CSV. Amounts are grouped with the
// English locale so spreadsheet imports read them consistently.
func WriteCSV(w io.Writer, report MonthlyReport) error {
	printer := message.NewPrinter(language.English)
	money := func(v float64) string { return printer.Sprintf("%.2f", v) }

	cw := csv.NewWriter(w)
	records := [][]string{
		{"section", "metric", "value"},
		{"period", "year", fmt.Sprintf("%d", report.Year)},
		{"period", "month", report.Month.String()},
		{"occupancy", "total_rooms", fmt.Sprintf("%d", report.Occupancy.TotalRooms)},
		{"occupancy", "nights_booked", fmt.Sprintf("%d", report.Occupancy.NightsBooked)},
		{"occupancy", "nights_in_stock", fmt.Sprintf("%d", report.Occupancy.NightsInStock)},
		{"occupancy", "occupancy_pct", printer.Sprintf("%.1f", report.Occupancy.OccupancyPct)},
		{"revenue", "gross_revenue", money(report.Revenue.GrossRevenue)},
		{"revenue", "total_commission", money(report.Revenue.TotalCommission)},
		{"revenue", "total_fees", money(report.Revenue.TotalFees)},
		{"revenue", "net_to_owners", money(report.Revenue.NetToOwners)},
		{"revenue", "booking_count", fmt.Sprintf("%d", report.Revenue.BookingCount)},
		{"expenses", "total", money(report.Expenses.Total)},
	}

	categories := make([]string, 0, len(report.Expenses.ByCategory))
	for name := range report.Expenses.ByCategory {
		categories = append(categories, name)
	}
	sort.Strings(categories)
	for _, name := range categories {
		records = append(records, []string{"expenses", name, money(report.Expenses.ByCategory[name])})
	}
	records = append(records, []string{"summary", "net_result", money(report.NetResult)})

	if err := cw.WriteAll(records); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

package reports

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"pablospizza/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
)

// ExportMonthlyPDF handles GET /api/reports/monthly/pdf, a printable
// one-page summary of the requested month.
func ExportMonthlyPDF(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	year, month, err := yearMonthParams(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	bookings, err := monthBookings(ctx, year, month)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	summary := Summarize(bookings, year, month)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(190, 12, "Pablo's Pizza", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 13)
	pdf.CellFormat(190, 8, fmt.Sprintf("Monthly Report - %s %d", time.Month(month), year), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	rows := []struct {
		label string
		value string
	}{
		{"Total bookings", fmt.Sprintf("%d", summary.TotalBookings)},
		{"Completed events", fmt.Sprintf("%d", summary.CompletedEvents)},
		{"Cancelled", fmt.Sprintf("%d", summary.Cancelled)},
		{"Participants served", fmt.Sprintf("%d", summary.Participants)},
		{"Revenue", fmt.Sprintf("$%.2f", summary.Revenue)},
		{"Expenses", fmt.Sprintf("$%.2f", summary.Expenses)},
		{"Profit", fmt.Sprintf("$%.2f", summary.Profit)},
	}

	pdf.SetFont("Arial", "", 11)
	for _, row := range rows {
		pdf.CellFormat(80, 8, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, row.value, "1", 1, "R", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated %s", time.Now().Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=report-%04d-%02d.pdf", year, month))
	if err := pdf.Output(w); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to render PDF")
	}
}

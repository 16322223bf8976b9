package report

import (
	"io"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
)

var pdfTitles = map[string]string{
	TypeSummary:  "Income Summary Report",
	TypeAreaWise: "Area-Wise Detail Report",
	TypeLoanWise: "Loan Type Report",
}

// WritePDF renders a report as an A4 PDF: title, summary table, then
// the breakdown table when present.
func WritePDF(w io.Writer, d Data, generatedAt time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTopMargin(20)
	pdf.AddPage()

	title := pdfTitles[d.ReportType]
	if title == "" {
		title = "Financial Report"
	}
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")

	subtitle := "Period: " + d.Summary.StartDate + " to " + d.Summary.EndDate
	if d.Filters.Area != "" {
		subtitle += " | Area: " + d.Filters.Area
	}
	if d.Filters.LoanType != "" {
		subtitle += " | Loan Type: " + d.Filters.LoanType
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(0, 6, subtitle, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	summaryRows := [][2]string{
		{"Total Disbursed", d.Summary.TotalDisbursed.StringFixed(2)},
		{"Total Loans Issued", strconv.Itoa(d.Summary.TotalLoansCount)},
		{"Total Collected", d.Summary.TotalCollected.StringFixed(2)},
		{"Principal Collected", d.Summary.TotalPrincipalCollected.StringFixed(2)},
		{"Interest Earned (Income)", d.Summary.TotalInterestCollected.StringFixed(2)},
		{"Cash Collected", d.Summary.CashCollected.StringFixed(2)},
		{"Online Collected", d.Summary.OnlineCollected.StringFixed(2)},
		{"Total Expenses", d.Summary.TotalExpenses.StringFixed(2)},
		{"Net Income", d.Summary.NetIncome.StringFixed(2)},
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(26, 26, 46)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(90, 9, "Metric", "1", 0, "L", true, 0, "")
	pdf.CellFormat(60, 9, "Amount", "1", 1, "R", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	for i, row := range summaryRows {
		if i == len(summaryRows)-1 {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.SetFillColor(232, 245, 233)
		} else {
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetFillColor(248, 249, 250)
		}
		fill := i%2 == 1 || i == len(summaryRows)-1
		pdf.CellFormat(90, 8, row[0], "1", 0, "L", fill, 0, "")
		pdf.CellFormat(60, 8, row[1], "1", 1, "R", fill, 0, "")
	}
	pdf.Ln(8)

	switch {
	case d.ReportType == TypeAreaWise && len(d.AreaRows) > 0:
		writePDFTable(pdf, "Area-Wise Breakdown",
			[]string{"Area", "Customers", "Loans", "Collected", "Principal", "Interest", "Txns"},
			[]float64{30, 22, 18, 28, 26, 26, 15},
			func(yield func([]string)) {
				for _, r := range d.AreaRows {
					yield([]string{
						r.Area, strconv.Itoa(r.Customers), strconv.Itoa(r.Loans),
						r.TotalCollected.StringFixed(2), r.PrincipalCollected.StringFixed(2),
						r.InterestCollected.StringFixed(2), strconv.Itoa(r.Transactions),
					})
				}
			})
	case d.ReportType == TypeLoanWise && len(d.LoanTypeRows) > 0:
		writePDFTable(pdf, "Loan Type Breakdown",
			[]string{"Loan Type", "Loans", "Collected", "Principal", "Interest", "Txns"},
			[]float64{42, 20, 30, 28, 28, 18},
			func(yield func([]string)) {
				for _, r := range d.LoanTypeRows {
					yield([]string{
						r.LoanType, strconv.Itoa(r.Loans),
						r.TotalCollected.StringFixed(2), r.PrincipalCollected.StringFixed(2),
						r.InterestCollected.StringFixed(2), strconv.Itoa(r.Transactions),
					})
				}
			})
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(153, 153, 153)
	pdf.CellFormat(0, 5, "Generated on "+generatedAt.Format("02 Jan 2006"), "", 1, "C", false, 0, "")

	return pdf.Output(w)
}

func writePDFTable(pdf *gofpdf.Fpdf, heading string, header []string, widths []float64, rows func(func([]string))) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(26, 26, 46)
	pdf.CellFormat(0, 8, heading, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(51, 65, 85)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	fill := false
	rows(func(cells []string) {
		pdf.SetFillColor(248, 249, 250)
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 7, c, "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
		fill = !fill
	})
}

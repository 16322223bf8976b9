package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV renders a report in the same two-section layout the admin
// screens expect: a summary block, then the breakdown when the report
// type has one.
func WriteCSV(w io.Writer, d Data) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"=== REPORT SUMMARY ==="},
		{"Period", fmt.Sprintf("%s to %s", d.Summary.StartDate, d.Summary.EndDate)},
		{"Total Disbursed", d.Summary.TotalDisbursed.StringFixed(2)},
		{"Total Loans", strconv.Itoa(d.Summary.TotalLoansCount)},
		{"Total Collected", d.Summary.TotalCollected.StringFixed(2)},
		{"Principal Collected", d.Summary.TotalPrincipalCollected.StringFixed(2)},
		{"Interest Collected (Income)", d.Summary.TotalInterestCollected.StringFixed(2)},
		{"Cash Collected", d.Summary.CashCollected.StringFixed(2)},
		{"Online Collected", d.Summary.OnlineCollected.StringFixed(2)},
		{"Total Expenses", d.Summary.TotalExpenses.StringFixed(2)},
		{"Net Income", d.Summary.NetIncome.StringFixed(2)},
		{},
	}
	for _, r := range rows {
		if err := cw.Write(r); err != nil {
			return err
		}
	}

	switch {
	case d.ReportType == TypeAreaWise && len(d.AreaRows) > 0:
		if err := cw.Write([]string{"=== AREA-WISE BREAKDOWN ==="}); err != nil {
			return err
		}
		if err := cw.Write([]string{"Area", "Customers", "Loans", "Total Collected", "Principal", "Interest", "Transactions"}); err != nil {
			return err
		}
		for _, r := range d.AreaRows {
			rec := []string{
				r.Area, strconv.Itoa(r.Customers), strconv.Itoa(r.Loans),
				r.TotalCollected.StringFixed(2), r.PrincipalCollected.StringFixed(2),
				r.InterestCollected.StringFixed(2), strconv.Itoa(r.Transactions),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	case d.ReportType == TypeLoanWise && len(d.LoanTypeRows) > 0:
		if err := cw.Write([]string{"=== LOAN TYPE BREAKDOWN ==="}); err != nil {
			return err
		}
		if err := cw.Write([]string{"Loan Type", "Loans", "Total Collected", "Principal", "Interest", "Transactions"}); err != nil {
			return err
		}
		for _, r := range d.LoanTypeRows {
			rec := []string{
				r.LoanType, strconv.Itoa(r.Loans),
				r.TotalCollected.StringFixed(2), r.PrincipalCollected.StringFixed(2),
				r.InterestCollected.StringFixed(2), strconv.Itoa(r.Transactions),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// Package report builds the read-side period reports. Everything here
// is a pure function of committed loan/transaction/expense state and
// caller-supplied filters; nothing mutates.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"lendbook/models"
	"lendbook/pkg/money"
)

// Report types.
const (
	TypeSummary  = "summary"
	TypeAreaWise = "area_wise"
	TypeLoanWise = "loan_wise"
)

// Filters are the caller-supplied report parameters. Loans,
// transactions and expenses are expected to already be restricted to
// the period (and optional area/loan-type) before Build is called.
type Filters struct {
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Area       string `json:"area,omitempty"`
	LoanType   string `json:"loan_type,omitempty"`
	ReportType string `json:"report_type"`
}

// Summary is the aggregate header of every report.
type Summary struct {
	StartDate               string          `json:"start_date"`
	EndDate                 string          `json:"end_date"`
	TotalDisbursed          decimal.Decimal `json:"total_disbursed"`
	TotalLoansCount         int             `json:"total_loans_count"`
	TotalCollected          decimal.Decimal `json:"total_collected"`
	TotalPrincipalCollected decimal.Decimal `json:"total_principal_collected"`
	TotalInterestCollected  decimal.Decimal `json:"total_interest_collected"`
	CashCollected           decimal.Decimal `json:"cash_collected"`
	OnlineCollected         decimal.Decimal `json:"online_collected"`
	TotalTransactions       int             `json:"total_transactions"`
	TotalExpenses           decimal.Decimal `json:"total_expenses"`
	NetIncome               decimal.Decimal `json:"net_income"`
}

// AreaRow is one row of the area-wise breakdown.
type AreaRow struct {
	Area               string          `json:"area"`
	Customers          int             `json:"customers"`
	Loans              int             `json:"loans"`
	TotalCollected     decimal.Decimal `json:"total_collected"`
	PrincipalCollected decimal.Decimal `json:"principal_collected"`
	InterestCollected  decimal.Decimal `json:"interest_collected"`
	Transactions       int             `json:"transactions"`
}

// LoanTypeRow is one row of the loan-type breakdown.
type LoanTypeRow struct {
	LoanType           string          `json:"loan_type"`
	Loans              int             `json:"loans"`
	TotalCollected     decimal.Decimal `json:"total_collected"`
	PrincipalCollected decimal.Decimal `json:"principal_collected"`
	InterestCollected  decimal.Decimal `json:"interest_collected"`
	Transactions       int             `json:"transactions"`
}

// DailyPoint is one day of the collection time series.
type DailyPoint struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
}

// Data is a fully assembled report.
type Data struct {
	ReportType     string        `json:"report_type"`
	Filters        Filters       `json:"filters"`
	Summary        Summary       `json:"summary"`
	AreaRows       []AreaRow     `json:"area_breakdown,omitempty"`
	LoanTypeRows   []LoanTypeRow `json:"loan_type_breakdown,omitempty"`
	DailySeries    []DailyPoint  `json:"daily_series"`
	AvailableAreas []string      `json:"available_areas"`
}

// Build assembles a report from period-filtered records. Transactions
// must be loaded with Loan and Loan.Customer for the breakdowns.
func Build(f Filters, loans []models.Loan, txns []models.Transaction, expenses []models.Expense, areas []string) Data {
	s := Summary{StartDate: f.StartDate, EndDate: f.EndDate, TotalLoansCount: len(loans), TotalTransactions: len(txns)}
	s.TotalDisbursed = decimal.Zero
	s.TotalCollected = decimal.Zero
	s.TotalPrincipalCollected = decimal.Zero
	s.TotalInterestCollected = decimal.Zero
	s.CashCollected = decimal.Zero
	s.OnlineCollected = decimal.Zero
	s.TotalExpenses = decimal.Zero

	for _, l := range loans {
		s.TotalDisbursed = s.TotalDisbursed.Add(l.PrincipalAmount)
	}
	for _, t := range txns {
		s.TotalCollected = s.TotalCollected.Add(t.Amount)
		s.TotalPrincipalCollected = s.TotalPrincipalCollected.Add(money.FromPtr(t.AsalAmount))
		s.TotalInterestCollected = s.TotalInterestCollected.Add(money.FromPtr(t.InterestAmount))
		if t.PaymentMethod == models.PaymentMethodOnline {
			s.OnlineCollected = s.OnlineCollected.Add(t.Amount)
		} else {
			s.CashCollected = s.CashCollected.Add(t.Amount)
		}
	}
	for _, e := range expenses {
		s.TotalExpenses = s.TotalExpenses.Add(e.Amount)
	}
	s.NetIncome = s.TotalInterestCollected.Sub(s.TotalExpenses)

	data := Data{
		ReportType:     f.ReportType,
		Filters:        f,
		Summary:        s,
		DailySeries:    dailySeries(txns),
		AvailableAreas: areas,
	}
	switch f.ReportType {
	case TypeAreaWise:
		data.AreaRows = areaBreakdown(txns)
	case TypeLoanWise:
		data.LoanTypeRows = loanTypeBreakdown(txns)
	}
	return data
}

func areaBreakdown(txns []models.Transaction) []AreaRow {
	rows := map[string]*AreaRow{}
	customers := map[string]map[uint]bool{}
	loans := map[string]map[uint]bool{}
	for _, t := range txns {
		area := t.Loan.Customer.Area
		if area == "" {
			area = "Unknown"
		}
		r, ok := rows[area]
		if !ok {
			r = &AreaRow{
				Area:               area,
				TotalCollected:     decimal.Zero,
				PrincipalCollected: decimal.Zero,
				InterestCollected:  decimal.Zero,
			}
			rows[area] = r
			customers[area] = map[uint]bool{}
			loans[area] = map[uint]bool{}
		}
		r.TotalCollected = r.TotalCollected.Add(t.Amount)
		r.PrincipalCollected = r.PrincipalCollected.Add(money.FromPtr(t.AsalAmount))
		r.InterestCollected = r.InterestCollected.Add(money.FromPtr(t.InterestAmount))
		r.Transactions++
		customers[area][t.Loan.CustomerID] = true
		loans[area][t.LoanID] = true
	}
	out := make([]AreaRow, 0, len(rows))
	for area, r := range rows {
		r.Customers = len(customers[area])
		r.Loans = len(loans[area])
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalCollected.Equal(out[j].TotalCollected) {
			return out[i].TotalCollected.GreaterThan(out[j].TotalCollected)
		}
		return out[i].Area < out[j].Area
	})
	return out
}

func loanTypeBreakdown(txns []models.Transaction) []LoanTypeRow {
	rows := map[string]*LoanTypeRow{}
	loans := map[string]map[uint]bool{}
	for _, t := range txns {
		lt := t.Loan.LoanType
		if lt == "" {
			lt = "Unknown"
		}
		r, ok := rows[lt]
		if !ok {
			r = &LoanTypeRow{
				LoanType:           lt,
				TotalCollected:     decimal.Zero,
				PrincipalCollected: decimal.Zero,
				InterestCollected:  decimal.Zero,
			}
			rows[lt] = r
			loans[lt] = map[uint]bool{}
		}
		r.TotalCollected = r.TotalCollected.Add(t.Amount)
		r.PrincipalCollected = r.PrincipalCollected.Add(money.FromPtr(t.AsalAmount))
		r.InterestCollected = r.InterestCollected.Add(money.FromPtr(t.InterestAmount))
		r.Transactions++
		loans[lt][t.LoanID] = true
	}
	out := make([]LoanTypeRow, 0, len(rows))
	for lt, r := range rows {
		r.Loans = len(loans[lt])
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalCollected.Equal(out[j].TotalCollected) {
			return out[i].TotalCollected.GreaterThan(out[j].TotalCollected)
		}
		return out[i].LoanType < out[j].LoanType
	})
	return out
}

func dailySeries(txns []models.Transaction) []DailyPoint {
	totals := map[string]decimal.Decimal{}
	for _, t := range txns {
		day := t.CreatedAt.Format("2006-01-02")
		totals[day] = totals[day].Add(t.Amount)
	}
	out := make([]DailyPoint, 0, len(totals))
	for day, total := range totals {
		out = append(out, DailyPoint{Date: day, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Filename builds the download name for an export, without extension.
func Filename(d Data) string {
	return strings.Join([]string{"report", d.ReportType, d.Filters.StartDate, "to", d.Filters.EndDate}, "_")
}

// ParseDate parses a YYYY-MM-DD filter value.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

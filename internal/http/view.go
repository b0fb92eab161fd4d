package http

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"

	"saldo/internal/core"
	"saldo/internal/ledger"
)

// chartColors cycle over breakdown slices in order.
var chartColors = []string{"#6366f1", "#f59e0b", "#10b981", "#ef4444", "#3b82f6", "#ec4899", "#14b8a6"}

type cardView struct {
	Balance         string
	TotalIncome     string
	TotalExpense    string
	BalanceNegative bool
}

type sliceView struct {
	Category string
	Amount   string
	Share    int64
	Color    string
}

type recordView struct {
	ID          string
	Kind        string
	Description string
	Amount      string
	Sign        string
	Category    string
	Date        string
}

type formError struct {
	Form    string
	Message string
}

type pageData struct {
	Cards      cardView
	Income     ledger.IncomeForm
	Expense    ledger.ExpenseForm
	Categories []string
	Slices     []sliceView
	PieStyle   template.CSS
	Records    []recordView
	Error      *formError
}

func buildPage(sum core.Summary, income ledger.IncomeForm, expense ledger.ExpenseForm, ferr *formError) pageData {
	cats := core.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}

	slices := buildSlices(sum.ByCategory)
	data := pageData{
		Cards: cardView{
			Balance:         core.FormatBRL(sum.Balance),
			TotalIncome:     core.FormatBRL(sum.TotalIncome),
			TotalExpense:    core.FormatBRL(sum.TotalExpense),
			BalanceNegative: sum.Balance.IsNegative(),
		},
		Income:     income,
		Expense:    expense,
		Categories: names,
		Slices:     slices,
		PieStyle:   pieStyle(sum.ByCategory, slices),
		Error:      ferr,
	}
	for _, r := range sum.Chronological {
		data.Records = append(data.Records, toRecordView(r))
	}
	return data
}

func buildSlices(breakdown []core.CategoryAmount) []sliceView {
	out := make([]sliceView, 0, len(breakdown))
	for i, c := range breakdown {
		out = append(out, sliceView{
			Category: string(c.Category),
			Amount:   core.FormatBRL(c.Amount),
			Share:    c.Share,
			Color:    chartColors[i%len(chartColors)],
		})
	}
	return out
}

// pieStyle renders the breakdown as a CSS conic-gradient. Stops are computed
// from exact amounts so the last slice always closes at 100%.
func pieStyle(breakdown []core.CategoryAmount, slices []sliceView) template.CSS {
	total := decimal.Zero
	for _, c := range breakdown {
		total = total.Add(c.Amount)
	}
	if !total.IsPositive() {
		return ""
	}

	hundred := decimal.NewFromInt(100)
	stops := make([]string, 0, len(breakdown))
	acc := decimal.Zero
	for i, c := range breakdown {
		start := acc.Mul(hundred).Div(total)
		acc = acc.Add(c.Amount)
		end := acc.Mul(hundred).Div(total)
		stops = append(stops, fmt.Sprintf("%s %s%% %s%%", slices[i].Color, start.StringFixed(2), end.StringFixed(2)))
	}
	return template.CSS("background: conic-gradient(" + strings.Join(stops, ", ") + ");")
}

func toRecordView(r core.Record) recordView {
	v := recordView{
		ID:          r.ID,
		Kind:        string(r.Kind),
		Description: r.Description,
		Amount:      core.FormatBRL(r.Amount),
		Category:    string(r.Category),
		Date:        r.Date.Format("02/01/2006"),
	}
	if r.IsIncome() {
		v.Sign = "+"
	} else {
		v.Sign = "-"
	}
	return v
}

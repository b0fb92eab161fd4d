package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"saldo/internal/core"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

const barWidth = 20

func renderRecords(w io.Writer, records []core.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("ID"),
		headerStyle.Render("Date"),
		headerStyle.Render("Description"),
		headerStyle.Render("Category"),
		headerStyle.Render("Amount"))

	for _, r := range records {
		amount := "+ " + core.FormatBRL(r.Amount)
		style := incomeStyle
		if r.IsExpense() {
			amount = "- " + core.FormatBRL(r.Amount)
			style = expenseStyle
		}
		category := string(r.Category)
		if category == "" {
			category = mutedStyle.Render("-")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Date.Format("02/01/2006"), r.Description, category, style.Render(amount))
	}
	return tw.Flush()
}

func renderSummary(w io.Writer, sum core.Summary) error {
	balance := incomeStyle
	if sum.Balance.IsNegative() {
		balance = expenseStyle
	}
	cards := fmt.Sprintf("%s %s\n%s %s\n%s %s",
		headerStyle.Render("Balance:      "), balance.Render(core.FormatBRL(sum.Balance)),
		headerStyle.Render("Total income: "), incomeStyle.Render(core.FormatBRL(sum.TotalIncome)),
		headerStyle.Render("Total expense:"), expenseStyle.Render(core.FormatBRL(sum.TotalExpense)))
	if _, err := fmt.Fprintln(w, boxStyle.Render(cards)); err != nil {
		return err
	}

	if len(sum.ByCategory) == 0 {
		_, err := fmt.Fprintln(w, mutedStyle.Render("No expenses to break down."))
		return err
	}

	fmt.Fprintln(w, headerStyle.Render("Spending by category"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range sum.ByCategory {
		fmt.Fprintf(tw, "%s\t%s\t%3d%%\t%s\n", c.Category, bar(c.Share), c.Share, core.FormatBRL(c.Amount))
	}
	return tw.Flush()
}

// bar draws share as a fixed-width horizontal bar.
func bar(share int64) string {
	n := int(share) * barWidth / 100
	if n < 0 {
		n = 0
	}
	if n > barWidth {
		n = barWidth
	}
	return expenseStyle.Render(strings.Repeat("█", n)) + mutedStyle.Render(strings.Repeat("░", barWidth-n))
}

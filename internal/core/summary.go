package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CategoryAmount is the total spent in one category.
type CategoryAmount struct {
	Category Category        `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	// Share is the whole-percent part of the total expense.
	Share int64 `json:"share"`
}

// Summary is everything the presentation needs for one render.
type Summary struct {
	TotalIncome   decimal.Decimal  `json:"total_income"`
	TotalExpense  decimal.Decimal  `json:"total_expense"`
	Balance       decimal.Decimal  `json:"balance"`
	ByCategory    []CategoryAmount `json:"by_category"`
	Chronological []Record         `json:"records"`
	Count         int              `json:"count"`
}

// Summarize computes every aggregate over records.
func Summarize(records []Record) Summary {
	income := TotalIncome(records)
	expense := TotalExpense(records)
	return Summary{
		TotalIncome:   income,
		TotalExpense:  expense,
		Balance:       income.Sub(expense),
		ByCategory:    CategoryBreakdown(records),
		Chronological: Chronological(records),
		Count:         len(records),
	}
}

func TotalIncome(records []Record) decimal.Decimal {
	return sumKind(records, KindIncome)
}

func TotalExpense(records []Record) decimal.Decimal {
	return sumKind(records, KindExpense)
}

func Balance(records []Record) decimal.Decimal {
	return TotalIncome(records).Sub(TotalExpense(records))
}

func sumKind(records []Record, kind Kind) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		if r.Kind == kind {
			total = total.Add(r.Amount)
		}
	}
	return total
}

// CategoryBreakdown groups expenses by category. Categories appear in the order
// they are first seen in records; categories without expenses are omitted.
func CategoryBreakdown(records []Record) []CategoryAmount {
	index := make(map[Category]int)
	out := []CategoryAmount{}
	total := decimal.Zero
	for _, r := range records {
		if r.Kind != KindExpense {
			continue
		}
		total = total.Add(r.Amount)
		i, ok := index[r.Category]
		if !ok {
			i = len(out)
			index[r.Category] = i
			out = append(out, CategoryAmount{Category: r.Category, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(r.Amount)
	}
	if total.IsPositive() {
		for i := range out {
			out[i].Share = out[i].Amount.Mul(hundred).Div(total).Round(0).IntPart()
		}
	}
	return out
}

// Chronological returns a copy of records, most recent date first. Records
// sharing a date keep their relative insertion order.
func Chronological(records []Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}

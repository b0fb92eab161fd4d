package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"saldo/internal/core"
)

// Field names accepted by the forms.
const (
	FieldDescription = "description"
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldDate        = "date"
)

var (
	// ErrIncomplete means a required field was blank. Callers treat it as a
	// silent rejection.
	ErrIncomplete   = errors.New("form incomplete")
	ErrUnknownField = errors.New("unknown form field")
)

// IncomeForm is the transient state of the income entry form.
type IncomeForm struct {
	Description string
	Amount      string
	Date        string
}

// Set stores value in field without validating it.
func (f *IncomeForm) Set(field, value string) error {
	switch field {
	case FieldDescription:
		f.Description = value
	case FieldAmount:
		f.Amount = value
	case FieldDate:
		f.Date = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

func (f *IncomeForm) Reset() {
	*f = IncomeForm{}
}

func (f *IncomeForm) complete() bool {
	return !blank(f.Description) && !blank(f.Amount) && !blank(f.Date)
}

// Submit turns the form into an income record and appends it to store. A
// blank field yields ErrIncomplete and leaves everything untouched. Once the
// record is appended the form resets, even if persisting it failed.
func (f *IncomeForm) Submit(ctx context.Context, store *Store) (core.Record, error) {
	if !f.complete() {
		return core.Record{}, ErrIncomplete
	}
	amount, err := core.ParseAmount(f.Amount)
	if err != nil {
		return core.Record{}, err
	}
	date, err := core.ParseDate(f.Date)
	if err != nil {
		return core.Record{}, err
	}

	r := core.Record{
		ID:          store.NextID(),
		Kind:        core.KindIncome,
		Description: strings.TrimSpace(f.Description),
		Amount:      amount,
		Date:        date,
	}
	err = store.Append(ctx, r)
	if err != nil && !errors.Is(err, ErrPersistFailed) {
		return core.Record{}, err
	}
	f.Reset()
	return r, err
}

// ExpenseForm is the transient state of the expense entry form. Category
// starts at core.DefaultCategory.
type ExpenseForm struct {
	Description string
	Amount      string
	Category    string
	Date        string
}

func NewExpenseForm() ExpenseForm {
	return ExpenseForm{Category: string(core.DefaultCategory)}
}

func (f *ExpenseForm) Set(field, value string) error {
	switch field {
	case FieldDescription:
		f.Description = value
	case FieldAmount:
		f.Amount = value
	case FieldCategory:
		f.Category = value
	case FieldDate:
		f.Date = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

func (f *ExpenseForm) Reset() {
	*f = NewExpenseForm()
}

func (f *ExpenseForm) complete() bool {
	return !blank(f.Description) && !blank(f.Amount) && !blank(f.Date)
}

// Submit is IncomeForm.Submit for expenses. A blank category falls back to
// the default; anything else must name a known category.
func (f *ExpenseForm) Submit(ctx context.Context, store *Store) (core.Record, error) {
	if !f.complete() {
		return core.Record{}, ErrIncomplete
	}
	amount, err := core.ParseAmount(f.Amount)
	if err != nil {
		return core.Record{}, err
	}
	date, err := core.ParseDate(f.Date)
	if err != nil {
		return core.Record{}, err
	}
	category := core.DefaultCategory
	if !blank(f.Category) {
		if category, err = core.ParseCategory(f.Category); err != nil {
			return core.Record{}, err
		}
	}

	r := core.Record{
		ID:          store.NextID(),
		Kind:        core.KindExpense,
		Description: strings.TrimSpace(f.Description),
		Amount:      amount,
		Category:    category,
		Date:        date,
	}
	err = store.Append(ctx, r)
	if err != nil && !errors.Is(err, ErrPersistFailed) {
		return core.Record{}, err
	}
	f.Reset()
	return r, err
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

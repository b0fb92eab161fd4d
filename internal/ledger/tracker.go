package ledger

import (
	"context"
	"sync"

	"saldo/internal/core"
)

// Edit is a single field assignment on a form.
type Edit struct {
	Field string
	Value string
}

// Tracker is the application state shared by every presentation: one
// store and one instance of each entry form.
type Tracker struct {
	mu      sync.Mutex
	store   *Store
	income  IncomeForm
	expense ExpenseForm
}

func NewTracker(store *Store) *Tracker {
	return &Tracker{store: store, expense: NewExpenseForm()}
}

func (t *Tracker) Store() *Store { return t.store }

// EditIncome applies edits to the income form without submitting.
func (t *Tracker) EditIncome(edits ...Edit) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ApplyEdits(t.income.Set, edits)
}

func (t *Tracker) EditExpense(edits ...Edit) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ApplyEdits(t.expense.Set, edits)
}

// SubmitIncome applies edits and then submits the income form.
func (t *Tracker) SubmitIncome(ctx context.Context, edits ...Edit) (core.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := ApplyEdits(t.income.Set, edits); err != nil {
		return core.Record{}, err
	}
	return t.income.Submit(ctx, t.store)
}

func (t *Tracker) SubmitExpense(ctx context.Context, edits ...Edit) (core.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := ApplyEdits(t.expense.Set, edits); err != nil {
		return core.Record{}, err
	}
	return t.expense.Submit(ctx, t.store)
}

// IncomeForm returns a copy of the income form's current values.
func (t *Tracker) IncomeForm() IncomeForm {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.income
}

func (t *Tracker) ExpenseForm() ExpenseForm {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.expense
}

func (t *Tracker) Remove(ctx context.Context, id string) (bool, error) {
	return t.store.Remove(ctx, id)
}

func (t *Tracker) Summary() core.Summary {
	return t.store.Summary()
}

// ApplyEdits feeds edits to a form's Set in order, stopping at the first error.
func ApplyEdits(set func(field, value string) error, edits []Edit) error {
	for _, e := range edits {
		if err := set(e.Field, e.Value); err != nil {
			return err
		}
	}
	return nil
}

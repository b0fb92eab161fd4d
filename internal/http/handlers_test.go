package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saldo/internal/core"
)

func TestIndexEmptyLedger(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(s, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "No entries yet")
	assert.Contains(t, body, "R$ 0,00")
	assert.NotContains(t, body, "Spending by category")
	for _, c := range core.Categories() {
		assert.Contains(t, body, `<option value="`+string(c)+`"`)
	}
}

func TestIndexRendersLedger(t *testing.T) {
	s, ls := newTestServer(t)
	seed(t, ls, incomeRecord("1", "Salary", "1000", core.NewDate(2024, 1, 5)))
	seed(t, ls, expenseRecord("2", "Rent", "400", core.CategoryHousing, core.NewDate(2024, 1, 10)))

	rec := do(s, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "R$ 600,00")
	assert.Contains(t, body, "R$ 1.000,00")
	assert.Contains(t, body, "Spending by category")
	assert.Contains(t, body, "10/01/2024")
	assert.Contains(t, body, `action="/records/2/delete"`)
	assert.NotContains(t, body, "No entries yet")
}

func TestCreateIncome(t *testing.T) {
	s, ls := newTestServer(t)
	rec := do(s, postForm("/incomes", url.Values{
		"description": {"Salary"},
		"amount":      {"1.234,56"},
		"date":        {"2024-01-05"},
	}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	records := ls.Records()
	require.Len(t, records, 1)
	assert.Equal(t, core.KindIncome, records[0].Kind)
	assert.Equal(t, "1234.56", records[0].Amount.StringFixed(2))
	assert.Empty(t, records[0].Category)
}

func TestCreateExpenseDefaultsCategory(t *testing.T) {
	s, ls := newTestServer(t)
	rec := do(s, postForm("/expenses", url.Values{
		"description": {"Lunch"},
		"amount":      {"25"},
		"date":        {"2024-01-15"},
	}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	records := ls.Records()
	require.Len(t, records, 1)
	assert.Equal(t, core.CategoryFood, records[0].Category)
}

func TestCreateIncompleteIsIgnored(t *testing.T) {
	s, ls := newTestServer(t)
	rec := do(s, postForm("/incomes", url.Values{"description": {"Salary"}, "amount": {"10"}}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 0, ls.Len())

	req := postForm("/expenses", url.Values{"description": {"  "}, "amount": {"10"}, "date": {"2024-01-01"}})
	req.Header.Set("HX-Request", "true")
	rec = do(s, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, ls.Len())
}

func TestCreateInvalidAmountKeepsForm(t *testing.T) {
	s, ls := newTestServer(t)
	rec := do(s, postForm("/expenses", url.Values{
		"description": {"Groceries"},
		"amount":      {"abc"},
		"category":    {"Health"},
		"date":        {"2024-01-15"},
	}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 0, ls.Len())
	body := rec.Body.String()
	assert.Contains(t, body, "Amount must be a positive number")
	assert.Contains(t, body, `value="Groceries"`)
	assert.Contains(t, body, `<option value="Health" selected>`)
}

func TestCreateInvalidDate(t *testing.T) {
	s, ls := newTestServer(t)
	rec := do(s, postForm("/incomes", url.Values{
		"description": {"Bonus"},
		"amount":      {"10"},
		"date":        {"2024-02-30"},
	}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Date must be a valid day")
	assert.Equal(t, 0, ls.Len())
}

func TestCreateHTMX(t *testing.T) {
	s, ls := newTestServer(t)
	req := postForm("/incomes", url.Values{
		"description": {"Salary"},
		"amount":      {"100"},
		"date":        {"2024-01-05"},
	})
	req.Header.Set("HX-Request", "true")
	rec := do(s, req)

	require.Equal(t, http.StatusOK, rec.Code)
	trigger := rec.Header().Get("HX-Trigger")
	assert.Contains(t, trigger, "record:created")
	assert.Contains(t, trigger, "form:reset")
	assert.Contains(t, trigger, "summary:refresh")
	assert.Contains(t, trigger, `"success"`)
	assert.Equal(t, 1, ls.Len())
}

func TestCreateHTMXValidationError(t *testing.T) {
	s, _ := newTestServer(t)
	req := postForm("/incomes", url.Values{
		"description": {"Salary"},
		"amount":      {"-5"},
		"date":        {"2024-01-05"},
	})
	req.Header.Set("HX-Request", "true")
	rec := do(s, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Header().Get("HX-Trigger"), `"error"`)
}

// A rejected submit keeps the form; posting only the corrected field
// completes it.
func TestFormKeepsValuesUntilSubmitted(t *testing.T) {
	s, ls := newTestServer(t)
	do(s, postForm("/incomes", url.Values{"description": {"Salary"}, "amount": {"x"}, "date": {"2024-01-05"}}))
	assert.Equal(t, "Salary", s.tracker.IncomeForm().Description)

	rec := do(s, postForm("/incomes", url.Values{"amount": {"10"}}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 1, ls.Len())
	assert.Empty(t, s.tracker.IncomeForm().Description)
}

func TestDeleteRecord(t *testing.T) {
	s, ls := newTestServer(t)
	seed(t, ls, incomeRecord("1", "Salary", "1000", core.NewDate(2024, 1, 5)))
	seed(t, ls, expenseRecord("2", "Rent", "400", core.CategoryHousing, core.NewDate(2024, 1, 10)))

	rec := do(s, httptest.NewRequest(http.MethodPost, "/records/1/delete", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	_, ok := ls.Get("1")
	assert.False(t, ok)
	assert.Equal(t, 1, ls.Len())

	req := httptest.NewRequest(http.MethodDelete, "/records/2", nil)
	req.Header.Set("HX-Request", "true")
	rec = do(s, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("HX-Trigger"), "record:deleted")
	assert.Equal(t, 0, ls.Len())
}

func TestDeleteUnknownRecordIsNoop(t *testing.T) {
	s, ls := newTestServer(t)
	seed(t, ls, incomeRecord("1", "Salary", "1000", core.NewDate(2024, 1, 5)))

	req := httptest.NewRequest(http.MethodDelete, "/records/missing", nil)
	req.Header.Set("HX-Request", "true")
	rec := do(s, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Header().Get("HX-Trigger"), "record:deleted")
	assert.Equal(t, 1, ls.Len())
}

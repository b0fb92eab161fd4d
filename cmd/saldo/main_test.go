package main

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saldo/internal/core"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

var addedID = regexp.MustCompile(`Added (?:income|expense) (\S+)`)

func TestAddListRemove(t *testing.T) {
	db := filepath.Join(t.TempDir(), "saldo.db")
	flags := []string{"--backend", "sqlite", "--db", db}

	out, err := run(t, append(flags, "income", "add", "-d", "Salary", "-a", "1.000,00", "--date", "2024-01-05")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Salary")

	out, err = run(t, append(flags, "expense", "add", "-d", "Rent", "-a", "400", "-c", "Housing", "--date", "2024-01-10")...)
	require.NoError(t, err)
	m := addedID.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	rentID := m[1]

	out, err = run(t, append(flags, "list")...)
	require.NoError(t, err)
	assert.Regexp(t, `(?s)Rent.*Salary`, out)
	assert.Contains(t, out, "R$ 1.000,00")

	out, err = run(t, append(flags, "list", "--kind", "income")...)
	require.NoError(t, err)
	assert.NotContains(t, out, "Rent")

	out, err = run(t, append(flags, "summary")...)
	require.NoError(t, err)
	assert.Contains(t, out, "R$ 600,00")
	assert.Contains(t, out, "Housing")
	assert.Contains(t, out, "100%")

	_, err = run(t, append(flags, "remove", rentID)...)
	require.NoError(t, err)

	_, err = run(t, append(flags, "remove", rentID)...)
	assert.Error(t, err)

	out, err = run(t, append(flags, "summary")...)
	require.NoError(t, err)
	assert.Contains(t, out, "R$ 1.000,00")
	assert.Contains(t, out, "No expenses to break down")
}

func TestAddRejectsBadInput(t *testing.T) {
	flags := []string{"--backend", "memory"}

	_, err := run(t, append(flags, "income", "add", "-d", "Salary")...)
	assert.ErrorContains(t, err, "required")

	_, err = run(t, append(flags, "expense", "add", "-d", "Lunch", "-a", "abc")...)
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = run(t, append(flags, "expense", "add", "-d", "Lunch", "-a", "5", "-c", "Crypto")...)
	assert.ErrorIs(t, err, core.ErrInvalidCategory)

	_, err = run(t, append(flags, "list", "--kind", "transfer")...)
	assert.Error(t, err)
}

func TestExpenseDefaultsToToday(t *testing.T) {
	out, err := run(t, "--backend", "memory", "expense", "add", "-d", "Coffee", "-a", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Food")
}

func TestInvalidBackend(t *testing.T) {
	_, err := run(t, "--backend", "postgres", "list")
	assert.Error(t, err)
}

func TestCategoriesAndVersion(t *testing.T) {
	out, err := run(t, "categories")
	require.NoError(t, err)
	for _, c := range core.Categories() {
		assert.Contains(t, out, string(c))
	}
	assert.Contains(t, out, "(default)")

	out, err = run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "saldo dev")
}

func TestBar(t *testing.T) {
	assert.Equal(t, 20, countRunes(bar(100), '█'))
	assert.Equal(t, 10, countRunes(bar(50), '█'))
	assert.Equal(t, 0, countRunes(bar(0), '█'))
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderSummary(&buf, core.Summarize(nil)))
	assert.Contains(t, buf.String(), "R$ 0,00")

	buf.Reset()
	rec := core.Record{ID: "1", Kind: core.KindIncome, Description: "Gift", Amount: decimal.NewFromInt(5), Date: core.NewDate(2024, 2, 1)}
	require.NoError(t, renderRecords(&buf, []core.Record{rec}))
	assert.Contains(t, buf.String(), "01/02/2024")
	assert.Contains(t, buf.String(), "+ R$ 5,00")
}

func countRunes(s string, r rune) int {
	n := 0
	for _, c := range s {
		if c == r {
			n++
		}
	}
	return n
}

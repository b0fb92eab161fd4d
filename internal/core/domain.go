package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

const (
	CategoryFood      Category = "Food"
	CategoryHousing   Category = "Housing"
	CategoryTransport Category = "Transport"
	CategoryHealth    Category = "Health"
	CategoryEducation Category = "Education"
	CategoryLeisure   Category = "Leisure"
	CategoryOther     Category = "Other"

	// DefaultCategory is preselected on a blank expense form.
	DefaultCategory = CategoryFood
)

// DateLayout is the textual form of a Date, both on the wire and in forms.
const DateLayout = "2006-01-02"

type (
	// Kind tells income and expense records apart.
	Kind string

	// Category classifies an expense for the breakdown.
	Category string

	// Date is a calendar day. The time part is always midnight UTC.
	Date struct {
		time.Time
	}

	// Record is one income or expense event. Records are never mutated after
	// they enter the ledger.
	Record struct {
		ID          string          `json:"id"`
		Kind        Kind            `json:"kind"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		Category    Category        `json:"category,omitempty"`
		Date        Date            `json:"date"`
	}
)

var (
	ErrEmptyID          = errors.New("empty id")
	ErrInvalidKind      = errors.New("invalid kind")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidDate      = errors.New("invalid date")
)

var categories = []Category{
	CategoryFood,
	CategoryHousing,
	CategoryTransport,
	CategoryHealth,
	CategoryEducation,
	CategoryLeisure,
	CategoryOther,
}

// Labels used by the first version of the tracker; still accepted on input.
var legacyCategoryLabels = map[string]Category{
	"alimentação": CategoryFood,
	"moradia":     CategoryHousing,
	"transporte":  CategoryTransport,
	"saúde":       CategoryHealth,
	"educação":    CategoryEducation,
	"lazer":       CategoryLeisure,
	"outros":      CategoryOther,
}

// Categories returns every expense category in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory resolves a user-supplied label to a Category.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	if c, ok := legacyCategoryLabels[strings.ToLower(s)]; ok {
		return c, nil
	}
	return "", ErrInvalidCategory
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. Out-of-range days are rejected rather
// than normalised.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (r Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return ErrEmptyID
	}
	if !r.Kind.Valid() {
		return ErrInvalidKind
	}
	if len(strings.TrimSpace(r.Description)) == 0 {
		return ErrEmptyDescription
	}
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if r.Kind == KindExpense && !r.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

func (r Record) IsIncome() bool  { return r.Kind == KindIncome }
func (r Record) IsExpense() bool { return r.Kind == KindExpense }

package models

import "github.com/shopspring/decimal"

// Category tags an expense for display and reporting.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryGroceries     Category = "Groceries"
	CategoryTransport     Category = "Transport"
	CategoryTravel        Category = "Travel"
	CategoryEntertainment Category = "Entertainment"
	CategorySubscriptions Category = "Subscriptions"
	CategoryUtilities     Category = "Utilities"
	CategoryShopping      Category = "Shopping"
	CategoryHealthcare    Category = "Healthcare"
	CategoryEducation     Category = "Education"
	CategoryGeneral       Category = "General"
)

var categories = map[Category]bool{
	CategoryFood:          true,
	CategoryGroceries:     true,
	CategoryTransport:     true,
	CategoryTravel:        true,
	CategoryEntertainment: true,
	CategorySubscriptions: true,
	CategoryUtilities:     true,
	CategoryShopping:      true,
	CategoryHealthcare:    true,
	CategoryEducation:     true,
	CategoryGeneral:       true,
}

// ParseCategory maps a string to a known Category. Unknown or empty
// values fall back to CategoryGeneral.
func ParseCategory(s string) Category {
	if c := Category(s); categories[c] {
		return c
	}
	return CategoryGeneral
}

// Expense is a payment made by one member on behalf of others.
//
// The payer is credited the full Amount and each share debits its member
// by the share amount. Shares are not required to sum to Amount.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// GroupID is the group this expense belongs to.
	GroupID string `json:"groupId"`

	// Title is a short human-readable description (e.g., "Dinner").
	Title string `json:"title"`

	// Amount is the total paid.
	Amount decimal.Decimal `json:"amount"`

	// PayerID is the member who paid.
	PayerID string `json:"payerId"`

	// Date is the Unix timestamp of the expense.
	Date int64 `json:"date"`

	Category Category `json:"category"`

	// Notes is an optional free-form note.
	Notes string `json:"notes,omitempty"`

	// Shares lists what each member owes for this expense.
	Shares []ExpenseShare `json:"shares"`
}

// ExpenseShare is one member's owed amount for an expense.
type ExpenseShare struct {
	MemberID string          `json:"memberId"`
	Amount   decimal.Decimal `json:"amount"`
}

// SharesTotal returns the sum of all share amounts.
func (e Expense) SharesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range e.Shares {
		total = total.Add(s.Amount)
	}
	return total
}

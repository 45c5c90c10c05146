package calculator

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settle/internal/models"
)

// ShareMismatch reports an expense whose shares do not add up to its amount.
type ShareMismatch struct {
	ExpenseID   string
	Amount      decimal.Decimal
	SharesTotal decimal.Decimal
}

// Difference is Amount minus SharesTotal. A positive difference means part
// of the expense was not assigned to anyone.
func (m ShareMismatch) Difference() decimal.Decimal {
	return m.Amount.Sub(m.SharesTotal)
}

// ValidateGroup checks the numeric preconditions of a group snapshot:
// expense amounts and share amounts must be non-negative and every expense
// must name a payer.
func ValidateGroup(group models.Group) error {
	for i, e := range group.Expenses {
		field := fmt.Sprintf("expenses[%d]", i)
		if e.PayerID == "" {
			return invalid(field+".payerId", "payer is required")
		}
		if e.Amount.IsNegative() {
			return invalid(field+".amount", "amount %s is negative", e.Amount)
		}
		for j, s := range e.Shares {
			if s.MemberID == "" {
				return invalid(fmt.Sprintf("%s.shares[%d].memberId", field, j), "member is required")
			}
			if s.Amount.IsNegative() {
				return invalid(fmt.Sprintf("%s.shares[%d].amount", field, j), "share %s is negative", s.Amount)
			}
		}
	}
	return nil
}

// ShareMismatches lists expenses whose shares differ from the expense amount
// by more than Epsilon. Such groups are not zero-sum; the amounts are used
// as given and never normalized.
func ShareMismatches(group models.Group) []ShareMismatch {
	var out []ShareMismatch
	for _, e := range group.Expenses {
		total := e.SharesTotal()
		if e.Amount.Sub(total).Abs().GreaterThan(Epsilon) {
			out = append(out, ShareMismatch{ExpenseID: e.ID, Amount: e.Amount, SharesTotal: total})
		}
	}
	return out
}

// ParseAmount parses a non-negative decimal amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, invalid("amount", "amount is required")
	}
	switch strings.ToLower(strings.TrimLeft(s, "+-")) {
	case "nan", "inf", "infinity":
		return decimal.Zero, invalid("amount", "amount %q is not finite", s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, invalid("amount", "amount %q is not a number", s)
	}
	if d.IsNegative() {
		return decimal.Zero, invalid("amount", "amount %s is negative", d)
	}
	return d, nil
}

// AmountFromFloat converts a float amount, rejecting NaN, infinities and
// negative values.
func AmountFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, invalid("amount", "amount %v is not finite", f)
	}
	if f < 0 {
		return decimal.Zero, invalid("amount", "amount %v is negative", f)
	}
	return decimal.NewFromFloat(f), nil
}

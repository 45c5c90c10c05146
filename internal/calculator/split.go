package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settle/internal/models"
)

// SplitType selects how an expense amount is divided into shares.
type SplitType string

const (
	SplitEqual      SplitType = "equal"
	SplitPercentage SplitType = "percentage"
	SplitCustom     SplitType = "custom"
)

var (
	hundred = decimal.NewFromInt(100)
	cent    = decimal.New(1, -2)
)

// PercentShare assigns a percentage of an expense to one member.
type PercentShare struct {
	MemberID string          `json:"memberId"`
	Percent  decimal.Decimal `json:"percent"`
}

// SplitRequest describes how to build the shares of one expense.
type SplitRequest struct {
	Type   SplitType       `json:"type"`
	Amount decimal.Decimal `json:"amount"`

	// MemberIDs is used by SplitEqual.
	MemberIDs []string `json:"memberIds,omitempty"`

	// Percentages is used by SplitPercentage.
	Percentages []PercentShare `json:"percentages,omitempty"`

	// Shares is used by SplitCustom.
	Shares []models.ExpenseShare `json:"shares,omitempty"`
}

// BuildShares dispatches on req.Type. An empty type means SplitEqual.
func BuildShares(req SplitRequest) ([]models.ExpenseShare, error) {
	switch req.Type {
	case SplitEqual, "":
		return SplitEqually(req.Amount, req.MemberIDs)
	case SplitPercentage:
		return SplitByPercentage(req.Amount, req.Percentages)
	case SplitCustom:
		return SplitCustomAmounts(req.Amount, req.Shares)
	default:
		return nil, invalid("type", "unknown split type %q", req.Type)
	}
}

// SplitEqually divides amount among memberIDs in whole cents. Remainder
// cents go one each to the first members, so shares always sum to amount.
//
// Example: 100.00 / 3 = 33.34, 33.33, 33.33
func SplitEqually(amount decimal.Decimal, memberIDs []string) ([]models.ExpenseShare, error) {
	if err := checkCents(amount); err != nil {
		return nil, err
	}
	if len(memberIDs) == 0 {
		return nil, invalid("memberIds", "must have at least one member")
	}
	if err := checkDistinct("memberIds", len(memberIDs), func(i int) string { return memberIDs[i] }); err != nil {
		return nil, err
	}

	n := decimal.NewFromInt(int64(len(memberIDs)))
	cents := amount.Mul(hundred)
	base := cents.Div(n).Floor()
	remainder := cents.Sub(base.Mul(n)).IntPart()

	shares := make([]models.ExpenseShare, len(memberIDs))
	for i, id := range memberIDs {
		part := base
		if int64(i) < remainder {
			part = part.Add(decimal.NewFromInt(1))
		}
		shares[i] = models.ExpenseShare{MemberID: id, Amount: part.Div(hundred)}
	}
	return shares, nil
}

// SplitByPercentage assigns each member percent/100 of amount, truncated to
// cents. Percentages must total exactly 100; the leftover cents go to the
// first member.
func SplitByPercentage(amount decimal.Decimal, percentages []PercentShare) ([]models.ExpenseShare, error) {
	if err := checkCents(amount); err != nil {
		return nil, err
	}
	if len(percentages) == 0 {
		return nil, invalid("percentages", "must have at least one member")
	}
	if err := checkDistinct("percentages", len(percentages), func(i int) string { return percentages[i].MemberID }); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for i, p := range percentages {
		if p.Percent.IsNegative() {
			return nil, invalid(fmt.Sprintf("percentages[%d]", i), "percent %s is negative", p.Percent)
		}
		total = total.Add(p.Percent)
	}
	if !total.Equal(hundred) {
		return nil, invalid("percentages", "percentages total %s, want 100", total)
	}

	shares := make([]models.ExpenseShare, len(percentages))
	assigned := decimal.Zero
	for i, p := range percentages {
		part := amount.Mul(p.Percent).Div(hundred).Truncate(2)
		shares[i] = models.ExpenseShare{MemberID: p.MemberID, Amount: part}
		assigned = assigned.Add(part)
	}
	shares[0].Amount = shares[0].Amount.Add(amount.Sub(assigned))
	return shares, nil
}

// SplitCustomAmounts accepts caller-provided shares that must sum to amount.
func SplitCustomAmounts(amount decimal.Decimal, shares []models.ExpenseShare) ([]models.ExpenseShare, error) {
	if amount.IsNegative() {
		return nil, invalid("amount", "amount %s is negative", amount)
	}
	if len(shares) == 0 {
		return nil, invalid("shares", "must have at least one member")
	}
	if err := checkDistinct("shares", len(shares), func(i int) string { return shares[i].MemberID }); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for i, s := range shares {
		if s.Amount.IsNegative() {
			return nil, invalid(fmt.Sprintf("shares[%d]", i), "share %s is negative", s.Amount)
		}
		total = total.Add(s.Amount)
	}
	if !total.Equal(amount) {
		return nil, invalid("shares", "shares total %s, want %s", total, amount)
	}

	out := make([]models.ExpenseShare, len(shares))
	copy(out, shares)
	return out, nil
}

func checkCents(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return invalid("amount", "amount %s is negative", amount)
	}
	if !amount.Mod(cent).IsZero() {
		return invalid("amount", "amount %s has more than 2 decimal places", amount)
	}
	return nil
}

// checkDistinct rejects an empty or repeated member ID; an expense holds at
// most one share per member.
func checkDistinct(field string, n int, memberID func(int) string) error {
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		id := memberID(i)
		if id == "" {
			return invalid(fmt.Sprintf("%s[%d]", field, i), "member id is required")
		}
		if seen[id] {
			return invalid(field, "duplicate member %q", id)
		}
		seen[id] = true
	}
	return nil
}

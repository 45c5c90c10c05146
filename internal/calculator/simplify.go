package calculator

import (
	"cmp"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/settle/internal/models"
)

// Epsilon is the currency-precision tolerance. Balances within
// [-Epsilon, Epsilon] are treated as settled.
var Epsilon = decimal.RequireFromString("0.01")

// Simplifier turns balances into a short list of pairwise transfers.
// The zero value uses Epsilon and random UUIDs.
type Simplifier struct {
	// Epsilon overrides the settled tolerance when positive.
	Epsilon decimal.Decimal

	// NewID generates settlement IDs. Defaults to uuid.NewString.
	NewID func() string
}

// position is a creditor's or debtor's outstanding amount, always positive.
type position struct {
	memberID  string
	remaining decimal.Decimal
}

// SimplifyDebts runs the default Simplifier over balances.
func SimplifyDebts(balances Balances) []models.Settlement {
	return Simplifier{}.Simplify(balances)
}

// ComputeSettlements runs the default Simplifier over a group snapshot.
func ComputeSettlements(group models.Group) ([]models.Settlement, error) {
	return Simplifier{}.ComputeSettlements(group)
}

// ComputeSettlements computes the group's balances and simplifies them.
// Every returned settlement carries the group's ID.
func (s Simplifier) ComputeSettlements(group models.Group) ([]models.Settlement, error) {
	balances, err := ComputeBalances(group)
	if err != nil {
		return nil, err
	}
	settlements := s.Simplify(balances)
	for i := range settlements {
		settlements[i].GroupID = group.ID
	}
	return settlements, nil
}

// Simplify matches the largest creditor with the largest debtor until one
// side runs out. This is a greedy heuristic: it emits at most
// creditors+debtors-1 transfers but does not guarantee the theoretical
// minimum, which is NP-hard to find.
//
// Equal amounts are ordered by member ID so the output is reproducible.
// Every key of balances takes part, whether or not it is still on the roster.
// Leftovers below epsilon caused by mismatched shares produce no transfer.
// Returned settlements are pending and carry no timestamps.
func (s Simplifier) Simplify(balances Balances) []models.Settlement {
	eps := s.epsilon()
	negEps := eps.Neg()

	var creditors, debtors []position
	for id, bal := range balances {
		switch {
		case bal.GreaterThan(eps):
			creditors = append(creditors, position{memberID: id, remaining: bal})
		case bal.LessThan(negEps):
			debtors = append(debtors, position{memberID: id, remaining: bal.Neg()})
		}
	}
	sortLargestFirst(creditors)
	sortLargestFirst(debtors)

	settlements := make([]models.Settlement, 0, max(len(creditors)+len(debtors)-1, 0))
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		creditor := &creditors[i]
		debtor := &debtors[j]

		amount := decimal.Min(creditor.remaining, debtor.remaining)
		settlements = append(settlements, models.Settlement{
			ID:           s.newID(),
			FromMemberID: debtor.memberID,
			ToMemberID:   creditor.memberID,
			Amount:       amount,
			Status:       models.StatusPending,
		})

		creditor.remaining = creditor.remaining.Sub(amount)
		debtor.remaining = debtor.remaining.Sub(amount)

		if creditor.remaining.LessThan(eps) {
			i++
		}
		if debtor.remaining.LessThan(eps) {
			j++
		}
	}

	return settlements
}

func (s Simplifier) epsilon() decimal.Decimal {
	if s.Epsilon.IsPositive() {
		return s.Epsilon
	}
	return Epsilon
}

func (s Simplifier) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func sortLargestFirst(ps []position) {
	slices.SortFunc(ps, func(a, b position) int {
		return cmp.Or(b.remaining.Cmp(a.remaining), strings.Compare(a.memberID, b.memberID))
	})
}

package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settle/internal/models"
)

// Balances maps member ID to net balance.
// Positive = owed money, Negative = owes money.
type Balances map[string]decimal.Decimal

// MemberBalance is the per-member breakdown of a group's balances.
type MemberBalance struct {
	MemberID   string          `json:"memberId"`
	Name       string          `json:"name,omitempty"`
	TotalPaid  decimal.Decimal `json:"totalPaid"`  // Sum of expense amounts this member paid
	TotalOwed  decimal.Decimal `json:"totalOwed"`  // Sum of shares this member owes
	NetBalance decimal.Decimal `json:"netBalance"` // TotalPaid - TotalOwed
}

// ComputeBalances derives every member's net balance from the group's expenses.
//
// Algorithm:
//   - Every roster member starts at zero
//   - For each expense: payer += amount, each share's member -= share amount
//
// IDs that appear in expenses but not on the roster get an entry as well.
// The group is not modified.
func ComputeBalances(group models.Group) (Balances, error) {
	if err := ValidateGroup(group); err != nil {
		return nil, err
	}

	balances := make(Balances, len(group.Members))
	for _, m := range group.Members {
		balances[m.ID] = decimal.Zero
	}

	for _, e := range group.Expenses {
		balances[e.PayerID] = balances[e.PayerID].Add(e.Amount)
		for _, s := range e.Shares {
			balances[s.MemberID] = balances[s.MemberID].Sub(s.Amount)
		}
	}

	return balances, nil
}

// Summarize computes paid/owed/net totals per member, in roster order
// followed by any off-roster IDs sorted ascending.
func Summarize(group models.Group) ([]MemberBalance, error) {
	if err := ValidateGroup(group); err != nil {
		return nil, err
	}

	byID := make(map[string]*MemberBalance, len(group.Members))
	order := make([]string, 0, len(group.Members))
	get := func(id string) *MemberBalance {
		if mb, ok := byID[id]; ok {
			return mb
		}
		mb := &MemberBalance{MemberID: id}
		byID[id] = mb
		return mb
	}

	for _, m := range group.Members {
		get(m.ID).Name = m.Name
		order = append(order, m.ID)
	}

	var extra []string
	track := func(id string) {
		if _, ok := byID[id]; !ok {
			extra = append(extra, id)
		}
	}
	for _, e := range group.Expenses {
		track(e.PayerID)
		payer := get(e.PayerID)
		payer.TotalPaid = payer.TotalPaid.Add(e.Amount)
		for _, s := range e.Shares {
			track(s.MemberID)
			owner := get(s.MemberID)
			owner.TotalOwed = owner.TotalOwed.Add(s.Amount)
		}
	}
	sort.Strings(extra)
	order = append(order, extra...)

	out := make([]MemberBalance, 0, len(order))
	for _, id := range order {
		mb := byID[id]
		mb.NetBalance = mb.TotalPaid.Sub(mb.TotalOwed)
		out = append(out, *mb)
	}
	return out, nil
}

// Sum returns the total of all balances. It is zero for a group whose
// expenses' shares add up to their amounts.
func (b Balances) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range b {
		total = total.Add(v)
	}
	return total
}

// Apply returns a copy of b with each transfer executed: the payer's
// balance rises by the amount and the receiver's falls by it.
func (b Balances) Apply(settlements []models.Settlement) Balances {
	out := make(Balances, len(b))
	for id, v := range b {
		out[id] = v
	}
	for _, s := range settlements {
		out[s.FromMemberID] = out[s.FromMemberID].Add(s.Amount)
		out[s.ToMemberID] = out[s.ToMemberID].Sub(s.Amount)
	}
	return out
}

// Settled reports whether every balance lies within [-epsilon, epsilon].
func (b Balances) Settled(epsilon decimal.Decimal) bool {
	for _, v := range b {
		if v.Abs().GreaterThan(epsilon) {
			return false
		}
	}
	return true
}

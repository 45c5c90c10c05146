package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/settle/internal/cache"
	"github.com/mmynk/settle/internal/calculator"
	"github.com/mmynk/settle/internal/models"
	"github.com/mmynk/settle/internal/storage"
)

// groupSnapshot is a group as balances see it.
type groupSnapshot struct {
	// stored is the group as persisted, roster included.
	stored *models.Group
	// settlements are all recorded settlements, any status.
	settlements []models.Settlement
	// effective is stored plus an offset expense per completed settlement.
	effective models.Group
}

// loadSnapshot reads a group and its recorded settlements and folds the
// completed ones into the expenses used for balances.
func loadSnapshot(ctx context.Context, store storage.Store, groupID string) (*groupSnapshot, error) {
	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	recorded, err := store.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	settlements := make([]models.Settlement, len(recorded))
	for i, s := range recorded {
		settlements[i] = *s
	}

	return &groupSnapshot{
		stored:      group,
		settlements: settlements,
		effective:   calculator.ApplyCompletedSettlements(*group, settlements),
	}, nil
}

// outstanding reports whether memberID has a balance beyond
// calculator.Epsilon or is a party to a pending settlement.
func (g *groupSnapshot) outstanding(memberID string) (bool, error) {
	balances, err := calculator.ComputeBalances(g.effective)
	if err != nil {
		return false, err
	}
	if balances[memberID].Abs().GreaterThan(calculator.Epsilon) {
		return true, nil
	}
	for _, s := range g.settlements {
		if s.Status == models.StatusPending && (s.FromMemberID == memberID || s.ToMemberID == memberID) {
			return true, nil
		}
	}
	return false, nil
}

// canSettle reports whether memberID may be a party to a settlement: either
// on the roster or still holding a balance from expenses recorded before
// they left.
func (g *groupSnapshot) canSettle(memberID string) (bool, error) {
	if g.stored.HasMember(memberID) {
		return true, nil
	}
	balances, err := calculator.ComputeBalances(g.effective)
	if err != nil {
		return false, err
	}
	return balances[memberID].Abs().GreaterThan(calculator.Epsilon), nil
}

// shareWarnings logs and reports every expense whose shares do not sum to
// its amount.
func shareWarnings(group models.Group) []Warning {
	mismatches := calculator.ShareMismatches(group)
	if len(mismatches) == 0 {
		return nil
	}

	warnings := make([]Warning, 0, len(mismatches))
	for _, m := range mismatches {
		slog.Warn("Expense shares do not sum to amount",
			"group_id", group.ID,
			"expense_id", m.ExpenseID,
			"amount", m.Amount.String(),
			"shares_total", m.SharesTotal.String(),
		)
		warnings = append(warnings, Warning{
			ExpenseID:   m.ExpenseID,
			Amount:      m.Amount.String(),
			SharesTotal: m.SharesTotal.String(),
			Message:     fmt.Sprintf("shares differ from amount by %s", m.Difference().StringFixed(2)),
		})
	}
	return warnings
}

// invalidatePlan drops the cached plan for a group. Failures are logged; the
// cached entry then expires on its TTL.
func invalidatePlan(ctx context.Context, plans cache.PlanCache, groupID string) {
	if plans == nil {
		return
	}
	if err := plans.Invalidate(ctx, groupID); err != nil {
		slog.Warn("Failed to invalidate settlement plan", "group_id", groupID, "error", err)
	}
}

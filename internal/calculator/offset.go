package calculator

import (
	"fmt"

	"github.com/mmynk/settle/internal/models"
)

// OffsetExpense expresses a settlement as an expense paid by the debtor
// with a single share owed by the creditor. Adding it to a group moves the
// debtor's balance up and the creditor's down by the settlement amount.
func OffsetExpense(s models.Settlement) models.Expense {
	return models.Expense{
		ID:       "settlement:" + s.ID,
		GroupID:  s.GroupID,
		Title:    fmt.Sprintf("Settlement: %s -> %s", s.FromMemberID, s.ToMemberID),
		Amount:   s.Amount,
		PayerID:  s.FromMemberID,
		Date:     s.UpdatedAt,
		Category: models.CategoryGeneral,
		Notes:    s.Note,
		Shares:   []models.ExpenseShare{{MemberID: s.ToMemberID, Amount: s.Amount}},
	}
}

// ApplyCompletedSettlements returns a copy of group whose expenses include
// an offset for every completed settlement. Pending and failed settlements
// are ignored.
func ApplyCompletedSettlements(group models.Group, settlements []models.Settlement) models.Group {
	expenses := make([]models.Expense, len(group.Expenses), len(group.Expenses)+len(settlements))
	copy(expenses, group.Expenses)
	for _, s := range settlements {
		if s.Status == models.StatusCompleted {
			expenses = append(expenses, OffsetExpense(s))
		}
	}
	group.Expenses = expenses
	return group
}

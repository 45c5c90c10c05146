package cache

import (
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/mmynk/settle/internal/models"
)

// Fingerprint hashes the parts of a group that feed the simplifier: every
// expense's ID, payer, amount and shares. Expense order does not matter.
func Fingerprint(group models.Group) string {
	expenses := slices.Clone(group.Expenses)
	slices.SortFunc(expenses, func(a, b models.Expense) int {
		return strings.Compare(a.ID, b.ID)
	})

	d := xxhash.New()
	for _, e := range expenses {
		_, _ = d.WriteString(e.ID)
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(e.PayerID)
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(e.Amount.String())
		for _, s := range e.Shares {
			_, _ = d.WriteString("\x1f")
			_, _ = d.WriteString(s.MemberID)
			_, _ = d.WriteString("=")
			_, _ = d.WriteString(s.Amount.String())
		}
		_, _ = d.WriteString("\x1e")
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

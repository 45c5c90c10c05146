package calculator

import (
	"fmt"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mmynk/settle/internal/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s, got %s %s", want, got, fmt.Sprint(msgAndArgs...))
}

func members(ids ...string) []models.Member {
	out := make([]models.Member, len(ids))
	for i, id := range ids {
		out[i] = models.Member{ID: id, Name: id}
	}
	return out
}

func expense(payer, amount string, shares ...string) models.Expense {
	e := models.Expense{PayerID: payer, Amount: d(amount)}
	for i := 0; i+1 < len(shares); i += 2 {
		e.Shares = append(e.Shares, models.ExpenseShare{MemberID: shares[i], Amount: d(shares[i+1])})
	}
	return e
}

// sequentialIDs returns a deterministic ID generator for settlement tests.
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("s%d", n)
	}
}

func nan() float64 { return math.NaN() }

func inf() float64 { return math.Inf(1) }

package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settle/internal/models"
)

type transfer struct {
	from, to, amount string
}

func assertTransfers(t *testing.T, want []transfer, got []models.Settlement) {
	t.Helper()
	require.Len(t, got, len(want))
	for i, w := range want {
		assert.Equal(t, w.from, got[i].FromMemberID, "settlement %d from", i)
		assert.Equal(t, w.to, got[i].ToMemberID, "settlement %d to", i)
		assertDecimal(t, w.amount, got[i].Amount, "settlement", i)
		assert.Equal(t, models.StatusPending, got[i].Status)
		assert.Zero(t, got[i].CreatedAt)
		assert.Zero(t, got[i].UpdatedAt)
	}
}

func TestComputeSettlementsScenarios(t *testing.T) {
	tests := []struct {
		name  string
		group models.Group
		want  []transfer
	}{
		{
			name: "one payer split equally three ways",
			group: models.Group{
				ID:       "g1",
				Members:  members("A", "B", "C"),
				Expenses: []models.Expense{expense("A", "300", "A", "100", "B", "100", "C", "100")},
			},
			want: []transfer{{"B", "A", "100"}, {"C", "A", "100"}},
		},
		{
			name: "debt chain collapses to one transfer",
			group: models.Group{
				ID:      "g2",
				Members: members("A", "B", "C"),
				Expenses: []models.Expense{
					expense("B", "100", "A", "100"),
					expense("C", "100", "B", "100"),
				},
			},
			want: []transfer{{"A", "C", "100"}},
		},
		{
			name: "largest debtor is matched first",
			group: models.Group{
				ID:      "g3",
				Members: members("A", "B", "C"),
				Expenses: []models.Expense{
					expense("A", "50", "B", "30", "C", "20"),
				},
			},
			want: []transfer{{"B", "A", "30"}, {"C", "A", "20"}},
		},
		{
			name: "all balances zero",
			group: models.Group{
				ID:      "g4",
				Members: members("A", "B"),
				Expenses: []models.Expense{
					expense("A", "10", "B", "10"),
					expense("B", "10", "A", "10"),
				},
			},
			want: nil,
		},
		{
			name:  "empty group",
			group: models.Group{ID: "g5"},
			want:  nil,
		},
		{
			name:  "single member",
			group: models.Group{ID: "g6", Members: members("A"), Expenses: []models.Expense{expense("A", "40", "A", "40")}},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeSettlements(tt.group)
			require.NoError(t, err)
			require.NotNil(t, got)
			assertTransfers(t, tt.want, got)
			for _, s := range got {
				assert.Equal(t, tt.group.ID, s.GroupID)
				assert.NotEmpty(t, s.ID)
			}
		})
	}
}

func TestSimplifyBoundary(t *testing.T) {
	got := SimplifyDebts(Balances{
		"A": d("0.01"),
		"B": d("-0.01"),
		"C": d("0.005"),
	})
	assert.Empty(t, got)

	got = SimplifyDebts(Balances{
		"A": d("0.02"),
		"B": d("-0.02"),
	})
	assertTransfers(t, []transfer{{"B", "A", "0.02"}}, got)
}

func TestSimplifyTieBreakIsDeterministic(t *testing.T) {
	balances := Balances{
		"carol": d("50"),
		"alice": d("50"),
		"dave":  d("-50"),
		"bob":   d("-50"),
	}

	want := []transfer{{"bob", "alice", "50"}, {"dave", "carol", "50"}}
	for i := 0; i < 20; i++ {
		assertTransfers(t, want, Simplifier{NewID: sequentialIDs()}.Simplify(balances))
	}
}

func TestSimplifyUsesIDGenerator(t *testing.T) {
	got := Simplifier{NewID: sequentialIDs()}.Simplify(Balances{
		"A": d("30"),
		"B": d("-10"),
		"C": d("-20"),
	})
	require.Len(t, got, 2)
	assert.Equal(t, "s1", got[0].ID)
	assert.Equal(t, "s2", got[1].ID)
}

func TestSimplifyCustomEpsilon(t *testing.T) {
	balances := Balances{"A": d("0.5"), "B": d("-0.5")}

	assert.Len(t, SimplifyDebts(balances), 1)
	assert.Empty(t, Simplifier{Epsilon: d("1")}.Simplify(balances))
}

func TestSimplifyDropsResidueBelowEpsilon(t *testing.T) {
	// Creditors total 0.004 more than debtors; the leftover is dropped.
	got := SimplifyDebts(Balances{
		"A": d("60.004"),
		"B": d("-40"),
		"C": d("-20"),
	})
	assertTransfers(t, []transfer{{"B", "A", "40"}, {"C", "A", "20"}}, got)
}

func TestSimplifySettlesEveryBalance(t *testing.T) {
	group := models.Group{
		Members: members("A", "B", "C", "D", "E", "F"),
		Expenses: []models.Expense{
			expense("A", "600", "A", "100", "B", "100", "C", "100", "D", "100", "E", "100", "F", "100"),
			expense("B", "250", "C", "125", "D", "125"),
			expense("E", "75.30", "F", "25.10", "A", "25.10", "B", "25.10"),
			expense("C", "19.99", "D", "19.99"),
			expense("F", "333.33", "A", "111.11", "E", "111.11", "D", "111.11"),
		},
	}

	balances, err := ComputeBalances(group)
	require.NoError(t, err)
	settlements := SimplifyDebts(balances)

	var creditors, debtors int
	for _, b := range balances {
		switch {
		case b.GreaterThan(Epsilon):
			creditors++
		case b.LessThan(Epsilon.Neg()):
			debtors++
		}
	}

	assert.LessOrEqual(t, len(settlements), creditors+debtors-1)
	for _, s := range settlements {
		assert.True(t, s.Amount.IsPositive())
		assert.NotEqual(t, s.FromMemberID, s.ToMemberID)
	}
	assert.True(t, balances.Apply(settlements).Settled(Epsilon))
}

func TestBalancesApplyDoesNotMutate(t *testing.T) {
	balances := Balances{"A": d("10"), "B": d("-10")}
	after := balances.Apply([]models.Settlement{{FromMemberID: "B", ToMemberID: "A", Amount: d("10")}})

	assertDecimal(t, "0", after["A"])
	assertDecimal(t, "0", after["B"])
	assertDecimal(t, "10", balances["A"])
	assert.False(t, balances.Settled(Epsilon))
	assert.True(t, after.Settled(Epsilon))
}

package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settle/internal/cache"
	"github.com/mmynk/settle/internal/calculator"
	"github.com/mmynk/settle/internal/models"
)

func computePlan(t *testing.T, e *testEnv, groupID string) []models.Settlement {
	t.Helper()
	resp, err := e.settlementsAs(t, "").ComputeSettlements(context.Background(), connect.NewRequest(&ComputeSettlementsRequest{GroupID: groupID}))
	require.NoError(t, err)
	return resp.Msg.Settlements
}

func TestComputeSettlements(t *testing.T) {
	e := setupTestServer(t)
	groupID := createFlat(t, e)
	addExpense(t, e, groupID, "alice", "90")

	plan := computePlan(t, e, groupID)
	require.Len(t, plan, 2)

	// bob and carol owe the same amount; the tie is broken by member ID.
	assert.Equal(t, "bob", plan[0].FromMemberID)
	assert.Equal(t, "alice", plan[0].ToMemberID)
	assertAmount(t, "30", plan[0].Amount)
	assert.Equal(t, "carol", plan[1].FromMemberID)
	assert.Equal(t, "alice", plan[1].ToMemberID)
	assertAmount(t, "30", plan[1].Amount)

	for _, s := range plan {
		assert.NotEmpty(t, s.ID)
		assert.Equal(t, groupID, s.GroupID)
		assert.Equal(t, models.StatusPending, s.Status)
	}
}

func TestComputeSettlementsEmptyGroup(t *testing.T) {
	e := setupTestServer(t)
	groupID := createFlat(t, e)

	plan := computePlan(t, e, groupID)
	assert.NotNil(t, plan)
	assert.Empty(t, plan)
}

func TestComputeSettlementsIsStableUntilGroupChanges(t *testing.T) {
	e := setupTestServer(t)
	groupID := createFlat(t, e)
	addExpense(t, e, groupID, "alice", "90")

	first := computePlan(t, e, groupID)
	second := computePlan(t, e, groupID)
	assert.Equal(t, first, second)
	assert.True(t, e.redis.Exists("settle:plan:"+groupID))

	addExpense(t, e, groupID, "bob", "30")
	assert.False(t, e.redis.Exists("settle:plan:"+groupID))

	third := computePlan(t, e, groupID)
	require.Len(t, third, 2)
	assert.NotEqual(t, first[0].ID, third[0].ID)

	// alice +50, bob -10, carol -40
	assert.Equal(t, "carol", third[0].FromMemberID)
	assertAmount(t, "40", third[0].Amount)
	assert.Equal(t, "bob", third[1].FromMemberID)
	assertAmount(t, "10", third[1].Amount)
}

func TestComputeSettlementsIgnoresPlanStoredForOlderSnapshot(t *testing.T) {
	e := setupTestServer(t)
	ctx := context.Background()
	groupID := createFlat(t, e)
	addExpense(t, e, groupID, "alice", "90")

	// A reader loads the group and computes its plan...
	snap, err := loadSnapshot(ctx, e.store, groupID)
	require.NoError(t, err)
	stale, err := calculator.ComputeSettlements(snap.effective)
	require.NoError(t, err)

	// ...a writer adds an expense and invalidates the cache...
	addExpense(t, e, groupID, "bob", "30")

	// ...and only then does the reader store what it computed.
	require.NoError(t, e.plans.Set(ctx, groupID, cache.Fingerprint(snap.effective), stale))

	fresh := computePlan(t, e, groupID)
	require.Len(t, fresh, 2)
	assert.NotEqual(t, stale[0].ID, fresh[0].ID)
	// alice +50, bob -10, carol -40
	assert.Equal(t, "carol", fresh[0].FromMemberID)
	assertAmount(t, "40", fresh[0].Amount)
	assert.Equal(t, "bob", fresh[1].FromMemberID)
	assertAmount(t, "10", fresh[1].Amount)

	assert.Equal(t, fresh, computePlan(t, e, groupID))
}

func TestComputeSettlements_NotFound(t *testing.T) {
	e := setupTestServer(t)

	_, err := e.settlementsAs(t, "").ComputeSettlements(context.Background(), connect.NewRequest(&ComputeSettlementsRequest{GroupID: "missing"}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestSettlementLifecycle(t *testing.T) {
	e := setupTestServer(t)
	ctx := context.Background()
	groupID := createFlat(t, e)
	addExpense(t, e, groupID, "alice", "90")

	plan := computePlan(t, e, groupID)
	proposal := plan[0]
	require.Equal(t, "bob", proposal.FromMemberID)

	bob := e.settlementsAs(t, "bob")
	recorded, err := bob.RecordSettlement(ctx, connect.NewRequest(&RecordSettlementRequest{
		GroupID:      groupID,
		SettlementID: proposal.ID,
		FromMemberID: proposal.FromMemberID,
		ToMemberID:   proposal.ToMemberID,
		Amount:       proposal.Amount.String(),
		Note:         "cash",
	}))
	require.NoError(t, err)
	assert.Equal(t, proposal.ID, recorded.Msg.Settlement.ID)
	assert.Equal(t, models.StatusPending, recorded.Msg.Settlement.Status)

	// A pending settlement does not move balances.
	balances, err := e.groups.GetBalances(ctx, connect.NewRequest(&GetBalancesRequest{GroupID: groupID}))
	require.NoError(t, err)
	assertAmount(t, "-30", balances.Msg.Balances[1].NetBalance)

	_, err = e.settlementsAs(t, "carol").UpdateSettlementStatus(ctx, connect.NewRequest(&UpdateSettlementStatusRequest{
		SettlementID: proposal.ID,
		Status:       string(models.StatusCompleted),
	}))
	assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))

	updated, err := e.settlementsAs(t, "alice").UpdateSettlementStatus(ctx, connect.NewRequest(&UpdateSettlementStatusRequest{
		SettlementID: proposal.ID,
		Status:       string(models.StatusCompleted),
		ExternalRef:  "UPI-123",
	}))
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Msg.Settlement.Status)
	assert.Equal(t, "UPI-123", updated.Msg.Settlement.ExternalRef)

	balances, err = e.groups.GetBalances(ctx, connect.NewRequest(&GetBalancesRequest{GroupID: groupID}))
	require.NoError(t, err)
	assertAmount(t, "30", balances.Msg.Balances[0].NetBalance)
	assertAmount(t, "0", balances.Msg.Balances[1].NetBalance)
	assertAmount(t, "-30", balances.Msg.Balances[2].NetBalance)

	remaining := computePlan(t, e, groupID)
	require.Len(t, remaining, 1)
	assert.Equal(t, "carol", remaining[0].FromMemberID)
	assert.Equal(t, "alice", remaining[0].ToMemberID)
	assertAmount(t, "30", remaining[0].Amount)

	_, err = bob.UpdateSettlementStatus(ctx, connect.NewRequest(&UpdateSettlementStatusRequest{
		SettlementID: proposal.ID,
		Status:       string(models.StatusFailed),
	}))
	assert.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(err))
}

func TestFailedSettlementLeavesBalances(t *testing.T) {
	e := setupTestServer(t)
	ctx := context.Background()
	groupID := createFlat(t, e)
	addExpense(t, e, groupID, "alice", "90")

	carol := e.settlementsAs(t, "carol")
	recorded, err := carol.RecordSettlement(ctx, connect.NewRequest(&RecordSettlementRequest{
		GroupID:      groupID,
		FromMemberID: "carol",
		ToMemberID:   "alice",
		Amount:       "30",
	}))
	require.NoError(t, err)
	assert.NotEmpty(t, recorded.Msg.Settlement.ID)

	_, err = carol.UpdateSettlementStatus(ctx, connect.NewRequest(&UpdateSettlementStatusRequest{
		SettlementID: recorded.Msg.Settlement.ID,
		Status:       string(models.StatusFailed),
	}))
	require.NoError(t, err)

	balances, err := e.groups.GetBalances(ctx, connect.NewRequest(&GetBalancesRequest{GroupID: groupID}))
	require.NoError(t, err)
	assertAmount(t, "-30", balances.Msg.Balances[2].NetBalance)
}

func TestRecordSettlementValidation(t *testing.T) {
	e := setupTestServer(t)
	groupID := createFlat(t, e)

	valid := RecordSettlementRequest{GroupID: groupID, FromMemberID: "bob", ToMemberID: "alice", Amount: "10"}

	tests := []struct {
		name     string
		caller   string
		mutate   func(r *RecordSettlementRequest)
		wantCode connect.Code
	}{
		{name: "anonymous", caller: "", mutate: func(r *RecordSettlementRequest) {}, wantCode: connect.CodeUnauthenticated},
		{name: "not a party", caller: "carol", mutate: func(r *RecordSettlementRequest) {}, wantCode: connect.CodePermissionDenied},
		{name: "self transfer", caller: "bob", mutate: func(r *RecordSettlementRequest) { r.ToMemberID = "bob" }, wantCode: connect.CodeInvalidArgument},
		{name: "zero amount", caller: "bob", mutate: func(r *RecordSettlementRequest) { r.Amount = "0" }, wantCode: connect.CodeInvalidArgument},
		{name: "negative amount", caller: "bob", mutate: func(r *RecordSettlementRequest) { r.Amount = "-1" }, wantCode: connect.CodeInvalidArgument},
		{name: "payee not in group", caller: "bob", mutate: func(r *RecordSettlementRequest) { r.ToMemberID = "mallory" }, wantCode: connect.CodeInvalidArgument},
		{name: "unknown group", caller: "bob", mutate: func(r *RecordSettlementRequest) { r.GroupID = "missing" }, wantCode: connect.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			_, err := e.settlementsAs(t, tt.caller).RecordSettlement(context.Background(), connect.NewRequest(&req))
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, connect.CodeOf(err))
		})
	}
}

func TestRecordSettlementRejectsReusedID(t *testing.T) {
	e := setupTestServer(t)
	ctx := context.Background()
	groupID := createFlat(t, e)
	addExpense(t, e, groupID, "alice", "90")

	proposal := computePlan(t, e, groupID)[0]
	req := &RecordSettlementRequest{
		GroupID:      groupID,
		SettlementID: proposal.ID,
		FromMemberID: proposal.FromMemberID,
		ToMemberID:   proposal.ToMemberID,
		Amount:       proposal.Amount.String(),
	}

	bob := e.settlementsAs(t, "bob")
	_, err := bob.RecordSettlement(ctx, connect.NewRequest(req))
	require.NoError(t, err)

	_, err = bob.RecordSettlement(ctx, connect.NewRequest(req))
	require.Error(t, err)
	assert.Equal(t, connect.CodeAlreadyExists, connect.CodeOf(err))

	listed, err := bob.ListSettlements(ctx, connect.NewRequest(&ListSettlementsRequest{GroupID: groupID}))
	require.NoError(t, err)
	assert.Len(t, listed.Msg.Settlements, 1)
}

func TestRecordSettlementForDepartedMember(t *testing.T) {
	e := setupTestServer(t)
	ctx := context.Background()
	groupID := createFlat(t, e)
	addExpense(t, e, groupID, "alice", "90")

	// carol left the roster while still owing 30
	require.NoError(t, e.store.RemoveMember(ctx, groupID, "carol"))

	plan := computePlan(t, e, groupID)
	require.Len(t, plan, 2)
	proposal := plan[1]
	require.Equal(t, "carol", proposal.FromMemberID)

	carol := e.settlementsAs(t, "carol")
	recorded, err := carol.RecordSettlement(ctx, connect.NewRequest(&RecordSettlementRequest{
		GroupID:      groupID,
		SettlementID: proposal.ID,
		FromMemberID: proposal.FromMemberID,
		ToMemberID:   proposal.ToMemberID,
		Amount:       proposal.Amount.String(),
	}))
	require.NoError(t, err)

	_, err = carol.UpdateSettlementStatus(ctx, connect.NewRequest(&UpdateSettlementStatusRequest{
		SettlementID: recorded.Msg.Settlement.ID,
		Status:       string(models.StatusCompleted),
	}))
	require.NoError(t, err)

	remaining := computePlan(t, e, groupID)
	require.Len(t, remaining, 1)
	assert.Equal(t, "bob", remaining[0].FromMemberID)

	// once settled, carol is no longer a valid party
	_, err = carol.RecordSettlement(ctx, connect.NewRequest(&RecordSettlementRequest{
		GroupID:      groupID,
		FromMemberID: "carol",
		ToMemberID:   "alice",
		Amount:       "5",
	}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestUpdateSettlementStatusValidation(t *testing.T) {
	e := setupTestServer(t)
	ctx := context.Background()

	_, err := e.settlementsAs(t, "").UpdateSettlementStatus(ctx, connect.NewRequest(&UpdateSettlementStatusRequest{
		SettlementID: "s1", Status: "completed",
	}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	_, err = e.settlementsAs(t, "bob").UpdateSettlementStatus(ctx, connect.NewRequest(&UpdateSettlementStatusRequest{
		SettlementID: "s1", Status: "settled",
	}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = e.settlementsAs(t, "bob").UpdateSettlementStatus(ctx, connect.NewRequest(&UpdateSettlementStatusRequest{
		SettlementID: "s1", Status: "completed",
	}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestListSettlements(t *testing.T) {
	e := setupTestServer(t)
	ctx := context.Background()
	groupID := createFlat(t, e)
	bob := e.settlementsAs(t, "bob")

	resp, err := bob.ListSettlements(ctx, connect.NewRequest(&ListSettlementsRequest{GroupID: groupID}))
	require.NoError(t, err)
	assert.NotNil(t, resp.Msg.Settlements)
	assert.Empty(t, resp.Msg.Settlements)

	first, err := bob.RecordSettlement(ctx, connect.NewRequest(&RecordSettlementRequest{
		GroupID: groupID, FromMemberID: "bob", ToMemberID: "alice", Amount: "10",
	}))
	require.NoError(t, err)
	_, err = bob.RecordSettlement(ctx, connect.NewRequest(&RecordSettlementRequest{
		GroupID: groupID, FromMemberID: "carol", ToMemberID: "bob", Amount: "5",
	}))
	require.NoError(t, err)
	_, err = bob.UpdateSettlementStatus(ctx, connect.NewRequest(&UpdateSettlementStatusRequest{
		SettlementID: first.Msg.Settlement.ID, Status: "completed",
	}))
	require.NoError(t, err)

	resp, err = bob.ListSettlements(ctx, connect.NewRequest(&ListSettlementsRequest{GroupID: groupID}))
	require.NoError(t, err)
	assert.Len(t, resp.Msg.Settlements, 2)

	resp, err = bob.ListSettlements(ctx, connect.NewRequest(&ListSettlementsRequest{GroupID: groupID, Status: "completed"}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Settlements, 1)
	assert.Equal(t, first.Msg.Settlement.ID, resp.Msg.Settlements[0].ID)

	_, err = bob.ListSettlements(ctx, connect.NewRequest(&ListSettlementsRequest{GroupID: groupID, Status: "bogus"}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

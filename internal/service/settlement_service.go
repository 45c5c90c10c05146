package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/settle/internal/auth"
	"github.com/mmynk/settle/internal/cache"
	"github.com/mmynk/settle/internal/calculator"
	"github.com/mmynk/settle/internal/metrics"
	"github.com/mmynk/settle/internal/middleware"
	"github.com/mmynk/settle/internal/models"
	"github.com/mmynk/settle/internal/storage"
)

var errNotParty = errors.New("only the payer or the payee can change a settlement")

// SettlementService implements the Connect SettlementService: proposing
// transfers that settle a group and tracking the ones members act on.
type SettlementService struct {
	store      storage.Store
	plans      cache.PlanCache
	metrics    *metrics.Metrics
	simplifier calculator.Simplifier
}

// NewSettlementService creates a new SettlementService. plans and m may be nil.
func NewSettlementService(store storage.Store, plans cache.PlanCache, m *metrics.Metrics) *SettlementService {
	return &SettlementService{store: store, plans: plans, metrics: m}
}

// callerID returns the authenticated member, or an Unauthenticated error.
func callerID(ctx context.Context) (string, error) {
	id := middleware.GetMemberID(ctx)
	if id == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return id, nil
}

// ComputeSettlements proposes the transfers that settle the group. While
// the group is unchanged the same plan, with the same IDs, is returned.
func (s *SettlementService) ComputeSettlements(ctx context.Context, req *connect.Request[ComputeSettlementsRequest]) (*connect.Response[ComputeSettlementsResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("ComputeSettlements request received", "group_id", groupID)

	if groupID == "" {
		return nil, invalidArgument("group_id required")
	}

	snap, err := loadSnapshot(ctx, s.store, groupID)
	if err != nil {
		slog.Error("ComputeSettlements failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}
	snapshot := snap.effective
	warnings := shareWarnings(snapshot)
	fingerprint := cache.Fingerprint(snapshot)

	if plan, ok := s.cachedPlan(ctx, groupID, fingerprint); ok {
		slog.Info("ComputeSettlements served from cache", "group_id", groupID, "count", len(plan))
		return connect.NewResponse(&ComputeSettlementsResponse{Settlements: plan, Warnings: warnings}), nil
	}

	plan, err := s.simplifier.ComputeSettlements(snapshot)
	if err != nil {
		slog.Error("ComputeSettlements failed - invalid group data", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.ObservePlan(len(plan))

	if s.plans != nil {
		if err := s.plans.Set(ctx, groupID, fingerprint, plan); err != nil {
			slog.Warn("Failed to cache settlement plan", "group_id", groupID, "error", err)
		}
	}

	slog.Info("ComputeSettlements successful", "group_id", groupID, "count", len(plan))

	return connect.NewResponse(&ComputeSettlementsResponse{Settlements: plan, Warnings: warnings}), nil
}

// cachedPlan returns the cached plan only if it was computed from a snapshot
// with the same fingerprint, so a plan stored after a concurrent mutation is
// never served.
func (s *SettlementService) cachedPlan(ctx context.Context, groupID, fingerprint string) ([]models.Settlement, bool) {
	if s.plans == nil {
		return nil, false
	}
	plan, ok, err := s.plans.Get(ctx, groupID, fingerprint)
	if err != nil {
		slog.Warn("Failed to read cached settlement plan", "group_id", groupID, "error", err)
		return nil, false
	}
	s.metrics.ObserveCacheLookup(ok)
	return plan, ok
}

// RecordSettlement records a pending transfer between two members of a
// group. The caller must be one of the two parties. A party who has left
// the roster may still settle a balance they hold.
func (s *SettlementService) RecordSettlement(ctx context.Context, req *connect.Request[RecordSettlementRequest]) (*connect.Response[RecordSettlementResponse], error) {
	msg := req.Msg
	slog.Info("RecordSettlement request received",
		"group_id", msg.GroupID,
		"settlement_id", msg.SettlementID,
		"from", msg.FromMemberID,
		"to", msg.ToMemberID,
		"amount", msg.Amount,
	)

	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if msg.GroupID == "" || msg.FromMemberID == "" || msg.ToMemberID == "" {
		return nil, invalidArgument("group_id, from_member_id and to_member_id required")
	}
	if msg.FromMemberID == msg.ToMemberID {
		return nil, invalidArgument("a member cannot settle with themselves")
	}
	amount, err := calculator.ParseAmount(msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}
	if !amount.IsPositive() {
		return nil, invalidArgument("amount must be positive")
	}
	if caller != msg.FromMemberID && caller != msg.ToMemberID {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotParty)
	}

	snap, err := loadSnapshot(ctx, s.store, msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	for _, party := range []string{msg.FromMemberID, msg.ToMemberID} {
		ok, err := snap.canSettle(party)
		if err != nil {
			return nil, toConnectError(err)
		}
		if !ok {
			return nil, invalidArgument("%q is not a member of the group", party)
		}
	}

	settlement := &models.Settlement{
		ID:           msg.SettlementID,
		GroupID:      msg.GroupID,
		FromMemberID: msg.FromMemberID,
		ToMemberID:   msg.ToMemberID,
		Amount:       amount,
		Status:       models.StatusPending,
		Note:         msg.Note,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("RecordSettlement failed", "group_id", msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Settlement recorded", "settlement_id", settlement.ID, "group_id", msg.GroupID)

	return connect.NewResponse(&RecordSettlementResponse{Settlement: settlement}), nil
}

// UpdateSettlementStatus completes or fails a pending settlement. Only the
// payer or the payee may do so. Completing a settlement changes the
// group's balances, so the cached plan is dropped.
func (s *SettlementService) UpdateSettlementStatus(ctx context.Context, req *connect.Request[UpdateSettlementStatusRequest]) (*connect.Response[UpdateSettlementStatusResponse], error) {
	msg := req.Msg
	slog.Info("UpdateSettlementStatus request received", "settlement_id", msg.SettlementID, "status", msg.Status)

	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if msg.SettlementID == "" {
		return nil, invalidArgument("settlement_id required")
	}
	status, err := models.ParseSettlementStatus(msg.Status)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	existing, err := s.store.GetSettlement(ctx, msg.SettlementID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if caller != existing.FromMemberID && caller != existing.ToMemberID {
		slog.Warn("UpdateSettlementStatus denied", "settlement_id", existing.ID, "member_id", caller)
		return nil, connect.NewError(connect.CodePermissionDenied, errNotParty)
	}

	updated, err := s.store.UpdateSettlementStatus(ctx, msg.SettlementID, status, msg.ExternalRef)
	if err != nil {
		slog.Error("UpdateSettlementStatus failed", "settlement_id", msg.SettlementID, "error", err)
		return nil, toConnectError(err)
	}
	if updated.Status == models.StatusCompleted {
		invalidatePlan(ctx, s.plans, updated.GroupID)
	}

	slog.Info("Settlement status updated", "settlement_id", updated.ID, "status", updated.Status)

	return connect.NewResponse(&UpdateSettlementStatusResponse{Settlement: updated}), nil
}

// ListSettlements returns a group's recorded settlements, newest first.
func (s *SettlementService) ListSettlements(ctx context.Context, req *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error) {
	slog.Info("ListSettlements request received", "group_id", req.Msg.GroupID, "status", req.Msg.Status)

	if req.Msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}
	var filter models.SettlementStatus
	if req.Msg.Status != "" {
		status, err := models.ParseSettlementStatus(req.Msg.Status)
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		filter = status
	}

	recorded, err := s.store.ListSettlementsByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListSettlements failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	settlements := make([]*models.Settlement, 0, len(recorded))
	for _, st := range recorded {
		if filter == "" || st.Status == filter {
			settlements = append(settlements, st)
		}
	}

	return connect.NewResponse(&ListSettlementsResponse{Settlements: settlements}), nil
}

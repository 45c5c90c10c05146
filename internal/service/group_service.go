package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/settle/internal/cache"
	"github.com/mmynk/settle/internal/calculator"
	"github.com/mmynk/settle/internal/models"
	"github.com/mmynk/settle/internal/storage"
)

// GroupService implements the Connect GroupService: groups, their rosters,
// their expenses and the resulting balances.
type GroupService struct {
	store storage.Store
	plans cache.PlanCache
}

// NewGroupService creates a new GroupService. plans may be nil.
func NewGroupService(store storage.Store, plans cache.PlanCache) *GroupService {
	return &GroupService{store: store, plans: plans}
}

// CreateGroup creates a new group with an initial roster.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("group name is required")
	}

	group := &models.Group{
		Name:     name,
		Members:  make([]models.Member, 0, len(req.Msg.Members)),
		Expenses: []models.Expense{},
	}
	seen := make(map[string]bool, len(req.Msg.Members))
	for _, m := range req.Msg.Members {
		if strings.TrimSpace(m.Name) == "" {
			return nil, invalidArgument("member name is required")
		}
		if m.ID != "" {
			if seen[m.ID] {
				return nil, invalidArgument("duplicate member id %q", m.ID)
			}
			seen[m.ID] = true
		}
		group.Members = append(group.Members, m.model())
	}

	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group created", "group_id", group.ID)

	return connect.NewResponse(&CreateGroupResponse{Group: group}), nil
}

// GetGroup returns a full group snapshot.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	if req.Msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("GetGroup successful", "group_id", group.ID, "name", group.Name)

	return connect.NewResponse(&GetGroupResponse{Group: group}), nil
}

// ListGroups returns every group without its expenses.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	slog.Info("ListGroups request received")

	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}
	if groups == nil {
		groups = []*models.Group{}
	}

	slog.Info("ListGroups successful", "count", len(groups))

	return connect.NewResponse(&ListGroupsResponse{Groups: groups}), nil
}

// DeleteGroup removes a group with its expenses and settlements.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if req.Msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}

	if err := s.store.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		slog.Error("DeleteGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}
	invalidatePlan(ctx, s.plans, req.Msg.GroupID)

	slog.Info("Group deleted", "group_id", req.Msg.GroupID)

	return connect.NewResponse(&DeleteGroupResponse{}), nil
}

// AddMember appends a member to a group's roster.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error) {
	slog.Info("AddMember request received", "group_id", req.Msg.GroupID, "name", req.Msg.Member.Name)

	if req.Msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}
	if strings.TrimSpace(req.Msg.Member.Name) == "" {
		return nil, invalidArgument("member name is required")
	}

	member := req.Msg.Member.model()
	if err := s.store.AddMember(ctx, req.Msg.GroupID, &member); err != nil {
		slog.Error("AddMember failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}
	invalidatePlan(ctx, s.plans, req.Msg.GroupID)

	slog.Info("Member added", "group_id", req.Msg.GroupID, "member_id", member.ID)

	return connect.NewResponse(&AddMemberResponse{Member: member}), nil
}

// UpdateMember edits a member's display attributes.
func (s *GroupService) UpdateMember(ctx context.Context, req *connect.Request[UpdateMemberRequest]) (*connect.Response[UpdateMemberResponse], error) {
	slog.Info("UpdateMember request received", "group_id", req.Msg.GroupID, "member_id", req.Msg.Member.ID)

	if req.Msg.GroupID == "" || req.Msg.Member.ID == "" {
		return nil, invalidArgument("group_id and member id required")
	}
	if strings.TrimSpace(req.Msg.Member.Name) == "" {
		return nil, invalidArgument("member name is required")
	}

	member := req.Msg.Member.model()
	if err := s.store.UpdateMember(ctx, req.Msg.GroupID, &member); err != nil {
		slog.Error("UpdateMember failed", "group_id", req.Msg.GroupID, "member_id", member.ID, "error", err)
		return nil, toConnectError(err)
	}
	invalidatePlan(ctx, s.plans, req.Msg.GroupID)

	return connect.NewResponse(&UpdateMemberResponse{Member: member}), nil
}

// RemoveMember takes a member off the roster. A member who still owes or is
// owed money, or who is a party to a pending settlement, cannot be removed.
// Expenses that reference the member keep counting towards balances.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[RemoveMemberRequest]) (*connect.Response[RemoveMemberResponse], error) {
	slog.Info("RemoveMember request received", "group_id", req.Msg.GroupID, "member_id", req.Msg.MemberID)

	if req.Msg.GroupID == "" || req.Msg.MemberID == "" {
		return nil, invalidArgument("group_id and member_id required")
	}

	snap, err := loadSnapshot(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	busy, err := snap.outstanding(req.Msg.MemberID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if busy {
		slog.Warn("RemoveMember refused - member not settled up", "group_id", req.Msg.GroupID, "member_id", req.Msg.MemberID)
		return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("member %q is not settled up", req.Msg.MemberID))
	}

	if err := s.store.RemoveMember(ctx, req.Msg.GroupID, req.Msg.MemberID); err != nil {
		slog.Error("RemoveMember failed", "group_id", req.Msg.GroupID, "member_id", req.Msg.MemberID, "error", err)
		return nil, toConnectError(err)
	}
	invalidatePlan(ctx, s.plans, req.Msg.GroupID)

	slog.Info("Member removed", "group_id", req.Msg.GroupID, "member_id", req.Msg.MemberID)

	return connect.NewResponse(&RemoveMemberResponse{}), nil
}

// AddExpense logs an expense whose shares are built from the request's split.
// An equal split with no member IDs is divided across the whole roster.
func (s *GroupService) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error) {
	msg := req.Msg
	slog.Info("AddExpense request received",
		"group_id", msg.GroupID,
		"title", msg.Title,
		"amount", msg.Amount,
		"payer_id", msg.PayerID,
		"split_type", msg.Split.Type,
	)

	if msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}
	title := strings.TrimSpace(msg.Title)
	if title == "" {
		return nil, invalidArgument("title is required")
	}

	amount, err := calculator.ParseAmount(msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}

	group, err := s.store.GetGroup(ctx, msg.GroupID)
	if err != nil {
		slog.Error("AddExpense failed - group not found", "group_id", msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}
	if !group.HasMember(msg.PayerID) {
		return nil, invalidArgument("payer %q is not a member of the group", msg.PayerID)
	}

	split := msg.Split
	split.Amount = amount
	if (split.Type == calculator.SplitEqual || split.Type == "") && len(split.MemberIDs) == 0 {
		split.MemberIDs = group.MemberIDs()
	}
	shares, err := calculator.BuildShares(split)
	if err != nil {
		return nil, toConnectError(err)
	}
	for _, share := range shares {
		if !group.HasMember(share.MemberID) {
			return nil, invalidArgument("share member %q is not a member of the group", share.MemberID)
		}
	}

	expense := &models.Expense{
		GroupID:  msg.GroupID,
		Title:    title,
		Amount:   amount,
		PayerID:  msg.PayerID,
		Date:     msg.Date,
		Category: models.ParseCategory(msg.Category),
		Notes:    msg.Notes,
		Shares:   shares,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("AddExpense failed", "group_id", msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}
	invalidatePlan(ctx, s.plans, msg.GroupID)

	slog.Info("Expense added", "group_id", msg.GroupID, "expense_id", expense.ID)

	warnings := shareWarnings(models.Group{ID: msg.GroupID, Expenses: []models.Expense{*expense}})
	return connect.NewResponse(&AddExpenseResponse{Expense: *expense, Warnings: warnings}), nil
}

// DeleteExpense removes an expense from a group.
func (s *GroupService) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "group_id", req.Msg.GroupID, "expense_id", req.Msg.ExpenseID)

	if req.Msg.GroupID == "" || req.Msg.ExpenseID == "" {
		return nil, invalidArgument("group_id and expense_id required")
	}

	if err := s.store.DeleteExpense(ctx, req.Msg.GroupID, req.Msg.ExpenseID); err != nil {
		slog.Error("DeleteExpense failed", "group_id", req.Msg.GroupID, "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}
	invalidatePlan(ctx, s.plans, req.Msg.GroupID)

	slog.Info("Expense deleted", "group_id", req.Msg.GroupID, "expense_id", req.Msg.ExpenseID)

	return connect.NewResponse(&DeleteExpenseResponse{}), nil
}

// GetBalances reports every member's net balance. Completed settlements are
// counted as payments from debtor to creditor.
func (s *GroupService) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("GetBalances request received", "group_id", groupID)

	if groupID == "" {
		return nil, invalidArgument("group_id required")
	}

	snap, err := loadSnapshot(ctx, s.store, groupID)
	if err != nil {
		slog.Error("GetBalances failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}
	snapshot := snap.effective

	summary, err := calculator.Summarize(snapshot)
	if err != nil {
		slog.Error("GetBalances failed - invalid group data", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}
	balances, err := calculator.ComputeBalances(snapshot)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("GetBalances successful", "group_id", groupID, "members", len(summary))

	return connect.NewResponse(&GetBalancesResponse{
		Balances: summary,
		Settled:  balances.Settled(calculator.Epsilon),
		Warnings: shareWarnings(snapshot),
	}), nil
}

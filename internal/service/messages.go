package service

import (
	"github.com/mmynk/settle/internal/calculator"
	"github.com/mmynk/settle/internal/models"
)

// MemberInput describes a member to add or edit. ID is optional when adding.
type MemberInput struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name"`
	Phone          string `json:"phone,omitempty"`
	PaymentAddress string `json:"paymentAddress,omitempty"`
}

func (m MemberInput) model() models.Member {
	return models.Member{
		ID:             m.ID,
		Name:           m.Name,
		Phone:          m.Phone,
		PaymentAddress: m.PaymentAddress,
	}
}

// Warning flags an expense whose shares do not add up to its amount.
// Balances are still computed from the literal shares.
type Warning struct {
	ExpenseID   string `json:"expenseId"`
	Amount      string `json:"amount"`
	SharesTotal string `json:"sharesTotal"`
	Message     string `json:"message"`
}

type CreateGroupRequest struct {
	Name    string        `json:"name"`
	Members []MemberInput `json:"members"`
}

type CreateGroupResponse struct {
	Group *models.Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group *models.Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*models.Group `json:"groups"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"groupId"`
}

type DeleteGroupResponse struct{}

type AddMemberRequest struct {
	GroupID string      `json:"groupId"`
	Member  MemberInput `json:"member"`
}

type AddMemberResponse struct {
	Member models.Member `json:"member"`
}

type UpdateMemberRequest struct {
	GroupID string      `json:"groupId"`
	Member  MemberInput `json:"member"`
}

type UpdateMemberResponse struct {
	Member models.Member `json:"member"`
}

type RemoveMemberRequest struct {
	GroupID  string `json:"groupId"`
	MemberID string `json:"memberId"`
}

type RemoveMemberResponse struct{}

// AddExpenseRequest logs an expense. Amount is a decimal string. The shares
// are built from Split; Split.Amount is ignored in favor of Amount.
type AddExpenseRequest struct {
	GroupID  string                  `json:"groupId"`
	Title    string                  `json:"title"`
	Amount   string                  `json:"amount"`
	PayerID  string                  `json:"payerId"`
	Date     int64                   `json:"date,omitempty"`
	Category string                  `json:"category,omitempty"`
	Notes    string                  `json:"notes,omitempty"`
	Split    calculator.SplitRequest `json:"split"`
}

type AddExpenseResponse struct {
	Expense  models.Expense `json:"expense"`
	Warnings []Warning      `json:"warnings,omitempty"`
}

type DeleteExpenseRequest struct {
	GroupID   string `json:"groupId"`
	ExpenseID string `json:"expenseId"`
}

type DeleteExpenseResponse struct{}

type GetBalancesRequest struct {
	GroupID string `json:"groupId"`
}

type GetBalancesResponse struct {
	Balances []calculator.MemberBalance `json:"balances"`
	Settled  bool                       `json:"settled"`
	Warnings []Warning                  `json:"warnings,omitempty"`
}

type ComputeSettlementsRequest struct {
	GroupID string `json:"groupId"`
}

type ComputeSettlementsResponse struct {
	Settlements []models.Settlement `json:"settlements"`
	Warnings    []Warning           `json:"warnings,omitempty"`
}

// RecordSettlementRequest records a transfer between two members. Passing
// the ID of a computed proposal records it under that ID.
type RecordSettlementRequest struct {
	GroupID      string `json:"groupId"`
	SettlementID string `json:"settlementId,omitempty"`
	FromMemberID string `json:"fromMemberId"`
	ToMemberID   string `json:"toMemberId"`
	Amount       string `json:"amount"`
	Note         string `json:"note,omitempty"`
}

type RecordSettlementResponse struct {
	Settlement *models.Settlement `json:"settlement"`
}

type UpdateSettlementStatusRequest struct {
	SettlementID string `json:"settlementId"`
	Status       string `json:"status"`
	ExternalRef  string `json:"externalRef,omitempty"`
}

type UpdateSettlementStatusResponse struct {
	Settlement *models.Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	GroupID string `json:"groupId"`
	// Status filters the result when set.
	Status string `json:"status,omitempty"`
}

type ListSettlementsResponse struct {
	Settlements []*models.Settlement `json:"settlements"`
}

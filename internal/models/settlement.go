package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidTransition is returned when a settlement status change is not allowed.
var ErrInvalidTransition = errors.New("invalid settlement status transition")

// SettlementStatus is the lifecycle state of a settlement.
type SettlementStatus string

const (
	StatusPending   SettlementStatus = "pending"
	StatusCompleted SettlementStatus = "completed"
	StatusFailed    SettlementStatus = "failed"
)

// ParseSettlementStatus validates a status string.
func ParseSettlementStatus(s string) (SettlementStatus, error) {
	switch st := SettlementStatus(s); st {
	case StatusPending, StatusCompleted, StatusFailed:
		return st, nil
	default:
		return "", fmt.Errorf("unknown settlement status %q", s)
	}
}

// IsTerminal reports whether no further transitions are possible.
func (s SettlementStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo reports whether s may move to next.
// Only pending -> completed and pending -> failed are allowed.
func (s SettlementStatus) CanTransitionTo(next SettlementStatus) bool {
	return s == StatusPending && next.IsTerminal()
}

// Settlement is a transfer of Amount from FromMemberID to ToMemberID.
//
// The debt simplifier produces settlements with StatusPending and no
// timestamps; the recording layer assigns CreatedAt/UpdatedAt and owns
// status changes.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// GroupID is the group this settlement belongs to.
	GroupID string `json:"groupId,omitempty"`

	// FromMemberID is the debtor who pays.
	FromMemberID string `json:"fromMemberId"`

	// ToMemberID is the creditor who receives.
	ToMemberID string `json:"toMemberId"`

	// Amount is always positive.
	Amount decimal.Decimal `json:"amount"`

	Status SettlementStatus `json:"status"`

	// ExternalRef is an optional payment-provider transaction reference.
	ExternalRef string `json:"externalRef,omitempty"`

	// Note is an optional description for the settlement.
	Note string `json:"note,omitempty"`

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64 `json:"createdAt,omitempty"`

	// UpdatedAt is the Unix timestamp of the last status change.
	UpdatedAt int64 `json:"updatedAt,omitempty"`
}

// Transition moves the settlement to next, or returns ErrInvalidTransition.
func (s *Settlement) Transition(next SettlementStatus) error {
	if !s.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, next)
	}
	s.Status = next
	return nil
}

// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/settle/internal/models"
)

var (
	// ErrNotFound is wrapped by every lookup that finds no row.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is wrapped when a create reuses an existing ID.
	ErrAlreadyExists = errors.New("already exists")
)

// Store defines the persistence operations for groups, their members and
// expenses, and recorded settlements.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateGroup persists a new group with its initial members.
	// Empty group and member IDs are generated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup returns a full snapshot: members in roster order and every
	// expense with its shares.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups returns all groups without expenses.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// DeleteGroup removes a group and everything that belongs to it.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddMember appends a member to the group's roster.
	AddMember(ctx context.Context, groupID string, member *models.Member) error

	// UpdateMember changes a member's display attributes. The ID is immutable.
	UpdateMember(ctx context.Context, groupID string, member *models.Member) error

	// RemoveMember takes a member off the roster. Expenses referencing the
	// member are kept.
	RemoveMember(ctx context.Context, groupID, memberID string) error

	// CreateExpense persists an expense and its shares.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense and its shares.
	DeleteExpense(ctx context.Context, groupID, expenseID string) error

	// CreateSettlement records a settlement. An existing ID is kept so that
	// proposals can be recorded under the ID they were issued with.
	// Returns an error wrapping ErrAlreadyExists if the ID is taken.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// GetSettlement retrieves a settlement by its ID.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlementsByGroup returns a group's settlements, newest first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// UpdateSettlementStatus moves a settlement to a terminal status.
	// Returns an error wrapping models.ErrInvalidTransition when not allowed.
	UpdateSettlementStatus(ctx context.Context, settlementID string, status models.SettlementStatus, externalRef string) (*models.Settlement, error)

	// Close releases any resources held by the store.
	Close() error
}

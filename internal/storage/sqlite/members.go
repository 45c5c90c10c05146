package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/settle/internal/models"
)

// AddMember appends a member to the end of the group's roster.
func (s *SQLiteStore) AddMember(ctx context.Context, groupID string, member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := groupExists(ctx, tx, groupID); err != nil {
		return err
	}

	var next int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position) + 1, 0) FROM members WHERE group_id = ?",
		groupID,
	).Scan(&next)
	if err != nil {
		return fmt.Errorf("failed to get roster position: %w", err)
	}

	if err := insertMember(ctx, tx, groupID, member, next); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateMember changes a member's name, phone and payment address.
func (s *SQLiteStore) UpdateMember(ctx context.Context, groupID string, member *models.Member) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE members SET name = ?, phone = ?, payment_address = ? WHERE group_id = ? AND id = ?",
		member.Name, nullable(member.Phone), nullable(member.PaymentAddress), groupID, member.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	return expectAffected(res, "member", member.ID)
}

// RemoveMember deletes a member from the roster.
func (s *SQLiteStore) RemoveMember(ctx context.Context, groupID, memberID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM members WHERE group_id = ? AND id = ?",
		groupID, memberID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return expectAffected(res, "member", memberID)
}

func insertMember(ctx context.Context, tx *sql.Tx, groupID string, m *models.Member, position int) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO members (id, group_id, name, phone, payment_address, position) VALUES (?, ?, ?, ?, ?, ?)",
		m.ID, groupID, m.Name, nullable(m.Phone), nullable(m.PaymentAddress), position,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

func (s *SQLiteStore) listMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, phone, payment_address FROM members WHERE group_id = ? ORDER BY position",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		var phone, address sql.NullString
		if err := rows.Scan(&m.ID, &m.Name, &phone, &address); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.Phone = phone.String
		m.PaymentAddress = address.String
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// nullable stores empty optional strings as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

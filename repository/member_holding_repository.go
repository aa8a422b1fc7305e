package repository

import (
	"context"
	"fmt"
	"time"

	"bondpay/database"
	"bondpay/models"
)

// MemberHoldingRepository implements the MemberHoldingRepository interface
type MemberHoldingRepository struct {
	q Queryable
}

// NewMemberHoldingRepository creates a new member holding repository
func NewMemberHoldingRepository(db *database.DB) *MemberHoldingRepository {
	return &MemberHoldingRepository{q: db.Pool}
}

// newMemberHoldingRepositoryWithTx creates a new member holding repository with a transaction
func newMemberHoldingRepositoryWithTx(tx Queryable) *MemberHoldingRepository {
	return &MemberHoldingRepository{q: tx}
}

// Upsert creates or replaces one member's snapshot for a bond and date
func (r *MemberHoldingRepository) Upsert(ctx context.Context, holding *models.MemberHolding) error {
	// Snapshots are keyed by (member, bond, date); re-uploading a date
	// replaces the earlier figures
	query := `
		INSERT INTO member_holdings (member_id, bond_id, as_of_date, shares, face_value)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (member_id, bond_id, as_of_date)
		DO UPDATE SET shares = EXCLUDED.shares, face_value = EXCLUDED.face_value
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		holding.MemberID,
		holding.BondID,
		holding.AsOfDate,
		holding.Shares,
		holding.FaceValue,
	).Scan(&holding.ID, &holding.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert holding for member %d bond %d: %w",
			holding.MemberID, holding.BondID, err)
	}

	return nil
}

// GetByBondAsOf returns, per member, the newest snapshot at or before asOf
// for the bond. Members whose latest snapshot has zero shares are excluded.
func (r *MemberHoldingRepository) GetByBondAsOf(ctx context.Context, bondID int64, asOf time.Time) ([]*models.MemberHolding, error) {
	query := `
		SELECT id, member_id, bond_id, as_of_date, shares, face_value, created_at
		FROM (
			SELECT DISTINCT ON (member_id)
				id, member_id, bond_id, as_of_date, shares, face_value, created_at
			FROM member_holdings
			WHERE bond_id = $1 AND as_of_date <= $2
			ORDER BY member_id, as_of_date DESC
		) latest
		WHERE shares > 0
		ORDER BY member_id
	`

	rows, err := r.q.Query(ctx, query, bondID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings for bond %d: %w", bondID, err)
	}
	defer rows.Close()

	var holdings []*models.MemberHolding
	for rows.Next() {
		var h models.MemberHolding
		err := rows.Scan(
			&h.ID,
			&h.MemberID,
			&h.BondID,
			&h.AsOfDate,
			&h.Shares,
			&h.FaceValue,
			&h.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, &h)
	}

	return holdings, rows.Err()
}

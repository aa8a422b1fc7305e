package repository

import (
	"context"
	"fmt"

	"bondpay/database"
	"bondpay/models"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PaymentEventRepository implements the PaymentEventRepository interface
type PaymentEventRepository struct {
	q Queryable
}

// NewPaymentEventRepository creates a new payment event repository
func NewPaymentEventRepository(db *database.DB) *PaymentEventRepository {
	return &PaymentEventRepository{q: db.Pool}
}

// newPaymentEventRepositoryWithTx creates a new payment event repository with a transaction
func newPaymentEventRepositoryWithTx(tx Queryable) *PaymentEventRepository {
	return &PaymentEventRepository{q: tx}
}

const paymentEventColumns = `
	id, bond_id, event_type, payment_date, calculation_period,
	base_rate, withholding_tax_rate, boz_fee_rate, coop_fee_rate,
	boz_award_amount, expected_total_net_maturity, expected_total_net_coupon,
	created_at, updated_at
`

func scanPaymentEvent(row pgx.Row) (*models.PaymentEvent, error) {
	var event models.PaymentEvent
	err := row.Scan(
		&event.ID,
		&event.BondID,
		&event.EventType,
		&event.PaymentDate,
		&event.CalculationPeriod,
		&event.BaseRate,
		&event.WithholdingTaxRate,
		&event.BOZFeeRate,
		&event.CoopFeeRate,
		&event.BOZAwardAmount,
		&event.ExpectedTotalNetMaturity,
		&event.ExpectedTotalNetCoupon,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Create creates a new payment event. The rate fields must already be the
// point-in-time copy taken from the bond issue.
func (r *PaymentEventRepository) Create(ctx context.Context, event *models.PaymentEvent) error {
	query := `
		INSERT INTO payment_events
		(bond_id, event_type, payment_date, calculation_period,
		 base_rate, withholding_tax_rate, boz_fee_rate, coop_fee_rate,
		 boz_award_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		event.BondID,
		event.EventType,
		event.PaymentDate,
		event.CalculationPeriod,
		event.BaseRate,
		event.WithholdingTaxRate,
		event.BOZFeeRate,
		event.CoopFeeRate,
		event.BOZAwardAmount,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create payment event for bond %d: %w", event.BondID, err)
	}

	return nil
}

// GetByID retrieves a payment event by its ID
func (r *PaymentEventRepository) GetByID(ctx context.Context, id int64) (*models.PaymentEvent, error) {
	query := `SELECT ` + paymentEventColumns + ` FROM payment_events WHERE id = $1`

	event, err := scanPaymentEvent(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment event %d: %w", id, err)
	}

	return event, nil
}

// GetByIDForUpdate retrieves a payment event with a FOR UPDATE row lock.
// Concurrent generate/recalculate calls for the same event queue up here;
// calls for different events never block each other.
func (r *PaymentEventRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.PaymentEvent, error) {
	query := `SELECT ` + paymentEventColumns + ` FROM payment_events WHERE id = $1 FOR UPDATE`

	event, err := scanPaymentEvent(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock payment event %d: %w", id, err)
	}

	return event, nil
}

// GetAll returns all payment events ordered by payment date
func (r *PaymentEventRepository) GetAll(ctx context.Context) ([]*models.PaymentEvent, error) {
	query := `SELECT ` + paymentEventColumns + ` FROM payment_events ORDER BY payment_date, id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment events: %w", err)
	}
	defer rows.Close()

	var events []*models.PaymentEvent
	for rows.Next() {
		event, err := scanPaymentEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment event: %w", err)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// GetIDsWithRecords returns the ids of events that have generated records
func (r *PaymentEventRepository) GetIDsWithRecords(ctx context.Context) ([]int64, error) {
	query := `
		SELECT DISTINCT e.id
		FROM payment_events e
		JOIN member_payment_records mpr ON mpr.payment_event_id = e.id
		ORDER BY e.id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query events with records: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan event id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// UpdateExpectedTotals sets the statement-supplied expected totals on an
// event. Returns ErrNoRows semantics via a zero rows-affected check.
func (r *PaymentEventRepository) UpdateExpectedTotals(ctx context.Context, id int64, netMaturity, netCoupon decimal.Decimal) error {
	query := `
		UPDATE payment_events
		SET expected_total_net_maturity = $2,
		    expected_total_net_coupon = $3,
		    updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, id, netMaturity, netCoupon)
	if err != nil {
		return fmt.Errorf("failed to update expected totals for event %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

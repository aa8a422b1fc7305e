package repository

import (
	"context"
	"fmt"

	"bondpay/database"
	"bondpay/models"
	"github.com/jackc/pgx/v5"
)

// BondIssueRepository implements the BondIssueRepository interface
type BondIssueRepository struct {
	q Queryable
}

// NewBondIssueRepository creates a new bond issue repository
func NewBondIssueRepository(db *database.DB) *BondIssueRepository {
	return &BondIssueRepository{q: db.Pool}
}

// newBondIssueRepositoryWithTx creates a new bond issue repository with a transaction
func newBondIssueRepositoryWithTx(tx Queryable) *BondIssueRepository {
	return &BondIssueRepository{q: tx}
}

const bondIssueColumns = `
	id, name, coupon_rate, discount_rate, withholding_tax_rate,
	boz_fee_rate, coop_fee_rate, issue_date, maturity_date,
	created_at, updated_at
`

func scanBondIssue(row pgx.Row) (*models.BondIssue, error) {
	var issue models.BondIssue
	err := row.Scan(
		&issue.ID,
		&issue.Name,
		&issue.CouponRate,
		&issue.DiscountRate,
		&issue.WithholdingTaxRate,
		&issue.BOZFeeRate,
		&issue.CoopFeeRate,
		&issue.IssueDate,
		&issue.MaturityDate,
		&issue.CreatedAt,
		&issue.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

// GetByID retrieves a bond issue by its ID
func (r *BondIssueRepository) GetByID(ctx context.Context, id int64) (*models.BondIssue, error) {
	query := `SELECT ` + bondIssueColumns + ` FROM bond_issues WHERE id = $1`

	issue, err := scanBondIssue(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bond issue %d: %w", id, err)
	}

	return issue, nil
}

// Create creates a new bond issue
func (r *BondIssueRepository) Create(ctx context.Context, issue *models.BondIssue) error {
	query := `
		INSERT INTO bond_issues
		(name, coupon_rate, discount_rate, withholding_tax_rate,
		 boz_fee_rate, coop_fee_rate, issue_date, maturity_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		issue.Name,
		issue.CouponRate,
		issue.DiscountRate,
		issue.WithholdingTaxRate,
		issue.BOZFeeRate,
		issue.CoopFeeRate,
		issue.IssueDate,
		issue.MaturityDate,
	).Scan(&issue.ID, &issue.CreatedAt, &issue.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create bond issue %q: %w", issue.Name, err)
	}

	return nil
}

// GetAll returns all bond issues ordered by issue date
func (r *BondIssueRepository) GetAll(ctx context.Context) ([]*models.BondIssue, error) {
	query := `SELECT ` + bondIssueColumns + ` FROM bond_issues ORDER BY issue_date, id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query bond issues: %w", err)
	}
	defer rows.Close()

	var issues []*models.BondIssue
	for rows.Next() {
		issue, err := scanBondIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bond issue: %w", err)
		}
		issues = append(issues, issue)
	}

	return issues, rows.Err()
}

package repository

import (
	"context"
	"testing"
	"time"

	"bondpay/models"
	"bondpay/repository/testutil"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentEventRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	bondRepo := NewBondIssueRepository(testDB.DB)
	repo := NewPaymentEventRepository(testDB.DB)
	ctx := context.Background()

	bond := testutil.CreateTestBondIssue("GRZ 2025")
	require.NoError(t, bondRepo.Create(ctx, bond))

	t.Run("event not found", func(t *testing.T) {
		event, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, event)
	})

	t.Run("round trip", func(t *testing.T) {
		paymentDate := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
		event := testutil.CreateTestMaturityEvent(bond, paymentDate, "100000.00")
		require.NoError(t, repo.Create(ctx, event))
		assert.NotZero(t, event.ID)

		got, err := repo.GetByID(ctx, event.ID)
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, bond.ID, got.BondID)
		assert.Equal(t, models.EventTypeMaturity, got.EventType)
		assert.True(t, got.PaymentDate.Equal(paymentDate))
		assert.True(t, got.BaseRate.Equal(bond.CouponRate), "got %s", got.BaseRate)
		assert.True(t, got.BOZAwardAmount.Equal(decimal.RequireFromString("100000.00")))

		// Expected totals start null until a statement is uploaded
		assert.False(t, got.ExpectedTotalNetMaturity.Valid)
		assert.False(t, got.ExpectedTotalNetCoupon.Valid)
	})
}

func TestPaymentEventRepository_UpdateExpectedTotals(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	bondRepo := NewBondIssueRepository(testDB.DB)
	repo := NewPaymentEventRepository(testDB.DB)
	ctx := context.Background()

	bond := testutil.CreateTestBondIssue("GRZ 2025")
	require.NoError(t, bondRepo.Create(ctx, bond))

	event := testutil.CreateTestCouponEvent(bond, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, event))

	t.Run("sets both totals", func(t *testing.T) {
		err := repo.UpdateExpectedTotals(ctx, event.ID,
			decimal.RequireFromString("0.00"), decimal.RequireFromString("410.00"))
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, event.ID)
		require.NoError(t, err)
		require.True(t, got.ExpectedTotalNetCoupon.Valid)
		assert.True(t, got.ExpectedTotalNetCoupon.Decimal.Equal(decimal.RequireFromString("410.00")),
			"got %s", got.ExpectedTotalNetCoupon.Decimal)
		require.True(t, got.ExpectedTotalNetMaturity.Valid)
		assert.True(t, got.ExpectedTotalNetMaturity.Decimal.IsZero())
	})

	t.Run("unknown event", func(t *testing.T) {
		err := repo.UpdateExpectedTotals(ctx, 999999, decimal.Zero, decimal.Zero)
		assert.ErrorIs(t, err, pgx.ErrNoRows)
	})
}

func TestPaymentEventRepository_GetByIDForUpdate(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	bondRepo := NewBondIssueRepository(testDB.DB)
	repo := NewPaymentEventRepository(testDB.DB)
	ctx := context.Background()

	bond := testutil.CreateTestBondIssue("GRZ 2025")
	require.NoError(t, bondRepo.Create(ctx, bond))

	event := testutil.CreateTestCouponEvent(bond, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, event))

	// The row lock requires a transaction
	err := testDB.DB.WithTransaction(ctx, func(tx pgx.Tx) error {
		txRepo := newPaymentEventRepositoryWithTx(tx)

		locked, err := txRepo.GetByIDForUpdate(ctx, event.ID)
		require.NoError(t, err)
		require.NotNil(t, locked)
		assert.Equal(t, event.ID, locked.ID)

		missing, err := txRepo.GetByIDForUpdate(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, missing)

		return nil
	})
	require.NoError(t, err)
}

func TestPaymentEventRepository_GetIDsWithRecords(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	bondRepo := NewBondIssueRepository(testDB.DB)
	repo := NewPaymentEventRepository(testDB.DB)
	recordRepo := NewMemberPaymentRecordRepository(testDB.DB)
	ctx := context.Background()

	bond := testutil.CreateTestBondIssue("GRZ 2025")
	require.NoError(t, bondRepo.Create(ctx, bond))

	withRecords := testutil.CreateTestCouponEvent(bond, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, withRecords))

	withoutRecords := testutil.CreateTestCouponEvent(bond, time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, withoutRecords))

	records := []*models.MemberPaymentRecord{
		testutil.CreateTestPaymentRecord(withRecords.ID, 1, "6000", "6000.00", "0.6"),
		testutil.CreateTestPaymentRecord(withRecords.ID, 2, "4000", "4000.00", "0.4"),
	}
	require.NoError(t, recordRepo.CreateBatch(ctx, records))

	ids, err := repo.GetIDsWithRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{withRecords.ID}, ids)
}

func TestPaymentEventRepository_GetAll(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	bondRepo := NewBondIssueRepository(testDB.DB)
	repo := NewPaymentEventRepository(testDB.DB)
	ctx := context.Background()

	bond := testutil.CreateTestBondIssue("GRZ 2025")
	require.NoError(t, bondRepo.Create(ctx, bond))

	later := testutil.CreateTestCouponEvent(bond, time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, later))
	earlier := testutil.CreateTestCouponEvent(bond, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, earlier))

	events, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Ordered by payment date
	assert.Equal(t, earlier.ID, events[0].ID)
	assert.Equal(t, later.ID, events[1].ID)
}

package service_test

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"bondpay/events"
	"bondpay/repository"
	"bondpay/repository/testutil"
	"bondpay/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPaymentLifecycle exercises the whole flow against a real database:
// holdings upload, preview, generate, statement import, audit, recalculate.
func TestPaymentLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	t.Parallel()

	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bondRepo := repository.NewBondIssueRepository(testDB.DB)
	holdingRepo := repository.NewMemberHoldingRepository(testDB.DB)
	eventRepo := repository.NewPaymentEventRepository(testDB.DB)

	uowFactory := repository.NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	payments := service.NewPaymentService(uowFactory)
	audit := service.NewAuditService(uowFactory, decimal.New(1, -2))
	statements := service.NewStatementService(uowFactory)

	bond := testutil.CreateTestBondIssue("GRZ 2025")
	require.NoError(t, bondRepo.Create(ctx, bond))

	asOf := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, holdingRepo.Upsert(ctx, testutil.CreateTestHolding(1, bond.ID, asOf, "6000", "6000.00")))
	require.NoError(t, holdingRepo.Upsert(ctx, testutil.CreateTestHolding(2, bond.ID, asOf, "4000", "4000.00")))

	event := testutil.CreateTestCouponEvent(bond, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, eventRepo.Create(ctx, event))

	// Preview persists nothing
	preview, err := payments.Preview(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, preview.Records, 2)
	assert.Equal(t, "410.00", preview.TotalNetCoupon.StringFixed(2))

	recordRepo := repository.NewMemberPaymentRecordRepository(testDB.DB)
	count, err := recordRepo.CountByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// Generate persists one record per member and matches the preview
	generated, err := payments.Generate(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, generated)

	totals, err := recordRepo.SumNetByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "410.00", totals.NetCoupon.StringFixed(2))

	// A second generate refuses to overwrite
	_, err = payments.Generate(ctx, event.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyGenerated)

	// The statement import sets the expected totals the audit reads
	csv := "event_id,expected_total_net_maturity,expected_total_net_coupon\n" +
		strings.Join([]string{strconv.FormatInt(event.ID, 10), "0.00", "410.00"}, ",") + "\n"
	imported, err := statements.ImportExpectedTotals(ctx, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, imported.RowsApplied)
	assert.Empty(t, imported.Errors)

	report, err := audit.Audit(ctx, nil)
	require.NoError(t, err)
	require.Len(t, report.PerEvent, 1)
	assert.False(t, report.PerEvent[0].HasDiscrepancy)
	assert.False(t, report.Summary.HasOverallDiscrepancy)

	// A holdings correction changes the split; recalculate replaces the rows
	require.NoError(t, holdingRepo.Upsert(ctx, testutil.CreateTestHolding(2, bond.ID, asOf, "0", "0.00")))

	recalculated, err := payments.Recalculate(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, recalculated)

	records, err := recordRepo.GetByEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(1), records[0].MemberID)
	assert.Equal(t, "246.00", records[0].NetCouponPayment.StringFixed(2))

	// The stale expected total now shows up as a discrepancy
	report, err = audit.Audit(ctx, nil)
	require.NoError(t, err)
	require.Len(t, report.PerEvent, 1)
	assert.True(t, report.PerEvent[0].HasDiscrepancy)
	assert.Equal(t, "-164.00", report.PerEvent[0].CouponDifference.StringFixed(2))
}

// TestPaymentLifecycle_Maturity covers the maturity cascade end to end,
// including the exact-sum award split.
func TestPaymentLifecycle_Maturity(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	t.Parallel()

	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bondRepo := repository.NewBondIssueRepository(testDB.DB)
	holdingRepo := repository.NewMemberHoldingRepository(testDB.DB)
	eventRepo := repository.NewPaymentEventRepository(testDB.DB)
	recordRepo := repository.NewMemberPaymentRecordRepository(testDB.DB)

	uowFactory := repository.NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	payments := service.NewPaymentService(uowFactory)

	bond := testutil.CreateTestBondIssue("GRZ 2025")
	require.NoError(t, bondRepo.Create(ctx, bond))

	asOf := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, holdingRepo.Upsert(ctx, testutil.CreateTestHolding(1, bond.ID, asOf, "1", "100.00")))
	require.NoError(t, holdingRepo.Upsert(ctx, testutil.CreateTestHolding(2, bond.ID, asOf, "1", "100.00")))
	require.NoError(t, holdingRepo.Upsert(ctx, testutil.CreateTestHolding(3, bond.ID, asOf, "1", "100.00")))

	event := testutil.CreateTestMaturityEvent(bond, bond.MaturityDate, "100.00")
	require.NoError(t, eventRepo.Create(ctx, event))

	generated, err := payments.Generate(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, generated)

	records, err := recordRepo.GetByEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// The leftover cent lands on the lowest member id and the slices still
	// sum to the BOZ award exactly
	assert.Equal(t, "33.34", records[0].BOZAwardValue.StringFixed(2))
	assert.Equal(t, "33.33", records[1].BOZAwardValue.StringFixed(2))
	assert.Equal(t, "33.33", records[2].BOZAwardValue.StringFixed(2))

	awardSum := decimal.Zero
	for _, rec := range records {
		awardSum = awardSum.Add(rec.BOZAwardValue)
	}
	assert.Equal(t, "100.00", awardSum.StringFixed(2))

	// Recalculating with unchanged inputs reproduces the rows exactly
	recalculated, err := payments.Recalculate(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, recalculated)

	again, err := recordRepo.GetByEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, again, len(records))
	for i := range records {
		assert.Equal(t, records[i].MemberID, again[i].MemberID)
		assert.True(t, records[i].BOZAwardValue.Equal(again[i].BOZAwardValue))
		assert.True(t, records[i].NetTotal(event.EventType).Equal(again[i].NetTotal(event.EventType)))
	}
}

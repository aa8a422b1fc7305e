package service

import (
	"fmt"
	"sort"

	"bondpay/models"

	"github.com/shopspring/decimal"
)

// AllocateHoldings computes each member's proportional share of a bond from
// the holdings snapshot. When totalAward is positive (maturity events) each
// member also gets a slice of the award, with a largest-remainder
// distribution so the slices sum to totalAward exactly:
// every award is rounded down to 2 decimal places and the leftover goes to
// the member with the largest fractional remainder, ties broken by lowest
// member id.
//
// The computation is pure and deterministic: identical inputs always yield
// identical output.
func AllocateHoldings(holdings []*models.MemberHolding, totalAward decimal.Decimal) ([]*models.AllocationShare, error) {
	eligible := make([]*models.MemberHolding, 0, len(holdings))
	for _, h := range holdings {
		if h.Shares.IsPositive() {
			eligible = append(eligible, h)
		}
	}
	if len(eligible) == 0 {
		return nil, fmt.Errorf("%w: no members hold positive shares", ErrNoHoldings)
	}

	sort.Slice(eligible, func(i, j int) bool {
		return eligible[i].MemberID < eligible[j].MemberID
	})

	totalShares := decimal.Zero
	for _, h := range eligible {
		totalShares = totalShares.Add(h.Shares)
	}

	shares := make([]*models.AllocationShare, len(eligible))
	for i, h := range eligible {
		shares[i] = &models.AllocationShare{
			MemberID:        h.MemberID,
			Shares:          h.Shares,
			FaceValue:       h.FaceValue,
			PercentageShare: h.Shares.Div(totalShares),
		}
	}

	if totalAward.IsPositive() {
		distributeAward(shares, totalAward)
	}

	return shares, nil
}

// distributeAward splits totalAward across the shares proportionally,
// guaranteeing the rounded slices sum to totalAward exactly
func distributeAward(shares []*models.AllocationShare, totalAward decimal.Decimal) {
	flooredSum := decimal.Zero
	remainders := make([]decimal.Decimal, len(shares))

	for i, s := range shares {
		raw := totalAward.Mul(s.PercentageShare)
		floored := raw.RoundFloor(2)
		s.AwardValue = floored
		remainders[i] = raw.Sub(floored)
		flooredSum = flooredSum.Add(floored)
	}

	leftover := totalAward.Sub(flooredSum)
	if leftover.IsZero() {
		return
	}

	// Largest fractional remainder wins the leftover; shares are already
	// ordered by member id, so the first maximum is the lowest id
	best := 0
	for i := 1; i < len(shares); i++ {
		if remainders[i].GreaterThan(remainders[best]) {
			best = i
		}
	}
	shares[best].AwardValue = shares[best].AwardValue.Add(leftover)
}

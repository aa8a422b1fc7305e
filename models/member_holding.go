package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MemberHolding is a point-in-time snapshot of one member's position in a
// bond. Multiple snapshots may exist per member/bond across dates; readers
// always select the newest snapshot at or before the date they care about.
type MemberHolding struct {
	ID        int64           `db:"id"`
	MemberID  int64           `db:"member_id"`
	BondID    int64           `db:"bond_id"`
	AsOfDate  time.Time       `db:"as_of_date"`
	Shares    decimal.Decimal `db:"shares"`
	FaceValue decimal.Decimal `db:"face_value"`
	CreatedAt time.Time       `db:"created_at"`
}

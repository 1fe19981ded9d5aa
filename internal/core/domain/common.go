package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditFields holds standard audit information for administrator-edited entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     UserID    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy UserID    `json:"lastUpdatedBy"`
}

// MaxAmount is the upper bound of any single money movement.
var MaxAmount = decimal.NewFromInt(10000)

// AmountInRange reports whether 0 < amount <= MaxAmount.
func AmountInRange(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.LessThanOrEqual(MaxAmount)
}

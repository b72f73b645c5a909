package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusReceived   Status = "received"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusDelivered  Status = "delivered"
)

// RepairOrder — заказ-наряд. Total хранится как NUMERIC и читается
// в decimal, чтобы суммы сходились без дрейфа плавающей точки.
type RepairOrder struct {
	ID          int64
	VehicleID   int64
	Description string
	Total       decimal.Decimal
	Status      Status
	ReceivedAt  time.Time
	CreatedAt   time.Time
}

package payments

import (
	"time"

	"github.com/shopspring/decimal"
)

type Method string

const (
	MethodCash     Method = "cash"
	MethodCard     Method = "card"
	MethodTransfer Method = "transfer"
)

type Payment struct {
	ID        int64
	VehicleID int64
	OrderID   *int64 // необязательная привязка к заказ-наряду
	Amount    decimal.Decimal
	Method    Method
	PaidAt    time.Time
	CreatedAt time.Time
}

package stock

import "time"

type MoveType string

const (
	MoveIn  MoveType = "in"
	MoveOut MoveType = "out"
)

// Movement — событие движения детали по складу. Qty — знаковая дельта:
// delta < 0 — расход, delta > 0 — приход/возврат. Записи только добавляются.
type Movement struct {
	ID         int64
	PartID     int64
	Qty        int64
	Type       MoveType
	OrderID    *int64 // заказ-наряд, породивший расход (для трассировки)
	Note       string
	OccurredAt time.Time
}

package report

import (
	"context"
	"time"

	"github.com/Spok95/garage-crm/internal/domain/orders"
	"github.com/Spok95/garage-crm/internal/domain/parts"
	"github.com/Spok95/garage-crm/internal/domain/payments"
	"github.com/Spok95/garage-crm/internal/domain/stock"
	"github.com/Spok95/garage-crm/internal/domain/vehicles"
)

/* Контракты доступа к журналу событий. Репозитории доменных пакетов
   реализуют их напрямую; в тестах подставляются фейки. */

// PartSource отдаёт справочник деталей.
type PartSource interface {
	List(ctx context.Context, onlyActive bool) ([]parts.Part, error)
	ListByIDs(ctx context.Context, ids []int64) (map[int64]parts.Part, error)
}

// StockSource отдаёт живые остатки и движения. Батч-методы позволяют
// разделить одно окно выборки на N деталей одним запросом.
// Движения приходят по возрастанию (occurred_at, id); пустой журнал — не ошибка.
type StockSource interface {
	CurrentStockForParts(ctx context.Context, partIDs []int64) (map[int64]int64, error)
	EventsInRangeForParts(ctx context.Context, partIDs []int64, fromEx, toInc time.Time) (map[int64][]stock.Movement, error)
	EventsAfterForParts(ctx context.Context, partIDs []int64, after time.Time) (map[int64][]stock.Movement, error)
}

type VehicleSource interface {
	GetByID(ctx context.Context, id int64) (*vehicles.Vehicle, error)
	List(ctx context.Context) ([]vehicles.Vehicle, error)
}

type OrderSource interface {
	ListByVehicle(ctx context.Context, vehicleID int64) ([]orders.RepairOrder, error)
}

type PaymentSource interface {
	ListByVehicle(ctx context.Context, vehicleID int64) ([]payments.Payment, error)
}

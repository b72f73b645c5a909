package report

import (
	"github.com/Spok95/garage-crm/internal/domain/orders"
	"github.com/Spok95/garage-crm/internal/domain/payments"
	"github.com/Spok95/garage-crm/internal/domain/vehicles"
	"github.com/shopspring/decimal"
)

// VehicleDebt — сводка задолженности машины по всем заказ-нарядам.
// RemainingDebt может быть отрицательным (переплата) — не обрезаем.
type VehicleDebt struct {
	Vehicle  vehicles.Vehicle     `json:"vehicle"`
	Orders   []orders.RepairOrder `json:"orders"`
	Payments []payments.Payment   `json:"payments"`

	TotalDebt     decimal.Decimal `json:"total_debt"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	RemainingDebt decimal.Decimal `json:"remaining_debt"`
}

// aggregateDebt суммирует начисления и оплаты независимо друг от друга.
// Суммирование на decimal коммутативно: любой порядок даёт одинаковый итог.
func aggregateDebt(v vehicles.Vehicle, ords []orders.RepairOrder, pays []payments.Payment) *VehicleDebt {
	totalDebt := decimal.Zero
	for _, o := range ords {
		totalDebt = totalDebt.Add(o.Total)
	}
	totalPaid := decimal.Zero
	for _, p := range pays {
		totalPaid = totalPaid.Add(p.Amount)
	}

	return &VehicleDebt{
		Vehicle:       v,
		Orders:        ords,
		Payments:      pays,
		TotalDebt:     totalDebt,
		TotalPaid:     totalPaid,
		RemainingDebt: totalDebt.Sub(totalPaid),
	}
}

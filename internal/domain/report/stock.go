package report

import (
	"github.com/Spok95/garage-crm/internal/domain/parts"
	"github.com/Spok95/garage-crm/internal/domain/stock"
)

// StockPeriodResult — восстановленные остатки детали за период.
// Инвариант: EndStock == BeginStock + сумма дельт в (from, to].
type StockPeriodResult struct {
	PartID       int64      `json:"part_id"`
	PartName     string     `json:"part_name"`
	Unit         parts.Unit `json:"unit"`
	MinStock     int64      `json:"min_stock"`
	BeginStock   int64      `json:"begin_stock"`
	UsedDuring   int64      `json:"used_during_period"`
	EndStock     int64      `json:"end_stock"`
	CurrentStock int64      `json:"current_stock"`

	// IntegrityWarning: восстановление дало отрицательный исторический
	// остаток — журнал движений неполон. Значения не обрезаются.
	IntegrityWarning bool `json:"integrity_warning"`
}

// Reconcile восстанавливает begin/end/used из текущего остатка и журнала.
// Система видит только живой остаток, истории снимков нет, поэтому
// считаем назад: сначала откатываем всё, что случилось после конца
// периода, затем — дельты внутри периода.
//
//	endStock   = current - Σ(дельты после to)
//	beginStock = endStock - Σ(дельты в (from, to])
//	usedDuring = -Σ(отрицательные дельты в (from, to])
//
// В usedDuring входит только расход; приходы внутри периода двигают
// begin/end, но «использованием» не считаются. Результат зависит лишь от
// сумм, порядок событий с разными метками времени роли не играет.
func Reconcile(currentStock int64, during, after []stock.Movement) StockPeriodResult {
	var deltasAfter int64
	for _, m := range after {
		deltasAfter += m.Qty
	}
	end := currentStock - deltasAfter

	var deltasDuring, used int64
	for _, m := range during {
		deltasDuring += m.Qty
		if m.Qty < 0 {
			used += -m.Qty
		}
	}
	begin := end - deltasDuring

	return StockPeriodResult{
		BeginStock:       begin,
		UsedDuring:       used,
		EndStock:         end,
		CurrentStock:     currentStock,
		IntegrityWarning: begin < 0 || end < 0,
	}
}

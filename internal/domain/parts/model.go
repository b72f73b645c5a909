package parts

import "time"

type Unit string

const (
	UnitPcs Unit = "pcs"
	UnitL   Unit = "l"
	UnitKg  Unit = "kg"
)

type Part struct {
	ID        int64
	Name      string
	SKU       string
	Unit      Unit
	MinStock  int64 // порог для оповещений о низком остатке
	Active    bool
	CreatedAt time.Time
}

package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// delta > 0 => приход; delta < 0 => расход (может увести остаток в минус)
func (r *Repo) apply(ctx context.Context, partID int64, delta int64, mtype MoveType, orderID *int64, note string, at time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Обновляем остаток без проверок (разрешаем отрицательные значения)
	if _, err = tx.Exec(ctx, `
		INSERT INTO part_stock (part_id, qty)
		VALUES ($1,$2)
		ON CONFLICT (part_id)
		DO UPDATE SET qty = part_stock.qty + EXCLUDED.qty
	`, partID, delta); err != nil {
		return err
	}

	// Логируем движение
	if _, err = tx.Exec(ctx, `
		INSERT INTO stock_movements (part_id, qty, type, order_id, note, occurred_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, partID, delta, string(mtype), orderID, note, at); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *Repo) Receive(ctx context.Context, partID, qty int64, note string, at time.Time) error {
	if qty <= 0 {
		return fmt.Errorf("qty must be > 0")
	}
	return r.apply(ctx, partID, qty, MoveIn, nil, note, at)
}

func (r *Repo) Consume(ctx context.Context, partID, qty int64, orderID *int64, note string, at time.Time) error {
	if qty <= 0 {
		return fmt.Errorf("qty must be > 0")
	}
	// Списание без проверок — может увести остаток в минус
	return r.apply(ctx, partID, -qty, MoveOut, orderID, note, at)
}

// CurrentStock возвращает живой остаток детали (0, nil если записи нет).
func (r *Repo) CurrentStock(ctx context.Context, partID int64) (int64, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT COALESCE((
			SELECT qty FROM part_stock WHERE part_id=$1
		), 0)
	`, partID)
	var qty int64
	if err := row.Scan(&qty); err != nil {
		return 0, err
	}
	return qty, nil
}

// CurrentStockForParts — остатки сразу по набору деталей одним запросом.
// Детали без записи в part_stock в карту не попадают (остаток 0).
func (r *Repo) CurrentStockForParts(ctx context.Context, partIDs []int64) (map[int64]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT part_id, qty FROM part_stock WHERE part_id = ANY($1)
	`, partIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]int64, len(partIDs))
	for rows.Next() {
		var id, qty int64
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, err
		}
		out[id] = qty
	}
	return out, rows.Err()
}

// EventsInRange возвращает движения с occurred_at в (from, to] —
// начало периода исключительно, конец включительно. Порядок стабильный:
// по времени, при равенстве — по порядку вставки.
func (r *Repo) EventsInRange(ctx context.Context, partID int64, fromEx, toInc time.Time) ([]Movement, error) {
	return r.list(ctx, `
		SELECT id, part_id, qty, type, order_id, note, occurred_at
		FROM stock_movements
		WHERE part_id = $1 AND occurred_at > $2 AND occurred_at <= $3
		ORDER BY occurred_at, id
	`, partID, fromEx, toInc)
}

// EventsAfter возвращает движения строго после момента after.
func (r *Repo) EventsAfter(ctx context.Context, partID int64, after time.Time) ([]Movement, error) {
	return r.list(ctx, `
		SELECT id, part_id, qty, type, order_id, note, occurred_at
		FROM stock_movements
		WHERE part_id = $1 AND occurred_at > $2
		ORDER BY occurred_at, id
	`, partID, after)
}

// EventsInRangeForParts — то же окно (from, to], но одним запросом по набору деталей.
func (r *Repo) EventsInRangeForParts(ctx context.Context, partIDs []int64, fromEx, toInc time.Time) (map[int64][]Movement, error) {
	return r.listGrouped(ctx, `
		SELECT id, part_id, qty, type, order_id, note, occurred_at
		FROM stock_movements
		WHERE part_id = ANY($1) AND occurred_at > $2 AND occurred_at <= $3
		ORDER BY occurred_at, id
	`, partIDs, fromEx, toInc)
}

// EventsAfterForParts — движения после момента after одним запросом по набору деталей.
func (r *Repo) EventsAfterForParts(ctx context.Context, partIDs []int64, after time.Time) (map[int64][]Movement, error) {
	return r.listGrouped(ctx, `
		SELECT id, part_id, qty, type, order_id, note, occurred_at
		FROM stock_movements
		WHERE part_id = ANY($1) AND occurred_at > $2
		ORDER BY occurred_at, id
	`, partIDs, after)
}

func (r *Repo) list(ctx context.Context, q string, args ...any) ([]Movement, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Movement
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.ID, &m.PartID, &m.Qty, &m.Type, &m.OrderID, &m.Note, &m.OccurredAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repo) listGrouped(ctx context.Context, q string, args ...any) (map[int64][]Movement, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64][]Movement{}
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.ID, &m.PartID, &m.Qty, &m.Type, &m.OrderID, &m.Note, &m.OccurredAt); err != nil {
			return nil, err
		}
		out[m.PartID] = append(out[m.PartID], m)
	}
	return out, rows.Err()
}

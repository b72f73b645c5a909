package orders

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Create(ctx context.Context, vehicleID int64, description string, total decimal.Decimal, receivedAt time.Time) (*RepairOrder, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO repair_orders (vehicle_id, description, total, status, received_at)
		VALUES ($1,$2,$3,'received',$4)
		RETURNING id, vehicle_id, description, total::text, status, received_at, created_at
	`, vehicleID, description, total.String(), receivedAt)
	return scanOrder(row)
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*RepairOrder, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, vehicle_id, description, total::text, status, received_at, created_at
		FROM repair_orders WHERE id = $1
	`, id)
	o, err := scanOrder(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return o, err
}

func (r *Repo) SetStatus(ctx context.Context, id int64, status Status) error {
	_, err := r.pool.Exec(ctx, `UPDATE repair_orders SET status=$2 WHERE id=$1`, id, string(status))
	return err
}

// ListByVehicle возвращает заказ-наряды машины по возрастанию даты приёмки.
func (r *Repo) ListByVehicle(ctx context.Context, vehicleID int64) ([]RepairOrder, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, vehicle_id, description, total::text, status, received_at, created_at
		FROM repair_orders
		WHERE vehicle_id = $1
		ORDER BY received_at, id
	`, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RepairOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (*RepairOrder, error) {
	var o RepairOrder
	var total string
	if err := row.Scan(&o.ID, &o.VehicleID, &o.Description, &total, &o.Status, &o.ReceivedAt, &o.CreatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(total)
	if err != nil {
		return nil, err
	}
	o.Total = d
	return &o, nil
}

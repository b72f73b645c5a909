package payments

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Create(ctx context.Context, vehicleID int64, orderID *int64, amount decimal.Decimal, method Method, paidAt time.Time) (*Payment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO vehicle_payments (vehicle_id, order_id, amount, method, paid_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, vehicle_id, order_id, amount::text, method, paid_at, created_at
	`, vehicleID, orderID, amount.String(), string(method), paidAt)
	return scanPayment(row)
}

// ListByVehicle возвращает платежи машины по возрастанию даты оплаты.
func (r *Repo) ListByVehicle(ctx context.Context, vehicleID int64) ([]Payment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, vehicle_id, order_id, amount::text, method, paid_at, created_at
		FROM vehicle_payments
		WHERE vehicle_id = $1
		ORDER BY paid_at, id
	`, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	var amount string
	if err := row.Scan(&p.ID, &p.VehicleID, &p.OrderID, &amount, &p.Method, &p.PaidAt, &p.CreatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	p.Amount = d
	return &p, nil
}

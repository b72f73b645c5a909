package vehicles

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Create(ctx context.Context, plate, brand, model string, year int, ownerName, phone string) (*Vehicle, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO vehicles (plate, make, model, year, owner_name, phone)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, plate, make, model, year, owner_name, phone, created_at
	`, plate, brand, model, year, ownerName, phone)

	var v Vehicle
	if err := row.Scan(&v.ID, &v.Plate, &v.Make, &v.Model, &v.Year, &v.OwnerName, &v.Phone, &v.CreatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Vehicle, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, plate, make, model, year, owner_name, phone, created_at
		FROM vehicles WHERE id = $1
	`, id)
	var v Vehicle
	if err := row.Scan(&v.ID, &v.Plate, &v.Make, &v.Model, &v.Year, &v.OwnerName, &v.Phone, &v.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *Repo) List(ctx context.Context) ([]Vehicle, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, plate, make, model, year, owner_name, phone, created_at
		FROM vehicles ORDER BY plate, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.Plate, &v.Make, &v.Model, &v.Year, &v.OwnerName, &v.Phone, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

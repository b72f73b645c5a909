package parts

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Create(ctx context.Context, name, sku string, unit Unit, minStock int64) (*Part, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO parts (name, sku, unit, min_stock, active)
		VALUES ($1,$2,$3,$4,TRUE)
		RETURNING id, name, sku, unit, min_stock, active, created_at
	`, name, sku, string(unit), minStock)

	var p Part
	if err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Unit, &p.MinStock, &p.Active, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Part, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, sku, unit, min_stock, active, created_at
		FROM parts WHERE id = $1
	`, id)
	var p Part
	if err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Unit, &p.MinStock, &p.Active, &p.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repo) List(ctx context.Context, onlyActive bool) ([]Part, error) {
	q := `
		SELECT id, name, sku, unit, min_stock, active, created_at
		FROM parts
	`
	if onlyActive {
		q += " WHERE active = TRUE"
	}
	q += " ORDER BY name, id"

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Part
	for rows.Next() {
		var p Part
		if err := rows.Scan(&p.ID, &p.Name, &p.SKU, &p.Unit, &p.MinStock, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListByIDs возвращает только существующие детали; отсутствующие id
// вызывающий определяет сам по карте.
func (r *Repo) ListByIDs(ctx context.Context, ids []int64) (map[int64]Part, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, sku, unit, min_stock, active, created_at
		FROM parts WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]Part, len(ids))
	for rows.Next() {
		var p Part
		if err := rows.Scan(&p.ID, &p.Name, &p.SKU, &p.Unit, &p.MinStock, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

func (r *Repo) SetActive(ctx context.Context, id int64, active bool) error {
	_, err := r.pool.Exec(ctx, `UPDATE parts SET active=$2 WHERE id=$1`, id, active)
	return err
}

// SearchByName ищет детали по части названия/артикула, без учёта регистра.
func (r *Repo) SearchByName(ctx context.Context, q string, onlyActive bool) ([]Part, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}
	like := "%" + strings.ToLower(q) + "%"

	base := `
		SELECT id, name, sku, unit, min_stock, active, created_at
		FROM parts
		WHERE LOWER(name) LIKE $1 OR LOWER(sku) LIKE $1
	`
	var rows pgx.Rows
	var err error
	if onlyActive {
		rows, err = r.pool.Query(ctx, base+` AND active = TRUE ORDER BY name, id`, like)
	} else {
		rows, err = r.pool.Query(ctx, base+` ORDER BY name, id`, like)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Part
	for rows.Next() {
		var p Part
		if err := rows.Scan(&p.ID, &p.Name, &p.SKU, &p.Unit, &p.MinStock, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

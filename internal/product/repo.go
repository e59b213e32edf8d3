// Package product provides the repository interface and PostgreSQL
// implementation for the catalog. The order core only reads from it.
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("product not found")
	ErrPrice    = errors.New("price must be a non-negative number")
	ErrNoFields = errors.New("no fields to update")
)

type Repository interface {
	Index(ctx context.Context) ([]Product, error)
	Show(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, p CreateProduct) (*Product, error)
	Update(ctx context.Context, p UpdateProduct) (*Product, error)
	Delete(ctx context.Context, id int64) (*Product, error)
	TopProducts(ctx context.Context) ([]TopProduct, error)
}

type PGRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPGRepo(db *pgxpool.Pool, timeout time.Duration) *PGRepo {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PGRepo{db: db, timeout: timeout}
}

const productColumns = "id, name, price::text, category"

// NormalizePrice validates a price string and returns its canonical decimal
// form.
func NormalizePrice(s string) (string, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return "", ErrPrice
	}
	return d.String(), nil
}

func (r *PGRepo) Index(ctx context.Context) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Category); err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) Show(ctx context.Context, id int64) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var p Product
	err := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.Category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("show product %d: %w", id, err)
	}
	return &p, nil
}

func (r *PGRepo) Create(ctx context.Context, in CreateProduct) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	price, err := NormalizePrice(in.Price)
	if err != nil {
		return nil, err
	}
	var p Product
	err = r.db.QueryRow(ctx, `
		INSERT INTO products (name, price, category) VALUES ($1,$2,$3)
		RETURNING `+productColumns,
		in.Name, price, in.Category,
	).Scan(&p.ID, &p.Name, &p.Price, &p.Category)
	if err != nil {
		return nil, fmt.Errorf("create product %s: %w", in.Name, err)
	}
	return &p, nil
}

// Update builds the statement from only the supplied fields.
func (r *PGRepo) Update(ctx context.Context, in UpdateProduct) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	sets := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)
	set := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if in.Name != nil {
		set("name", *in.Name)
	}
	if in.Price != nil {
		price, err := NormalizePrice(*in.Price)
		if err != nil {
			return nil, err
		}
		set("price", price)
	}
	if in.Category != nil {
		set("category", *in.Category)
	}
	if len(sets) == 0 {
		return nil, ErrNoFields
	}
	args = append(args, in.ID)
	sql := fmt.Sprintf("UPDATE products SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), productColumns)

	var p Product
	if err := r.db.QueryRow(ctx, sql, args...).
		Scan(&p.ID, &p.Name, &p.Price, &p.Category); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update product %d: %w", in.ID, err)
	}
	return &p, nil
}

func (r *PGRepo) Delete(ctx context.Context, id int64) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var p Product
	err := r.db.QueryRow(ctx, `DELETE FROM products WHERE id=$1 RETURNING `+productColumns, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.Category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete product %d: %w", id, err)
	}
	return &p, nil
}

// TopProducts ranks products by total quantity sold, best five first.
// Computed fresh per call; no caching at this scale.
func (r *PGRepo) TopProducts(ctx context.Context) ([]TopProduct, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.name, SUM(od.quantity) AS total_quantity
		FROM products p
		JOIN order_details od ON p.id = od.product_id
		GROUP BY p.id, p.name
		ORDER BY total_quantity DESC
		LIMIT 5
	`)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	out := []TopProduct{}
	for rows.Next() {
		var tp TopProduct
		if err := rows.Scan(&tp.ID, &tp.Name, &tp.TotalQuantity); err != nil {
			return nil, fmt.Errorf("top products: %w", err)
		}
		out = append(out, tp)
	}
	return out, rows.Err()
}

package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("order not found")
	ErrItemNotFound = errors.New("order detail not found")
	ErrQuantity     = errors.New("quantity must be a positive integer")
)

type Repository interface {
	Create(ctx context.Context, status string, userID int64) (*Order, error)
	Index(ctx context.Context) ([]Order, error)
	Show(ctx context.Context, id int64) (*Order, error)
	Update(ctx context.Context, id int64, status string) (*Order, error)
	Delete(ctx context.Context, id int64) (*Order, error)

	AddLineItem(ctx context.Context, it LineItem) (*LineItem, error)
	LineItem(ctx context.Context, id int64) (*LineItem, error)
	DeleteLineItem(ctx context.Context, id int64) (*LineItem, error)
	LineItems(ctx context.Context) ([]LineItem, error)
	DeleteAllLineItems(ctx context.Context) ([]LineItem, error)
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

func (r *PGRepo) Create(ctx context.Context, status string, userID int64) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var o Order
	err := r.db.QueryRow(ctx, `
		INSERT INTO orders (status, user_id) VALUES ($1,$2)
		RETURNING id, status, user_id
	`, status, userID).Scan(&o.ID, &o.Status, &o.UserID)
	if err != nil {
		return nil, fmt.Errorf("create order for user %d: %w", userID, err)
	}
	return &o, nil
}

func (r *PGRepo) Index(ctx context.Context) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT id, status, user_id FROM orders`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Status, &o.UserID); err != nil {
			return nil, fmt.Errorf("list orders: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PGRepo) Show(ctx context.Context, id int64) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var o Order
	err := r.db.QueryRow(ctx, `SELECT id, status, user_id FROM orders WHERE id=$1`, id).
		Scan(&o.ID, &o.Status, &o.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("show order %d: %w", id, err)
	}
	return &o, nil
}

func (r *PGRepo) Update(ctx context.Context, id int64, status string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var o Order
	err := r.db.QueryRow(ctx, `
		UPDATE orders SET status=$2 WHERE id=$1
		RETURNING id, status, user_id
	`, id, status).Scan(&o.ID, &o.Status, &o.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update order %d: %w", id, err)
	}
	return &o, nil
}

// Delete removes the order and its line items in one transaction.
func (r *PGRepo) Delete(ctx context.Context, id int64) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("delete order %d: %w", id, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM order_details WHERE order_id=$1`, id); err != nil {
		return nil, fmt.Errorf("delete order %d items: %w", id, err)
	}
	var o Order
	err = tx.QueryRow(ctx, `DELETE FROM orders WHERE id=$1 RETURNING id, status, user_id`, id).
		Scan(&o.ID, &o.Status, &o.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete order %d: %w", id, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("delete order %d: %w", id, err)
	}
	return &o, nil
}

// AddLineItem checks the order exists and inserts inside one transaction so
// the insert cannot land on a concurrently deleted order. Dangling product
// ids are rejected by the foreign key.
func (r *PGRepo) AddLineItem(ctx context.Context, it LineItem) (*LineItem, error) {
	if it.Quantity <= 0 {
		return nil, ErrQuantity
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("add item to order %d: %w", it.OrderID, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id=$1)`, it.OrderID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("add item to order %d: %w", it.OrderID, err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	var out LineItem
	err = tx.QueryRow(ctx, `
		INSERT INTO order_details (quantity, order_id, product_id) VALUES ($1,$2,$3)
		RETURNING id, quantity, order_id, product_id
	`, it.Quantity, it.OrderID, it.ProductID).
		Scan(&out.ID, &out.Quantity, &out.OrderID, &out.ProductID)
	if err != nil {
		return nil, fmt.Errorf("add product %d to order %d: %w", it.ProductID, it.OrderID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("add item to order %d: %w", it.OrderID, err)
	}
	return &out, nil
}

func (r *PGRepo) LineItem(ctx context.Context, id int64) (*LineItem, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var it LineItem
	err := r.db.QueryRow(ctx, `
		SELECT id, quantity, order_id, product_id FROM order_details WHERE id=$1
	`, id).Scan(&it.ID, &it.Quantity, &it.OrderID, &it.ProductID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("show order detail %d: %w", id, err)
	}
	return &it, nil
}

func (r *PGRepo) DeleteLineItem(ctx context.Context, id int64) (*LineItem, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var it LineItem
	err := r.db.QueryRow(ctx, `
		DELETE FROM order_details WHERE id=$1
		RETURNING id, quantity, order_id, product_id
	`, id).Scan(&it.ID, &it.Quantity, &it.OrderID, &it.ProductID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("delete order detail %d: %w", id, err)
	}
	return &it, nil
}

func (r *PGRepo) LineItems(ctx context.Context) ([]LineItem, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT id, quantity, order_id, product_id FROM order_details`)
	if err != nil {
		return nil, fmt.Errorf("list order details: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// DeleteAllLineItems clears the table and returns the removed rows. Kept for
// fixture compatibility; not routed.
func (r *PGRepo) DeleteAllLineItems(ctx context.Context) ([]LineItem, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `DELETE FROM order_details RETURNING id, quantity, order_id, product_id`)
	if err != nil {
		return nil, fmt.Errorf("delete order details: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func scanItems(rows pgx.Rows) ([]LineItem, error) {
	var out []LineItem
	for rows.Next() {
		var it LineItem
		if err := rows.Scan(&it.ID, &it.Quantity, &it.OrderID, &it.ProductID); err != nil {
			return nil, fmt.Errorf("scan order detail: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrAlreadyExist = errors.New("user already exists")
	ErrNoFields     = errors.New("no fields to update")
)

type Repository interface {
	Create(ctx context.Context, n NewUser) (*User, error)
	Index(ctx context.Context) ([]User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
	Show(ctx context.Context, id int64) (*User, error)
	Update(ctx context.Context, u UpdateUser) (*User, error)
	Delete(ctx context.Context, id int64) (*User, error)
}

type PGRepo struct {
	db      *pgxpool.Pool
	hasher  Hasher
	timeout time.Duration
}

func NewPGRepo(db *pgxpool.Pool, hasher Hasher, timeout time.Duration) *PGRepo {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PGRepo{db: db, hasher: hasher, timeout: timeout}
}

const userColumns = "id, firstname, lastname, email, password"

func (r *PGRepo) Create(ctx context.Context, n NewUser) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	hash, err := r.hasher.Hash(n.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password for %s: %w", n.Email, err)
	}
	var u User
	err = r.db.QueryRow(ctx, `
		INSERT INTO users (firstname, lastname, email, password)
		VALUES ($1,$2,$3,$4)
		RETURNING `+userColumns,
		n.Firstname, n.Lastname, n.Email, hash,
	).Scan(&u.ID, &u.Firstname, &u.Lastname, &u.Email, &u.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExist
		}
		return nil, fmt.Errorf("create user %s: %w", n.Email, err)
	}
	return &u, nil
}

func (r *PGRepo) Index(ctx context.Context) ([]User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Firstname, &u.Lastname, &u.Email, &u.PasswordHash); err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Authenticate returns (nil, nil) on unknown email or wrong password: bad
// credentials are not a system fault.
func (r *PGRepo) Authenticate(ctx context.Context, email, password string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var u User
	err := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email).
		Scan(&u.ID, &u.Firstname, &u.Lastname, &u.Email, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("authenticate %s: %w", email, err)
	}
	if !r.hasher.Check(u.PasswordHash, password) {
		return nil, nil
	}
	return &u, nil
}

// Show returns the user together with the names of the most recently
// purchased distinct products (up to 5). Both queries run on one acquired
// connection.
func (r *PGRepo) Show(ctx context.Context, id int64) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("show user %d: %w", id, err)
	}
	defer conn.Release()

	var u User
	err = conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id).
		Scan(&u.ID, &u.Firstname, &u.Lastname, &u.Email, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("show user %d: %w", id, err)
	}

	// always a list in the response, even with no purchases
	u.LastPurchasedProducts = []string{}
	rows, err := conn.Query(ctx, `
		SELECT name FROM (
			SELECT p.name, MAX(o.id) AS last_order
			FROM products p
			JOIN order_details od ON p.id = od.product_id
			JOIN orders o ON od.order_id = o.id
			WHERE o.user_id = $1
			GROUP BY p.name
			ORDER BY last_order DESC
			LIMIT 5
		) recent
	`, id)
	if err != nil {
		return nil, fmt.Errorf("show user %d purchases: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("show user %d purchases: %w", id, err)
		}
		u.LastPurchasedProducts = append(u.LastPurchasedProducts, name)
	}
	return &u, rows.Err()
}

// Update builds the statement from only the supplied fields; omitted fields
// are never overwritten. A supplied password is re-hashed with the same
// pepper scheme.
func (r *PGRepo) Update(ctx context.Context, in UpdateUser) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	sets := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	set := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if in.Firstname != nil {
		set("firstname", *in.Firstname)
	}
	if in.Lastname != nil {
		set("lastname", *in.Lastname)
	}
	if in.Email != nil {
		set("email", *in.Email)
	}
	if in.Password != nil {
		hash, err := r.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password for user %d: %w", in.ID, err)
		}
		set("password", hash)
	}
	if len(sets) == 0 {
		return nil, ErrNoFields
	}
	args = append(args, in.ID)
	sql := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), userColumns)

	var u User
	if err := r.db.QueryRow(ctx, sql, args...).
		Scan(&u.ID, &u.Firstname, &u.Lastname, &u.Email, &u.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExist
		}
		return nil, fmt.Errorf("update user %d: %w", in.ID, err)
	}
	return &u, nil
}

func (r *PGRepo) Delete(ctx context.Context, id int64) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var u User
	err := r.db.QueryRow(ctx, `DELETE FROM users WHERE id=$1 RETURNING `+userColumns, id).
		Scan(&u.ID, &u.Firstname, &u.Lastname, &u.Email, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete user %d: %w", id, err)
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

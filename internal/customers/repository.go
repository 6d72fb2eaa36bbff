package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline/internal/shared"
)

const pgForeignKeyViolation = "23503"

// Repository defines data access methods for customers.
type Repository interface {
	Get(ctx context.Context, id int64) (*Customer, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error)
	Create(ctx context.Context, customer Customer) (*Customer, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the PostgreSQL-backed customer repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context, id int64) (*Customer, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, email, address, created_at, updated_at FROM customers WHERE id = $1`, id)
	customer, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &shared.NotFoundError{Kind: "customer", ID: id}
		}
		return nil, err
	}
	return customer, nil
}

func (r *repository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *repository) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	whereClause := ""
	var args []interface{}
	if req.Search != nil && *req.Search != "" {
		whereClause = "WHERE (name ILIKE $1 OR email ILIKE $1)"
		args = append(args, "%"+*req.Search+"%")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM customers %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`
		SELECT id, name, email, address, created_at, updated_at
		FROM customers
		%s
		ORDER BY id
		LIMIT $%d OFFSET $%d
	`, whereClause, len(args)+1, len(args)+2)
	args = append(args, limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, *customer)
	}
	return customers, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, customer Customer) (*Customer, error) {
	persisted := customer
	err := r.pool.QueryRow(ctx,
		`INSERT INTO customers (name, email, address) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`,
		customer.Name,
		pgtype.Text{String: derefString(customer.Email), Valid: customer.Email != nil},
		pgtype.Text{String: derefString(customer.Address), Valid: customer.Address != nil},
	).Scan(&persisted.ID, &persisted.CreatedAt, &persisted.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &persisted, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE customers SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, col := range []string{"name", "email", "address"} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &shared.NotFoundError{Kind: "customer", ID: id}
	}
	return nil
}

// Delete fails when the customer still backs outstanding receivables; the
// schema restricts the foreign key instead of cascading into the ledger.
func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return &shared.ReferencedError{Kind: "customer", ID: id}
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return &shared.NotFoundError{Kind: "customer", ID: id}
	}
	return nil
}

func scanCustomer(row pgx.Row) (*Customer, error) {
	var (
		c                    Customer
		email, address       pgtype.Text
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&c.ID, &c.Name, &email, &address, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if email.Valid {
		val := email.String
		c.Email = &val
	}
	if address.Valid {
		val := address.String
		c.Address = &val
	}
	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time
	return &c, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Package postgres implements the persistence interfaces on PostgreSQL
// using pgx connection pools.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/miradev/mira/internal/domain"
)

// ProductStore implements domain.ProductStore using PostgreSQL.
type ProductStore struct {
	pool *pgxpool.Pool
}

// Compile-time check that ProductStore implements domain.ProductStore.
var _ domain.ProductStore = (*ProductStore)(nil)

// NewProductStore creates a new PostgreSQL-backed product store.
func NewProductStore(pool *pgxpool.Pool) *ProductStore {
	return &ProductStore{pool: pool}
}

const productColumns = `id, name, description, price, image_url, category, in_stock, created_at, updated_at`

// ListProducts returns all products, newest first.
func (s *ProductStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, domain.Internal(err, "product.list", "failed to list products")
	}
	defer rows.Close()

	return scanProducts(rows, "product.list")
}

// ListInStockProducts returns only in-stock products, newest first.
func (s *ProductStore) ListInStockProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE in_stock ORDER BY created_at DESC`)
	if err != nil {
		return nil, domain.Internal(err, "product.list_in_stock", "failed to list in-stock products")
	}
	defer rows.Close()

	return scanProducts(rows, "product.list_in_stock")
}

// GetProduct retrieves a product by ID. A malformed ID behaves like a
// missing row so URL guessing cannot distinguish the two.
func (s *ProductStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	uuid, ok := parseUUID(id)
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	row := s.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, uuid)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, "product.get", "failed to get product")
	}
	return p, nil
}

// CreateProduct inserts a new product and returns it with its
// server-assigned identifier and timestamps.
func (s *ProductStore) CreateProduct(ctx context.Context, params domain.ProductParams) (*domain.Product, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO products (name, description, price, image_url, category, in_stock)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+productColumns,
		params.Name, params.Description, params.Price, params.ImageURL, params.Category, params.InStock)

	p, err := scanProduct(row)
	if err != nil {
		return nil, domain.Internal(err, "product.create", "failed to create product")
	}
	return p, nil
}

// UpdateProduct replaces the mutable fields of an existing product.
func (s *ProductStore) UpdateProduct(ctx context.Context, id string, params domain.ProductParams) error {
	uuid, ok := parseUUID(id)
	if !ok {
		return domain.ErrProductNotFound
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE products
		 SET name = $2, description = $3, price = $4, image_url = $5, category = $6, in_stock = $7,
		     updated_at = now()
		 WHERE id = $1`,
		uuid, params.Name, params.Description, params.Price, params.ImageURL, params.Category, params.InStock)
	if err != nil {
		return domain.Internal(err, "product.update", "failed to update product")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// DeleteProduct removes a product permanently.
func (s *ProductStore) DeleteProduct(ctx context.Context, id string) error {
	uuid, ok := parseUUID(id)
	if !ok {
		return domain.ErrProductNotFound
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, uuid)
	if err != nil {
		return domain.Internal(err, "product.delete", "failed to delete product")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL,
		&p.Category, &p.InStock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows, op string) ([]domain.Product, error) {
	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL,
			&p.Category, &p.InStock, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to scan product row")
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to read product rows")
	}
	return products, nil
}

func parseUUID(id string) (pgtype.UUID, bool) {
	var uuid pgtype.UUID
	if err := uuid.Scan(id); err != nil {
		return pgtype.UUID{}, false
	}
	return uuid, true
}

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/eduardojeem/Mipos-sub011/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Repository defines catalog reads the way the service consumes them.
// The postgres implementation lives below; tests supply their own.
type Repository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT id, name, sku, category_id, price, wholesale_price, stock
	          FROM products ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *PostgresRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT id, name, sku, category_id, price, wholesale_price, stock
	          FROM products WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var price, wholesale string
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.CategoryID, &price, &wholesale, &p.Stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	if p.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parse price for product %s: %w", p.ID, err)
	}
	if p.WholesalePrice, err = decimal.NewFromString(wholesale); err != nil {
		return nil, fmt.Errorf("parse wholesale price for product %s: %w", p.ID, err)
	}
	return &p, nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PostgresRepository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, email, phone FROM customers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

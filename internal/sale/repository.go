package sale

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/eduardojeem/Mipos-sub011/internal/domain"
)

var (
	ErrDuplicateSale     = errors.New("sale with this client ref already exists")
	ErrSaleNotFound      = errors.New("sale not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// OutboxEvent is one pending notification row, written in the same
// transaction as the sale it belongs to.
type OutboxEvent struct {
	ID          int64
	AggregateID string // sale id, used as the kafka key for ordering
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}

// Repository is the persistence surface the sale service and the
// outbox publisher consume.
type Repository interface {
	CreateSale(ctx context.Context, sale *domain.SaleRecord, events []OutboxEvent) error
	GetSaleByClientRef(ctx context.Context, registerID, clientRef string) (*domain.SaleRecord, error)
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventProcessed(ctx context.Context, id int64) error
}

type PostgresRepository struct {
	db *sql.DB
}

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

func NewPostgresRepository(cred *Credentials) (*PostgresRepository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host, cred.Port, cred.User, cred.Password, cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(10)
	return &PostgresRepository{db: db}, nil
}

// DB exposes the underlying handle for sibling repositories that share
// the connection pool (the catalog repository does).
func (r *PostgresRepository) DB() *sql.DB {
	return r.db
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

func (r *PostgresRepository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "pos_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}
	return nil
}

// CreateSale stores the sale, decrements stock and writes the outbox
// rows in one transaction, so an accepted sale always has its events.
func (r *PostgresRepository) CreateSale(ctx context.Context, sale *domain.SaleRecord, events []OutboxEvent) error {
	itemsJSON, err := json.Marshal(sale.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal sale items: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO sales (id, register_id, client_ref, customer_id, items, subtotal, tax,
	            discount, discount_type, total, payment_method, notes, coupon_code, created_at)
	          VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, insertErr := tx.ExecContext(ctx, query,
		sale.ID,
		sale.RegisterID,
		sale.ClientRef,
		sale.CustomerID,
		string(itemsJSON), // lib/pq sends []byte as bytea, which jsonb rejects
		sale.Subtotal.String(),
		sale.Tax.String(),
		sale.Discount.String(),
		string(sale.DiscountType),
		sale.Total.String(),
		string(sale.PaymentMethod),
		sale.Notes,
		sale.CouponCode,
		sale.CreatedAt)
	if insertErr != nil {
		var pqErr *pq.Error
		if errors.As(insertErr, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateSale
		}
		return fmt.Errorf("insert sale: %w", insertErr)
	}

	for _, item := range sale.Items {
		res, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1`,
			item.Quantity, item.ProductID)
		if err != nil {
			return fmt.Errorf("decrement stock for %s: %w", item.ProductID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("decrement stock for %s: %w", item.ProductID, err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: product %s", ErrInsufficientStock, item.ProductID)
		}
	}

	for _, ev := range events {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sale_outbox (aggregate_id, event_type, payload, created_at)
			 VALUES ($1, $2, $3, NOW())`,
			ev.AggregateID, ev.EventType, string(ev.Payload))
		if err != nil {
			return fmt.Errorf("insert outbox event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sale: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetSaleByClientRef(ctx context.Context, registerID, clientRef string) (*domain.SaleRecord, error) {
	query := `SELECT id, register_id, client_ref, COALESCE(customer_id, ''), items, subtotal, tax,
	            discount, discount_type, total, payment_method, notes, coupon_code, created_at
	          FROM sales WHERE register_id = $1 AND client_ref = $2`

	var (
		s                                 domain.SaleRecord
		itemsJSON                         []byte
		subtotal, tax, discountStr, total string
		discountType, paymentMethod       string
	)
	err := r.db.QueryRowContext(ctx, query, registerID, clientRef).Scan(
		&s.ID, &s.RegisterID, &s.ClientRef, &s.CustomerID, &itemsJSON,
		&subtotal, &tax, &discountStr, &discountType, &total,
		&paymentMethod, &s.Notes, &s.CouponCode, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSaleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get sale: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &s.Items); err != nil {
		return nil, fmt.Errorf("unmarshal sale items: %w", err)
	}
	if s.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return nil, fmt.Errorf("parse subtotal: %w", err)
	}
	if s.Tax, err = decimal.NewFromString(tax); err != nil {
		return nil, fmt.Errorf("parse tax: %w", err)
	}
	if s.Discount, err = decimal.NewFromString(discountStr); err != nil {
		return nil, fmt.Errorf("parse discount: %w", err)
	}
	if s.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	s.DiscountType = domain.DiscountType(discountType)
	s.PaymentMethod = domain.PaymentMethod(paymentMethod)
	return &s, nil
}

func (r *PostgresRepository) GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	query := `SELECT id, aggregate_id, event_type, payload, created_at
	          FROM sale_outbox WHERE processed_at IS NULL
	          ORDER BY id LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("get unprocessed events: %w", err)
	}
	defer rows.Close()

	var events []*OutboxEvent
	for rows.Next() {
		var ev OutboxEvent
		if err := rows.Scan(&ev.ID, &ev.AggregateID, &ev.EventType, &ev.Payload, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox event: %w", err)
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}

func (r *PostgresRepository) MarkEventProcessed(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sale_outbox SET processed_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark event processed: %w", err)
	}
	return nil
}

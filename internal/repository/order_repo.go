package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nnikochann/numero-tg/internal/domain"
)

// OrderRepository define el contrato de persistencia para órdenes de compra.
type OrderRepository interface {
	Create(ctx context.Context, order domain.Order) (int64, error)
	GetByID(ctx context.Context, orderID int64) (domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status string) error
}

// PgOrderRepository implementa OrderRepository usando pgxpool.
type PgOrderRepository struct {
	pool *pgxpool.Pool
}

func NewPgOrderRepository(pool *pgxpool.Pool) *PgOrderRepository {
	return &PgOrderRepository{pool: pool}
}

func (r *PgOrderRepository) Create(ctx context.Context, order domain.Order) (int64, error) {
	const query = `
		INSERT INTO orders (user_id, product, price, currency, status, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var payload []byte
	if order.Payload != nil {
		var err error
		payload, err = json.Marshal(order.Payload)
		if err != nil {
			return 0, err
		}
	}
	var id int64
	err := r.pool.QueryRow(ctx, query,
		order.UserID,
		order.Product,
		order.Price,
		order.Currency,
		order.Status,
		payload,
	).Scan(&id)
	return id, err
}

func (r *PgOrderRepository) GetByID(ctx context.Context, orderID int64) (domain.Order, error) {
	const query = `
		SELECT id, user_id, product, price, currency, status, paid_at, payload, created_at
		FROM orders
		WHERE id = $1
	`
	var o domain.Order
	var payload []byte
	err := r.pool.QueryRow(ctx, query, orderID).Scan(
		&o.ID,
		&o.UserID,
		&o.Product,
		&o.Price,
		&o.Currency,
		&o.Status,
		&o.PaidAt,
		&payload,
		&o.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &o.Payload); err != nil {
			return domain.Order{}, err
		}
	}
	return o, nil
}

func (r *PgOrderRepository) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	const query = `
		UPDATE orders SET
			status = $1,
			paid_at = CASE WHEN $1 = 'paid' THEN now() ELSE paid_at END
		WHERE id = $2
	`
	tag, err := r.pool.Exec(ctx, query, status, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

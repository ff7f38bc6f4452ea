package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nnikochann/numero-tg/internal/domain"
)

// SubscriptionRepository define el contrato de persistencia para suscripciones.
type SubscriptionRepository interface {
	Create(ctx context.Context, userID int64, status, providerID string) (int64, error)
	GetLatestByUserID(ctx context.Context, userID int64) (domain.Subscription, error)
	UpdateStatus(ctx context.Context, subscriptionID int64, status string) error
	ListActiveSubscribers(ctx context.Context) ([]domain.User, error)
}

// PgSubscriptionRepository implementa SubscriptionRepository usando pgxpool.
type PgSubscriptionRepository struct {
	pool *pgxpool.Pool
}

func NewPgSubscriptionRepository(pool *pgxpool.Pool) *PgSubscriptionRepository {
	return &PgSubscriptionRepository{pool: pool}
}

func (r *PgSubscriptionRepository) Create(ctx context.Context, userID int64, status, providerID string) (int64, error) {
	const query = `
		INSERT INTO subscriptions (user_id, status, trial_end, next_charge, provider_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	// El trial dura 7 días; el siguiente cobro queda a 30 días.
	now := time.Now().UTC()
	var trialEnd, nextCharge *time.Time
	if status == domain.SubscriptionStatusTrial {
		t := now.AddDate(0, 0, 7)
		trialEnd = &t
	}
	if status == domain.SubscriptionStatusTrial || status == domain.SubscriptionStatusActive {
		n := now.AddDate(0, 0, 30)
		nextCharge = &n
	}

	var id int64
	err := r.pool.QueryRow(ctx, query, userID, status, trialEnd, nextCharge, nullIfEmpty(providerID)).Scan(&id)
	return id, err
}

func (r *PgSubscriptionRepository) GetLatestByUserID(ctx context.Context, userID int64) (domain.Subscription, error) {
	const query = `
		SELECT id, user_id, status, trial_end, next_charge, COALESCE(provider_id, ''), created_at
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var s domain.Subscription
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&s.ID,
		&s.UserID,
		&s.Status,
		&s.TrialEnd,
		&s.NextCharge,
		&s.ProviderID,
		&s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Subscription{}, ErrNotFound
	}
	return s, err
}

func (r *PgSubscriptionRepository) UpdateStatus(ctx context.Context, subscriptionID int64, status string) error {
	const query = `
		UPDATE subscriptions SET
			status = $1,
			next_charge = CASE WHEN $1 = 'active' THEN now() + interval '30 days' ELSE NULL END
		WHERE id = $2
	`
	tag, err := r.pool.Exec(ctx, query, status, subscriptionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListActiveSubscribers devuelve los usuarios con suscripción vigente y
// push habilitado, destinatarios del pronóstico semanal.
func (r *PgSubscriptionRepository) ListActiveSubscribers(ctx context.Context) ([]domain.User, error) {
	const query = `
		SELECT DISTINCT u.id, u.tg_id, COALESCE(u.fio, ''), COALESCE(u.birthdate::text, ''), u.lang, u.push_enabled, u.created_at
		FROM users u
		JOIN subscriptions s ON u.id = s.user_id
		WHERE s.status IN ('active', 'trial')
		AND (s.trial_end IS NULL OR s.trial_end >= CURRENT_DATE)
		AND u.push_enabled = true
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.TgID, &u.FIO, &u.Birthdate, &u.Lang, &u.PushEnabled, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nnikochann/numero-tg/internal/domain"
)

// ErrNotFound se devuelve cuando una fila no existe.
var ErrNotFound = errors.New("not found")

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, tgID int64) (int64, error)
	GetByTgID(ctx context.Context, tgID int64) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	UpdateProfile(ctx context.Context, tgID int64, fio, birthdate string) error
	UpdateSettings(ctx context.Context, tgID int64, lang *string, pushEnabled *bool) error
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Create(ctx context.Context, tgID int64) (int64, error) {
	const query = `
		INSERT INTO users (tg_id)
		VALUES ($1)
		RETURNING id
	`
	var id int64
	err := r.pool.QueryRow(ctx, query, tgID).Scan(&id)
	return id, err
}

func (r *PgUserRepository) GetByTgID(ctx context.Context, tgID int64) (domain.User, error) {
	const query = `
		SELECT id, tg_id, COALESCE(fio, ''), COALESCE(birthdate::text, ''), lang, push_enabled, created_at
		FROM users
		WHERE tg_id = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, tgID))
}

func (r *PgUserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	const query = `
		SELECT id, tg_id, COALESCE(fio, ''), COALESCE(birthdate::text, ''), lang, push_enabled, created_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) UpdateProfile(ctx context.Context, tgID int64, fio, birthdate string) error {
	const query = `
		UPDATE users SET fio = $1, birthdate = $2::date WHERE tg_id = $3
	`
	tag, err := r.pool.Exec(ctx, query, fio, birthdate, tgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgUserRepository) UpdateSettings(ctx context.Context, tgID int64, lang *string, pushEnabled *bool) error {
	const query = `
		UPDATE users SET
			lang = COALESCE($1, lang),
			push_enabled = COALESCE($2, push_enabled)
		WHERE tg_id = $3
	`
	tag, err := r.pool.Exec(ctx, query, lang, pushEnabled, tgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgUserRepository) scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.TgID,
		&u.FIO,
		&u.Birthdate,
		&u.Lang,
		&u.PushEnabled,
		&u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	return u, err
}

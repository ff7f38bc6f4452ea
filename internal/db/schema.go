package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements crea las tablas del servicio. Idempotente: el arranque
// las aplica siempre y las instalaciones existentes no cambian.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id bigserial PRIMARY KEY,
		tg_id bigint UNIQUE,
		fio text,
		birthdate date,
		lang text DEFAULT 'ru',
		push_enabled bool DEFAULT true,
		created_at timestamptz DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id bigserial PRIMARY KEY,
		user_id bigint REFERENCES users(id),
		product text,
		price numeric,
		currency text,
		status text,
		paid_at timestamptz,
		payload jsonb,
		created_at timestamptz DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS reports (
		id bigserial PRIMARY KEY,
		user_id bigint REFERENCES users(id),
		report_type text,
		core_json jsonb,
		pdf_url text,
		created_at timestamptz DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS subscriptions (
		id bigserial PRIMARY KEY,
		user_id bigint REFERENCES users(id),
		status text,
		trial_end date,
		next_charge date,
		provider_id text,
		created_at timestamptz DEFAULT now()
	)`,
}

// EnsureSchema aplica el esquema al arrancar.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

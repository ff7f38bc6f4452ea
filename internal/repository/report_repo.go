package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nnikochann/numero-tg/internal/domain"
)

// ReportRepository define el contrato de persistencia para reportes.
type ReportRepository interface {
	Save(ctx context.Context, userID int64, reportType string, coreJSON json.RawMessage) (int64, error)
	UpdatePDFURL(ctx context.Context, reportID int64, pdfURL string) error
	GetByID(ctx context.Context, reportID int64) (domain.Report, error)
	LatestByType(ctx context.Context, userID int64, reportType string) (domain.Report, error)
}

// PgReportRepository implementa ReportRepository usando pgxpool.
type PgReportRepository struct {
	pool *pgxpool.Pool
}

func NewPgReportRepository(pool *pgxpool.Pool) *PgReportRepository {
	return &PgReportRepository{pool: pool}
}

func (r *PgReportRepository) Save(ctx context.Context, userID int64, reportType string, coreJSON json.RawMessage) (int64, error) {
	const query = `
		INSERT INTO reports (user_id, report_type, core_json)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var id int64
	err := r.pool.QueryRow(ctx, query, userID, reportType, coreJSON).Scan(&id)
	return id, err
}

func (r *PgReportRepository) UpdatePDFURL(ctx context.Context, reportID int64, pdfURL string) error {
	const query = `
		UPDATE reports SET pdf_url = $1 WHERE id = $2
	`
	tag, err := r.pool.Exec(ctx, query, pdfURL, reportID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgReportRepository) GetByID(ctx context.Context, reportID int64) (domain.Report, error) {
	const query = `
		SELECT id, user_id, report_type, core_json, COALESCE(pdf_url, ''), created_at
		FROM reports
		WHERE id = $1
	`
	return r.scanReport(r.pool.QueryRow(ctx, query, reportID))
}

func (r *PgReportRepository) LatestByType(ctx context.Context, userID int64, reportType string) (domain.Report, error) {
	const query = `
		SELECT id, user_id, report_type, core_json, COALESCE(pdf_url, ''), created_at
		FROM reports
		WHERE user_id = $1 AND report_type = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanReport(r.pool.QueryRow(ctx, query, userID, reportType))
}

func (r *PgReportRepository) scanReport(row pgx.Row) (domain.Report, error) {
	var rep domain.Report
	var core []byte
	err := row.Scan(
		&rep.ID,
		&rep.UserID,
		&rep.ReportType,
		&core,
		&rep.PDFURL,
		&rep.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Report{}, ErrNotFound
	}
	rep.CoreJSON = core
	return rep, err
}

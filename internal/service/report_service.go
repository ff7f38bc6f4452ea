package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nnikochann/numero-tg/internal/domain"
	"github.com/nnikochann/numero-tg/internal/interpret"
	"github.com/nnikochann/numero-tg/internal/metrics"
	"github.com/nnikochann/numero-tg/internal/numerology"
	"github.com/nnikochann/numero-tg/internal/report"
	"github.com/nnikochann/numero-tg/internal/repository"
)

// ReportService orquesta el ciclo completo de un reporte: cálculo del
// núcleo numerológico, persistencia, interpretación externa y render.
type ReportService struct {
	logger      *zap.Logger
	reports     repository.ReportRepository
	interpreter interpret.Interpreter
	renderer    *report.Renderer
	now         func() time.Time
}

func NewReportService(
	logger *zap.Logger,
	reports repository.ReportRepository,
	interpreter interpret.Interpreter,
	renderer *report.Renderer,
) *ReportService {
	return &ReportService{
		logger:      logger,
		reports:     reports,
		interpreter: interpreter,
		renderer:    renderer,
		now:         time.Now,
	}
}

// Mini calcula el perfil y devuelve el texto del mini-reporte.
func (s *ReportService) Mini(ctx context.Context, user domain.User) (string, error) {
	profile, err := numerology.Calculate(user.Birthdate, user.FIO, s.now().Year())
	if err != nil {
		return "", fmt.Errorf("calculate profile: %w", err)
	}

	if _, err := s.saveCore(ctx, user.ID, domain.ReportTypeMini, profile); err != nil {
		return "", err
	}

	result, err := s.interpreter.Interpret(ctx, domain.ReportTypeMini, profile)
	if err != nil {
		return "", fmt.Errorf("interpret mini: %w", err)
	}
	metrics.ReportsGeneratedTotal.WithLabelValues(domain.ReportTypeMini).Inc()
	return result.MiniReport, nil
}

// Full genera el reporte completo en disco y devuelve su ID y ruta.
func (s *ReportService) Full(ctx context.Context, user domain.User) (int64, string, error) {
	profile, err := numerology.Calculate(user.Birthdate, user.FIO, s.now().Year())
	if err != nil {
		return 0, "", fmt.Errorf("calculate profile: %w", err)
	}

	reportID, err := s.saveCore(ctx, user.ID, domain.ReportTypeFull, profile)
	if err != nil {
		return 0, "", err
	}

	result, err := s.interpreter.Interpret(ctx, domain.ReportTypeFull, profile)
	if err != nil {
		return 0, "", fmt.Errorf("interpret full: %w", err)
	}

	path, err := s.renderer.RenderProfile(user, profile, result.FullReport, domain.ReportTypeFull)
	if err != nil {
		return 0, "", fmt.Errorf("render full: %w", err)
	}
	if err := s.reports.UpdatePDFURL(ctx, reportID, path); err != nil {
		return 0, "", fmt.Errorf("update report url: %w", err)
	}

	metrics.ReportsGeneratedTotal.WithLabelValues(domain.ReportTypeFull).Inc()
	s.logger.Info("full report generated",
		zap.Int64("user_id", user.ID),
		zap.Int64("report_id", reportID),
	)
	return reportID, path, nil
}

// CompatibilityMini devuelve el texto corto de compatibilidad de la pareja.
func (s *ReportService) CompatibilityMini(ctx context.Context, user domain.User, partnerBirthdate, partnerFIO string) (string, error) {
	result, err := s.compatibilityCore(user, partnerBirthdate, partnerFIO)
	if err != nil {
		return "", err
	}

	if _, err := s.saveCore(ctx, user.ID, domain.ReportTypeCompatibilityMini, result); err != nil {
		return "", err
	}

	interp, err := s.interpreter.Interpret(ctx, domain.ReportTypeCompatibilityMini, result)
	if err != nil {
		return "", fmt.Errorf("interpret compatibility mini: %w", err)
	}
	metrics.ReportsGeneratedTotal.WithLabelValues(domain.ReportTypeCompatibilityMini).Inc()
	return interp.CompatibilityMini, nil
}

// Compatibility genera el reporte de compatibilidad completo en disco.
func (s *ReportService) Compatibility(ctx context.Context, user domain.User, partnerBirthdate, partnerFIO string) (int64, string, error) {
	result, err := s.compatibilityCore(user, partnerBirthdate, partnerFIO)
	if err != nil {
		return 0, "", err
	}

	reportID, err := s.saveCore(ctx, user.ID, domain.ReportTypeCompatibility, result)
	if err != nil {
		return 0, "", err
	}

	interp, err := s.interpreter.Interpret(ctx, domain.ReportTypeCompatibility, result)
	if err != nil {
		return 0, "", fmt.Errorf("interpret compatibility: %w", err)
	}

	path, err := s.renderer.RenderCompatibility(user, result, interp.CompatibilityReport)
	if err != nil {
		return 0, "", fmt.Errorf("render compatibility: %w", err)
	}
	if err := s.reports.UpdatePDFURL(ctx, reportID, path); err != nil {
		return 0, "", fmt.Errorf("update report url: %w", err)
	}

	metrics.ReportsGeneratedTotal.WithLabelValues(domain.ReportTypeCompatibility).Inc()
	return reportID, path, nil
}

func (s *ReportService) compatibilityCore(user domain.User, partnerBirthdate, partnerFIO string) (numerology.CompatibilityResult, error) {
	result, err := numerology.CalculateCompatibility(
		user.Birthdate, user.FIO,
		partnerBirthdate, partnerFIO,
		s.now().Year(),
	)
	if err != nil {
		return numerology.CompatibilityResult{}, fmt.Errorf("calculate compatibility: %w", err)
	}
	return result, nil
}

func (s *ReportService) saveCore(ctx context.Context, userID int64, reportType string, core any) (int64, error) {
	raw, err := json.Marshal(core)
	if err != nil {
		return 0, fmt.Errorf("marshal core: %w", err)
	}
	id, err := s.reports.Save(ctx, userID, reportType, raw)
	if err != nil {
		return 0, fmt.Errorf("save report: %w", err)
	}
	return id, nil
}

package interpret

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nnikochann/numero-tg/internal/metrics"
)

// Interpreter define la interfaz para obtener interpretaciones narrativas
// de los cálculos numerológicos desde un servicio externo.
type Interpreter interface {
	Interpret(ctx context.Context, reportType string, data any) (Result, error)
}

// Result es la respuesta normalizada del webhook. Según el tipo de reporte
// solo uno de los campos viene poblado.
type Result struct {
	MiniReport          string            `json:"mini_report,omitempty"`
	FullReport          map[string]string `json:"full_report,omitempty"`
	CompatibilityMini   string            `json:"compatibility_mini_report,omitempty"`
	CompatibilityReport map[string]string `json:"compatibility_report,omitempty"`
	Message             string            `json:"message,omitempty"`
}

// HTTPClient implementa Interpreter contra el webhook externo (n8n o
// compatible). El webhook puede responder JSON estructurado o texto plano;
// el texto se normaliza según el tipo de reporte.
type HTTPClient struct {
	webhookURL string
	client     *http.Client
	logger     *zap.Logger
}

func NewHTTPClient(webhookURL string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPClient{
		webhookURL: strings.TrimRight(webhookURL, "/"),
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *HTTPClient) Interpret(ctx context.Context, reportType string, data any) (Result, error) {
	payload := map[string]any{
		"report_type": reportType,
		"data":        data,
	}
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.InterpretRequestsTotal.WithLabelValues(reportType, "error").Inc()
		return Result{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.InterpretRequestsTotal.WithLabelValues(reportType, "error").Inc()
		return Result{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.InterpretRequestsTotal.WithLabelValues(reportType, fmt.Sprintf("%d", resp.StatusCode)).Inc()
		if c.logger != nil {
			c.logger.Warn("interpret webhook error",
				zap.Int("status", resp.StatusCode),
				zap.String("report_type", reportType),
			)
		}
		return Result{}, fmt.Errorf("interpret webhook: status=%d", resp.StatusCode)
	}
	metrics.InterpretRequestsTotal.WithLabelValues(reportType, "200").Inc()

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		var result Result
		if err := json.Unmarshal(respBody, &result); err == nil && !result.empty() {
			return result, nil
		}
		// JSON no reconocible: seguimos con el tratamiento de texto.
	}

	return resultFromText(reportType, string(respBody)), nil
}

func (r Result) empty() bool {
	return r.MiniReport == "" && r.FullReport == nil &&
		r.CompatibilityMini == "" && r.CompatibilityReport == nil && r.Message == ""
}

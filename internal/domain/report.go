package domain

import (
	"encoding/json"
	"time"
)

// Tipos de reporte que el servicio genera.
const (
	ReportTypeMini              = "mini"
	ReportTypeFull              = "full"
	ReportTypeCompatibilityMini = "compatibility_mini"
	ReportTypeCompatibility     = "compatibility"
	ReportTypeWeekly            = "weekly"
)

// Report guarda el resultado de un cálculo tal como se serializó, más la
// ruta del archivo renderizado cuando existe.
type Report struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"user_id"`
	ReportType string          `json:"report_type"`
	CoreJSON   json.RawMessage `json:"core_json"`
	PDFURL     string          `json:"pdf_url,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

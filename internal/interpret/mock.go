package interpret

import "context"

// MockInterpreter permite tests sin llamar al webhook real.
type MockInterpreter struct {
	Result Result
	Err    error

	// LastReportType y LastData registran la última llamada.
	LastReportType string
	LastData       any
}

func (m *MockInterpreter) Interpret(_ context.Context, reportType string, data any) (Result, error) {
	m.LastReportType = reportType
	m.LastData = data
	return m.Result, m.Err
}

package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/safe-to-spend/internal/report"
)

// MockWriter is a ReportWriter for tests.
type MockWriter struct {
	WriteFunc     func(ctx context.Context, rep *report.Report) (string, error)
	LastReport    *report.Report
	SpreadsheetID string
	Calls         int
	mu            sync.Mutex
}

var _ ReportWriter = (*MockWriter)(nil)

// WriteReport records rep and delegates to WriteFunc when set.
func (m *MockWriter) WriteReport(ctx context.Context, rep *report.Report) (string, error) {
	m.mu.Lock()
	m.Calls++
	m.LastReport = rep
	fn := m.WriteFunc
	id := m.SpreadsheetID
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, rep)
	}
	if id == "" {
		id = "mock-spreadsheet"
	}
	return id, nil
}

// CallCount returns the number of WriteReport calls.
func (m *MockWriter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

package report

import (
	"context"
)

// ReportService assembles monthly reports from persisted shifts. The
// caller's identity and role come from the request context.
type ReportService interface {
	GetReport(ctx context.Context, req ReportRequest) (Summary, error)
	ExportCSV(ctx context.Context, req ReportRequest) ([]byte, error)
}

package report

import (
	"context"
	"io"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
)

type ReportService interface {
	// AttendanceSummary returns per-user pay-cycle totals for the users actor may export
	AttendanceSummary(ctx context.Context, actor access.Actor, req AttendanceReportRequest) (AttendanceReport, error)

	// ExportAttendance writes the same report as an xlsx workbook and returns its file name
	ExportAttendance(ctx context.Context, actor access.Actor, req AttendanceReportRequest, w io.Writer) (string, error)
}

package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/clock"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	recordsSheet = "Records"
	dateLayout   = "2006-01-02"
)

type ReportServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	userRepo       user.UserRepository
	clock          clock.Clock
}

var _ report.ReportService = (*ReportServiceImpl)(nil)

func NewReportService(attendanceRepo attendance.AttendanceRepository, userRepo user.UserRepository, clk clock.Clock) *ReportServiceImpl {
	return &ReportServiceImpl{
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		clock:          clk,
	}
}

// AttendanceSummary implements report.ReportService.
func (s *ReportServiceImpl) AttendanceSummary(ctx context.Context, actor access.Actor, req report.AttendanceReportRequest) (report.AttendanceReport, error) {
	if !access.CanExportAttendance(actor) {
		return report.AttendanceReport{}, report.ErrExportForbidden
	}
	if err := req.Validate(); err != nil {
		return report.AttendanceReport{}, err
	}

	now := s.clock.Now()
	cycle := attendance.PayCycle(req.Day(now))
	scope := access.ListScope(actor)

	users, err := s.userRepo.ListByScope(ctx, scope)
	if err != nil {
		return report.AttendanceReport{}, fmt.Errorf("failed to list users: %w", err)
	}
	records, err := s.attendanceRepo.ListByRange(ctx, scope, cycle.Start, cycle.End)
	if err != nil {
		return report.AttendanceReport{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	byUser := make(map[int64][]attendance.Attendance, len(users))
	for _, rec := range records {
		byUser[rec.UserID] = append(byUser[rec.UserID], rec)
	}

	result := report.AttendanceReport{
		CycleStartDate: cycle.Start.Format(dateLayout),
		CycleEndDate:   cycle.End.Format(dateLayout),
		GeneratedAt:    now.Format(time.RFC3339),
		Users:          make([]report.UserAttendanceSummary, 0, len(users)),
	}
	for _, u := range users {
		summary := report.UserAttendanceSummary{
			UserID:       u.ID,
			Username:     u.Username,
			FullName:     u.FullName,
			DepartmentID: u.DepartmentID,
			Records:      make([]attendance.AttendanceResponse, 0, len(byUser[u.ID])),
		}
		for _, rec := range byUser[u.ID] {
			if rec.AttendanceType != nil {
				switch *rec.AttendanceType {
				case attendance.TypeFullDay:
					summary.FullDays++
				case attendance.TypeHalfDay:
					summary.HalfDays++
				}
			}
			if rec.CheckIn != nil && rec.CheckOut == nil {
				summary.OpenSessions++
			}
			summary.Records = append(summary.Records, attendance.NewAttendanceResponse(rec, now.Location()))
		}
		result.Users = append(result.Users, summary)
	}

	return result, nil
}

// ExportAttendance implements report.ReportService.
func (s *ReportServiceImpl) ExportAttendance(ctx context.Context, actor access.Actor, req report.AttendanceReportRequest, w io.Writer) (string, error) {
	data, err := s.AttendanceSummary(ctx, actor, req)
	if err != nil {
		return "", err
	}

	f, err := buildWorkbook(data)
	if err != nil {
		slog.Error("failed to build attendance workbook", "error", err)
		return "", report.ErrReportGenerationFailed
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("failed to close workbook", "error", err)
		}
	}()

	if err := f.Write(w); err != nil {
		return "", fmt.Errorf("failed to write workbook: %w", err)
	}
	return fmt.Sprintf("attendance_%s_%s.xlsx", data.CycleStartDate, data.CycleEndDate), nil
}

func buildWorkbook(data report.AttendanceReport) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(recordsSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return nil, err
	}

	// Summary sheet
	title := fmt.Sprintf("Attendance %s to %s", data.CycleStartDate, data.CycleEndDate)
	if err := f.SetCellValue(summarySheet, "A1", title); err != nil {
		return nil, err
	}
	summaryHeader := []interface{}{"Username", "Full Name", "Full Days", "Half Days", "Open Sessions"}
	if err := writeRow(f, summarySheet, 3, summaryHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(summarySheet, "A3", "E3", headerStyle); err != nil {
		return nil, err
	}

	row := 4
	for _, u := range data.Users {
		if err := writeRow(f, summarySheet, row, []interface{}{u.Username, u.FullName, u.FullDays, u.HalfDays, u.OpenSessions}); err != nil {
			return nil, err
		}
		row++
	}
	if err := f.SetColWidth(summarySheet, "A", "B", 24); err != nil {
		return nil, err
	}

	// Records sheet
	recordsHeader := []interface{}{"Date", "Username", "Full Name", "Check In", "Check Out", "Type"}
	if err := writeRow(f, recordsSheet, 1, recordsHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(recordsSheet, "A1", "F1", headerStyle); err != nil {
		return nil, err
	}

	row = 2
	for _, u := range data.Users {
		for _, rec := range u.Records {
			values := []interface{}{rec.Date, u.Username, u.FullName, deref(rec.CheckIn), deref(rec.CheckOut), ""}
			if rec.AttendanceType != nil {
				values[5] = string(*rec.AttendanceType)
			}
			if err := writeRow(f, recordsSheet, row, values); err != nil {
				return nil, err
			}
			row++
		}
	}
	if err := f.SetColWidth(recordsSheet, "A", "F", 22); err != nil {
		return nil, err
	}
	if err := f.SetPanes(recordsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

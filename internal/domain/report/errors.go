package report

import "errors"

var (
	ErrExportForbidden        = errors.New("only admins and department leaders can export attendance")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)

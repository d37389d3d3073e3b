package email

import (
	"context"
	"fmt"
	"time"

	"estate_portal/internal/importer"
)

type ImportReportData struct {
	Report     *importer.Report
	Source     string
	FinishedAt time.Time
}

// SendImportReport mails the summary of a finished (or interrupted) import run.
func (s *Service) SendImportReport(ctx context.Context, to, source string, r *importer.Report) error {
	data := ImportReportData{
		Report:     r,
		Source:     source,
		FinishedAt: time.Now(),
	}
	subject := fmt.Sprintf("Import finished: %d of %d folders imported", r.Successful, r.Total)
	if r.Failed > 0 {
		subject = fmt.Sprintf("Import finished with %d failed folders", r.Failed)
	}
	return s.sendTemplateEmail(ctx, to, subject, "import_report.html", data)
}

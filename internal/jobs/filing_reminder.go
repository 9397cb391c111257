package jobs

import (
	"context"
	"log/slog"
	"time"

	"renttracker/internal/services"

	"github.com/pkg/errors"
)

// FilingReporter classifies every LLC against a given day.
type FilingReporter interface {
	FilingReport(ctx context.Context, today time.Time) ([]services.FilingReportRow, error)
}

// FilingReminderService warns about LLCs whose annual filing is due, overdue
// or was never recorded.
type FilingReminderService struct {
	reporter FilingReporter
	logger   *slog.Logger
	now      func() time.Time
}

func NewFilingReminderService(reporter FilingReporter, loc *time.Location) *FilingReminderService {
	return &FilingReminderService{
		reporter: reporter,
		logger:   slog.Default().With("job", "filing-reminder"),
		now:      func() time.Time { return time.Now().In(loc) },
	}
}

// Check returns the rows that need attention today.
func (s *FilingReminderService) Check(ctx context.Context) ([]services.FilingReportRow, error) {
	rows, err := s.reporter.FilingReport(ctx, s.now())
	if err != nil {
		return nil, errors.Wrap(err, "could not build filing report")
	}

	var pending []services.FilingReportRow
	for _, row := range rows {
		if row.Status.NeedsAttention() {
			pending = append(pending, row)
		}
	}
	return pending, nil
}

// Run is the scheduled entry point. It logs one warning per LLC needing
// attention.
func (s *FilingReminderService) Run(ctx context.Context) error {
	pending, err := s.Check(ctx)
	if err != nil {
		s.logger.Error("filing reminder failed", "err", err)
		return err
	}
	if len(pending) == 0 {
		s.logger.Info("all LLC filings are current")
		return nil
	}

	for _, row := range pending {
		s.logger.Warn("LLC filing needs attention",
			"llc", row.LLC.Name,
			"status", row.Status,
			"last_filing_date", row.LLC.LastFilingDate,
			"deadline", row.Deadline.Format(time.DateOnly),
		)
	}
	return nil
}

package notify

import (
	"context"
	"fmt"

	"rasad-feed/internal/infra/notifier"
	"rasad-feed/internal/usecase/report"
)

// DayReports loads the report a digest is rendered from.
type DayReports interface {
	Day(ctx context.Context, day string) (*report.DayReport, error)
	Today(ctx context.Context) (*report.DayReport, error)
}

// Publisher renders a day's digest and publishes it.
type Publisher struct {
	Reports   DayReports
	Notify    *Service
	PerAgency int
}

// PublishDay sends the digest of day, or of today when day is empty. A day
// without items is not sent, and nothing is loaded when no channel is
// enabled; the returned flag tells whether a message went out.
func (p *Publisher) PublishDay(ctx context.Context, day string) (bool, error) {
	if p.Notify.Enabled() == 0 {
		return false, nil
	}
	var (
		r   *report.DayReport
		err error
	)
	if day == "" {
		r, err = p.Reports.Today(ctx)
	} else {
		r, err = p.Reports.Day(ctx, day)
	}
	if err != nil {
		return false, fmt.Errorf("load day report: %w", err)
	}
	if len(r.Items) == 0 {
		return false, nil
	}

	per := p.PerAgency
	if per <= 0 {
		per = report.DefaultDigestPerAgency
	}
	msg := notifier.Message{
		Day:   r.Day,
		Title: fmt.Sprintf("📅 خلاصه اخبار %s", r.Long),
		Body:  report.Digest(r.Agencies, per),
	}
	if err := p.Notify.Publish(ctx, msg); err != nil {
		return false, fmt.Errorf("publish digest: %w", err)
	}
	return true, nil
}

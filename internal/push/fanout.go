package push

import (
	"context"
	"log/slog"

	"newsbrief/internal/metrics"
	"newsbrief/internal/ratelimit"
	"newsbrief/internal/report"
)

// Sender sends one notification to one endpoint.
type Sender interface {
	Send(ctx context.Context, target string, p Payload) error
}

// Outcome records one send attempt during fan-out.
type Outcome struct {
	Target string
	Part   int // 1-based part index, 0 for no-update notifications
	Err    error
}

// Fanout delivers a report to every configured endpoint. Failures are
// isolated per endpoint and per part: one broken endpoint never blocks the
// rest, and a failed part is not retried.
type Fanout struct {
	sender  Sender
	targets []string
	group   string
	pacer   *ratelimit.Pacer
	log     *slog.Logger

	// Level is the optional Bark urgency flag attached to report payloads,
	// e.g. "timeSensitive".
	Level string
}

func NewFanout(sender Sender, targets []string, group string, pacer *ratelimit.Pacer, log *slog.Logger) *Fanout {
	if log == nil {
		log = slog.Default()
	}
	return &Fanout{sender: sender, targets: targets, group: group, pacer: pacer, log: log}
}

// Deliver sends every part of the report to every target, targets in
// configured order, parts in sequence order within each target. A non-empty
// link is attached to each payload. Returns one Outcome per send attempt.
func (f *Fanout) Deliver(ctx context.Context, rep report.Report, link string) []Outcome {
	outcomes := make([]Outcome, 0, len(f.targets)*len(rep.Parts))

	for _, target := range f.targets {
		for _, part := range rep.Parts {
			title := rep.Title
			if label := part.Label(); label != "" {
				title += " " + label
			}
			p := Payload{Title: title, Body: part.Body, Group: f.group, URL: link, Level: f.Level}

			err := f.send(ctx, target, p)
			outcomes = append(outcomes, Outcome{Target: target, Part: part.Index, Err: err})
			if err != nil {
				f.log.Warn("push delivery failed",
					"target", target, "part", part.Index, "total", part.Total, "error", err)
				metrics.Global.IncrementDeliveryFailures()
				continue
			}
			metrics.Global.IncrementPartsDelivered()
		}
	}
	return outcomes
}

// NotifyNoUpdate sends a single short notification to every target,
// used when a topic has nothing new today.
func (f *Fanout) NotifyNoUpdate(ctx context.Context, title, body string) []Outcome {
	outcomes := make([]Outcome, 0, len(f.targets))

	for _, target := range f.targets {
		p := Payload{Title: title, Body: body, Group: f.group}

		err := f.send(ctx, target, p)
		outcomes = append(outcomes, Outcome{Target: target, Err: err})
		if err != nil {
			f.log.Warn("no-update notification failed", "target", target, "error", err)
			metrics.Global.IncrementDeliveryFailures()
		}
	}
	return outcomes
}

func (f *Fanout) send(ctx context.Context, target string, p Payload) error {
	if err := f.pacer.Wait(ctx); err != nil {
		return err
	}
	return f.sender.Send(ctx, target, p)
}

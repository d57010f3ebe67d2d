package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/domain/period"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/model"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/mailer"
)

// notifier builds director emails from a fully loaded delivery
// (School, Period.Program, Period.Cycle).
type notifier struct {
	mailer mailer.Mailer
	loc    *time.Location
	logger *zap.Logger
}

func newNotifier(m mailer.Mailer, loc *time.Location, logger *zap.Logger) *notifier {
	if loc == nil {
		loc = time.UTC
	}
	return &notifier{mailer: m, loc: loc, logger: logger}
}

func (n *notifier) message(kind mailer.Kind, d *model.Delivery, extra mailer.Data) mailer.Message {
	data := extra
	if d.School != nil {
		data.SchoolName = d.School.Name
	}
	if p := d.Period; p != nil {
		data.PeriodLabel = period.Label(p.Month, p.Year, p.Semester, cycleNameOf(p))
		if p.Program != nil {
			data.ProgramName = p.Program.Name
		}
		if p.Deadline != nil {
			data.Deadline = period.LongDate(*p.Deadline, n.loc)
		}
	}
	msg := mailer.Message{Kind: kind, Data: data}
	if d.School != nil {
		msg.To = d.School.Email
	}
	return msg
}

// send delivers the message and reports the error to the caller, which
// decides whether it matters.
func (n *notifier) send(ctx context.Context, kind mailer.Kind, d *model.Delivery, extra mailer.Data) error {
	msg := n.message(kind, d, extra)
	if err := n.mailer.Send(ctx, msg); err != nil {
		n.logger.Warn("notification failed",
			zap.String("kind", string(kind)),
			zap.String("delivery", d.DeliveryID),
			zap.String("to", msg.To),
			zap.Error(err),
		)
		return err
	}
	return nil
}

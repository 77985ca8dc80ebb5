package notify

import (
	"context"
	"log/slog"

	"github.com/qrave1/MeetPlanner/internal/application/constant"
	"github.com/qrave1/MeetPlanner/internal/domain/models"
)

// LogNotifier пишет письма в лог. Используется, когда SMTP не настроен.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendCreated(ctx context.Context, m models.Meeting) error {
	return n.write(ctx, kindCreated, m)
}

func (n *LogNotifier) SendEdited(ctx context.Context, m models.Meeting) error {
	return n.write(ctx, kindEdited, m)
}

func (n *LogNotifier) SendDeleted(ctx context.Context, m models.Meeting) error {
	return n.write(ctx, kindDeleted, m)
}

func (n *LogNotifier) SendReminder(ctx context.Context, m models.Meeting) error {
	return n.write(ctx, kindReminder, m)
}

func (n *LogNotifier) write(ctx context.Context, k kind, m models.Meeting) error {
	e, err := render(k, m)
	if err != nil {
		return err
	}

	n.log.InfoContext(
		ctx,
		"mail",
		slog.String("to", e.To),
		slog.String("subject", e.Subject),
		slog.String(constant.MeetingID, m.MeetingID),
	)

	return nil
}

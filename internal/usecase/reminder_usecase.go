package usecase

import (
	"context"
	"log/slog"

	"github.com/qrave1/MeetPlanner/internal/application/constant"
	"github.com/qrave1/MeetPlanner/internal/application/metric"
	"github.com/qrave1/MeetPlanner/internal/domain/models"
)

// ReminderUsecase срабатывает по таймеру: письмо пользователю и событие
// с именем userId всем соединениям
type ReminderUsecase struct {
	notifier Notifier
	router   RoomRouter
}

func NewReminderUsecase(notifier Notifier, router RoomRouter) *ReminderUsecase {
	return &ReminderUsecase{
		notifier: notifier,
		router:   router,
	}
}

func (uc *ReminderUsecase) Remind(ctx context.Context, meeting models.Meeting) {
	slog.InfoContext(
		ctx,
		"meeting reminder",
		slog.String(constant.MeetingID, meeting.MeetingID),
		slog.String(constant.UserID, meeting.UserID),
	)

	if err := uc.notifier.SendReminder(ctx, meeting); err != nil {
		uc.logFailure(ctx, meeting, StageNotify, err)
	}

	if err := uc.router.EmitAll(ctx, meeting.UserID, meeting); err != nil {
		uc.logFailure(ctx, meeting, StageBroadcast, err)
	}
}

func (uc *ReminderUsecase) logFailure(ctx context.Context, meeting models.Meeting, stage string, err error) {
	slog.ErrorContext(
		ctx,
		"reminder side effect failed",
		slog.String(constant.Stage, stage),
		slog.String(constant.MeetingID, meeting.MeetingID),
		slog.Any(constant.Error, err),
	)

	metric.RecordSideEffectFailure(stage)
}

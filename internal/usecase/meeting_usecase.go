package usecase

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/qrave1/MeetPlanner/internal/application/constant"
	"github.com/qrave1/MeetPlanner/internal/application/metric"
	"github.com/qrave1/MeetPlanner/internal/domain/events"
	"github.com/qrave1/MeetPlanner/internal/domain/input"
	"github.com/qrave1/MeetPlanner/internal/domain/models"
)

// Этапы побочных эффектов, по ним считаются метрики ошибок
const (
	StageBroadcast = "broadcast"
	StageNotify    = "notify"
	StageReminder  = "reminder"
)

const (
	opCreate = "create"
	opEdit   = "edit"
	opDelete = "delete"
)

type MeetingStore interface {
	MeetingFinder

	Insert(ctx context.Context, meeting *models.Meeting) error
	UpdateByMeetingID(ctx context.Context, meetingID string, patch models.MeetingPatch) (*models.Meeting, error)
	RemoveByMeetingID(ctx context.Context, meetingID string) (*models.Meeting, error)
}

type Notifier interface {
	SendCreated(ctx context.Context, meeting models.Meeting) error
	SendEdited(ctx context.Context, meeting models.Meeting) error
	SendDeleted(ctx context.Context, meeting models.Meeting) error
	SendReminder(ctx context.Context, meeting models.Meeting) error
}

type ReminderScheduler interface {
	Schedule(meetingID string, fireAt time.Time, payload models.Meeting)
	Cancel(meetingID string)
}

// Outcome - результат успешной записи. Advisories - ошибки побочных эффектов,
// запись они не откатывают.
type Outcome struct {
	Meeting    *models.Meeting
	Conflict   bool
	Message    string
	Advisories []error
}

type MeetingUsecase interface {
	CreateMeeting(ctx context.Context, in *input.MeetingInput) (*Outcome, error)
	EditMeeting(ctx context.Context, in *input.MeetingInput) (*Outcome, error)
	DeleteMeeting(ctx context.Context, in *input.MeetingInput) (*Outcome, error)
}

type meetingUsecase struct {
	store     MeetingStore
	conflicts ConflictChecker
	router    RoomRouter
	notifier  Notifier
	reminders ReminderScheduler

	// reminderLead - за сколько до начала встречи срабатывает напоминание
	reminderLead time.Duration
}

func NewMeetingUsecase(
	store MeetingStore,
	conflicts ConflictChecker,
	router RoomRouter,
	notifier Notifier,
	reminders ReminderScheduler,
	reminderLead time.Duration,
) MeetingUsecase {
	return &meetingUsecase{
		store:        store,
		conflicts:    conflicts,
		router:       router,
		notifier:     notifier,
		reminders:    reminders,
		reminderLead: reminderLead,
	}
}

func (uc *meetingUsecase) CreateMeeting(ctx context.Context, in *input.MeetingInput) (*Outcome, error) {
	if err := validateMeeting(in); err != nil {
		return nil, uc.fail(opCreate, err)
	}

	conflict, err := uc.conflicts.HasConflict(ctx, in.UserID, in.Start, in.End, "")
	if err != nil {
		return nil, uc.fail(opCreate, newReadError(opCreate, "Error occured while getting the Meetings", err))
	}

	meeting := models.NewMeeting(in, conflict)

	if err = uc.store.Insert(ctx, meeting); err != nil {
		return nil, uc.fail(opCreate, newWriteError(opCreate, "Failed to create new meeting", err))
	}

	out := &Outcome{Meeting: meeting, Conflict: conflict, Message: "Meeting created"}

	uc.broadcast(ctx, out, events.UpdateMeeting)
	uc.notify(ctx, out, uc.notifier.SendCreated)
	uc.schedule(out)

	metric.RecordMeetingOperation(opCreate, "ok")

	return out, nil
}

func (uc *meetingUsecase) EditMeeting(ctx context.Context, in *input.MeetingInput) (*Outcome, error) {
	if err := validateMeeting(in); err != nil {
		return nil, uc.fail(opEdit, err)
	}

	conflict, err := uc.conflicts.HasConflict(ctx, in.UserID, in.Start, in.End, in.MeetingID)
	if err != nil {
		return nil, uc.fail(opEdit, newReadError(opEdit, "Error occured while getting the Meetings", err))
	}

	meeting, err := uc.store.UpdateByMeetingID(ctx, in.MeetingID, models.NewMeetingPatch(in, conflict))
	if err != nil {
		return nil, uc.fail(opEdit, newWriteError(opEdit, "Failed to edit meeting", err))
	}

	out := &Outcome{Meeting: meeting, Conflict: conflict, Message: "Meeting saved"}

	uc.broadcast(ctx, out, events.UpdateMeeting)
	uc.notify(ctx, out, uc.notifier.SendEdited)
	uc.schedule(out)

	metric.RecordMeetingOperation(opEdit, "ok")

	return out, nil
}

func (uc *meetingUsecase) DeleteMeeting(ctx context.Context, in *input.MeetingInput) (*Outcome, error) {
	if in.MeetingID == "" {
		return nil, uc.fail(opDelete, newMissingFieldError("meetingId"))
	}

	meeting, err := uc.store.RemoveByMeetingID(ctx, in.MeetingID)
	if err != nil {
		return nil, uc.fail(opDelete, newWriteError(opDelete, "Failed to delete meeting", err))
	}

	out := &Outcome{Meeting: meeting, Message: "Meeting deleted"}

	// Комната берется из сохраненной встречи, а не из запроса
	uc.broadcast(ctx, out, events.DeleteMeeting)
	uc.notify(ctx, out, uc.notifier.SendDeleted)
	uc.reminders.Cancel(meeting.MeetingID)

	metric.RecordMeetingOperation(opDelete, "ok")

	return out, nil
}

func (uc *meetingUsecase) broadcast(ctx context.Context, out *Outcome, eventType string) {
	envelope := events.NewEnvelope(false, out.Message, http.StatusOK, out.Meeting)

	if err := uc.router.Broadcast(ctx, out.Meeting.UserID, eventType, envelope); err != nil {
		uc.advise(ctx, out, StageBroadcast, err)
	}
}

func (uc *meetingUsecase) notify(ctx context.Context, out *Outcome, send func(context.Context, models.Meeting) error) {
	if err := send(ctx, *out.Meeting); err != nil {
		uc.advise(ctx, out, StageNotify, err)
	}
}

func (uc *meetingUsecase) schedule(out *Outcome) {
	uc.reminders.Schedule(out.Meeting.MeetingID, out.Meeting.Start.Add(-uc.reminderLead), *out.Meeting)
}

func (uc *meetingUsecase) advise(ctx context.Context, out *Outcome, stage string, err error) {
	slog.ErrorContext(
		ctx,
		"meeting side effect failed",
		slog.String(constant.Stage, stage),
		slog.String(constant.MeetingID, out.Meeting.MeetingID),
		slog.Any(constant.Error, err),
	)

	metric.RecordSideEffectFailure(stage)

	out.Advisories = append(out.Advisories, err)
}

func (uc *meetingUsecase) fail(op string, err error) error {
	metric.RecordMeetingOperation(op, "error")

	return err
}

func validateMeeting(in *input.MeetingInput) error {
	required := []struct {
		field string
		empty bool
	}{
		{"meetingId", in.MeetingID == ""},
		{"adminId", in.AdminID == ""},
		{"adminUserName", in.AdminUserName == ""},
		{"adminFullName", in.AdminFullName == ""},
		{"userId", in.UserID == ""},
		{"userFullName", in.UserFullName == ""},
		{"userEmail", in.UserEmail == ""},
		{"start", in.Start.IsZero()},
		{"end", in.End.IsZero()},
		{"place", in.Place == ""},
		{"title", in.Title == ""},
	}

	for _, r := range required {
		if r.empty {
			return newMissingFieldError(r.field)
		}
	}

	if !in.End.After(in.Start) {
		return &ValidationError{Field: "end", Message: "End time must be greater than the start time"}
	}

	return nil
}

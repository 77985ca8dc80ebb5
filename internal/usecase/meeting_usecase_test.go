package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrave1/MeetPlanner/internal/domain/events"
	"github.com/qrave1/MeetPlanner/internal/domain/input"
	"github.com/qrave1/MeetPlanner/internal/domain/models"
)

func TestMeetingUsecase_CreateMeeting(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	room := f.watch("u1")
	other := f.watch("u2")

	out, err := f.meetings.CreateMeeting(ctx, meetingInput("m1", "u1", at(10, 0), at(11, 0)))
	require.NoError(t, err)

	assert.False(t, out.Conflict)
	assert.Empty(t, out.Advisories)
	assert.Equal(t, models.ColorDefault, out.Meeting.Color)
	assert.Equal(t, 2025, out.Meeting.YearPartition)

	msgs := room.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, events.UpdateMeeting, msgs[0].Type)

	env := decodeEnvelope(t, msgs[0])
	assert.False(t, env.Error)
	assert.Equal(t, http.StatusOK, env.Status)
	assert.Equal(t, "Meeting created", env.Message)
	assert.Equal(t, "m1", env.Data.MeetingID)
	assert.Empty(t, other.Messages())

	assert.Equal(t, []string{"m1"}, f.notifier.Sent("created"))
	assert.Equal(t, at(9, 59), f.scheduler.armed["m1"])
}

func TestMeetingUsecase_OverlappingCreateIsMarkedRed(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.meetings.CreateMeeting(ctx, meetingInput("m1", "u1", at(10, 0), at(11, 0)))
	require.NoError(t, err)

	out, err := f.meetings.CreateMeeting(ctx, meetingInput("m2", "u1", at(10, 30), at(11, 30)))
	require.NoError(t, err)
	assert.True(t, out.Conflict)
	assert.Equal(t, models.ColorConflict, out.Meeting.Color)

	stored, err := f.store.Find(ctx, input.MeetingFilter{UserID: "u1"})
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestMeetingUsecase_SyncThenOverlap(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	room := f.watch("u1")

	sync := meetingInput("m1", "u1", at(10, 0), at(10, 30))
	sync.Title = "Sync"

	out, err := f.meetings.CreateMeeting(ctx, sync)
	require.NoError(t, err)
	assert.False(t, out.Conflict)
	assert.Equal(t, models.ColorDefault, out.Meeting.Color)
	assert.Equal(t, at(9, 59), f.scheduler.armed["m1"])

	msgs := room.Messages()
	require.Len(t, msgs, 1)
	env := decodeEnvelope(t, msgs[0])
	assert.Equal(t, http.StatusOK, env.Status)
	assert.Equal(t, "Meeting created", env.Message)
	assert.Equal(t, "Sync", env.Data.Title)

	out, err = f.meetings.CreateMeeting(ctx, meetingInput("m2", "u1", at(10, 15), at(10, 45)))
	require.NoError(t, err)
	assert.True(t, out.Conflict)
	assert.Equal(t, models.ColorConflict, out.Meeting.Color)

	stored, err := f.store.Find(ctx, input.MeetingFilter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, stored, 2)

	colors := map[string]models.Color{}
	for _, m := range stored {
		colors[m.MeetingID] = m.Color
	}
	assert.Equal(t, map[string]models.Color{"m1": models.ColorDefault, "m2": models.ColorConflict}, colors)
}

func TestMeetingUsecase_EditKeepingTimeDoesNotSelfConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.meetings.CreateMeeting(ctx, meetingInput("m1", "u1", at(10, 0), at(10, 30)))
	require.NoError(t, err)

	edit := meetingInput("m1", "u1", at(10, 0), at(10, 30))
	edit.Place = "Room 2"

	out, err := f.meetings.EditMeeting(ctx, edit)
	require.NoError(t, err)
	assert.False(t, out.Conflict)
	assert.Equal(t, models.ColorDefault, out.Meeting.Color)
	assert.Equal(t, "Room 2", out.Meeting.Place)
	assert.Equal(t, at(9, 59), f.scheduler.armed["m1"])
}

func TestMeetingUsecase_CreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *input.MeetingInput)
		message string
	}{
		{"missing meeting id", func(in *input.MeetingInput) { in.MeetingID = "" }, "meetingId parameter is missing"},
		{"missing admin", func(in *input.MeetingInput) { in.AdminID = "" }, "adminId parameter is missing"},
		{"first missing wins", func(in *input.MeetingInput) { in.Title = ""; in.UserEmail = "" }, "userEmail parameter is missing"},
		{"missing start", func(in *input.MeetingInput) { in.Start = time.Time{} }, "start parameter is missing"},
		{"end equals start", func(in *input.MeetingInput) { in.End = in.Start }, "End time must be greater than the start time"},
		{"end before start", func(in *input.MeetingInput) { in.End = at(9, 0) }, "End time must be greater than the start time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			room := f.watch("u1")

			in := meetingInput("m1", "u1", at(10, 0), at(11, 0))
			tt.mutate(in)

			out, err := f.meetings.CreateMeeting(context.Background(), in)
			require.Nil(t, out)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)

			status, message := Describe(err)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.message, message)

			stored, _ := f.store.Find(context.Background(), input.MeetingFilter{})
			assert.Empty(t, stored)
			assert.Empty(t, room.Messages())
			assert.Empty(t, f.notifier.Sent("created"))
			assert.Empty(t, f.scheduler.armed)
		})
	}
}

func TestMeetingUsecase_DuplicateMeetingID(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.meetings.CreateMeeting(ctx, meetingInput("m1", "u1", at(10, 0), at(11, 0)))
	require.NoError(t, err)

	_, err = f.meetings.CreateMeeting(ctx, meetingInput("m1", "u1", at(14, 0), at(15, 0)))
	require.ErrorIs(t, err, models.ErrAlreadyExists)

	status, message := Describe(err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Failed to create new meeting", message)
	assert.Equal(t, []string{"m1"}, f.notifier.Sent("created"))
}

func TestMeetingUsecase_ConflictReadFailure(t *testing.T) {
	f := newFixture()
	uc := NewMeetingUsecase(f.store, NewConflictChecker(failingFinder{}), f.router, f.notifier, f.scheduler, 0)

	_, err := uc.CreateMeeting(context.Background(), meetingInput("m1", "u1", at(10, 0), at(11, 0)))

	status, message := Describe(err)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Error occured while getting the Meetings", message)

	stored, _ := f.store.Find(context.Background(), input.MeetingFilter{})
	assert.Empty(t, stored)
}

func TestMeetingUsecase_SideEffectFailuresAreAdvisory(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	broken := f.watch("u1")
	broken.err = errors.New("broken pipe")
	f.notifier.err = errors.New("smtp down")

	out, err := f.meetings.CreateMeeting(ctx, meetingInput("m1", "u1", at(10, 0), at(11, 0)))
	require.NoError(t, err)
	assert.Len(t, out.Advisories, 2)

	stored, err := f.store.Find(ctx, input.MeetingFilter{UserID: "u1"})
	require.NoError(t, err)
	assert.Len(t, stored, 1)
	assert.Contains(t, f.scheduler.armed, "m1")
}

func TestMeetingUsecase_EditMeeting(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.meetings.CreateMeeting(ctx, meetingInput("m1", "u1", at(10, 0), at(11, 0)))
	require.NoError(t, err)

	room := f.watch("u1")

	// Сдвиг внутри собственного интервала не конфликт
	edit := meetingInput("m1", "u1", at(10, 30), at(11, 30))
	edit.Title = "Moved"

	out, err := f.meetings.EditMeeting(ctx, edit)
	require.NoError(t, err)
	assert.False(t, out.Conflict)
	assert.Equal(t, "Moved", out.Meeting.Title)
	assert.Equal(t, models.ColorDefault, out.Meeting.Color)

	msgs := room.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, events.UpdateMeeting, msgs[0].Type)
	assert.Equal(t, "Meeting saved", decodeEnvelope(t, msgs[0]).Message)

	assert.Equal(t, []string{"m1"}, f.notifier.Sent("edited"))
	assert.Equal(t, at(10, 29), f.scheduler.armed["m1"])
}

func TestMeetingUsecase_EditIntoConflictTurnsRed(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.meetings.CreateMeeting(ctx, meetingInput("m1", "u1", at(10, 0), at(11, 0)))
	require.NoError(t, err)
	_, err = f.meetings.CreateMeeting(ctx, meetingInput("m2", "u1", at(12, 0), at(13, 0)))
	require.NoError(t, err)

	out, err := f.meetings.EditMeeting(ctx, meetingInput("m2", "u1", at(10, 45), at(11, 45)))
	require.NoError(t, err)
	assert.True(t, out.Conflict)
	assert.Equal(t, models.ColorConflict, out.Meeting.Color)
}

func TestMeetingUsecase_EditUnknownMeeting(t *testing.T) {
	f := newFixture()

	_, err := f.meetings.EditMeeting(context.Background(), meetingInput("missing", "u1", at(10, 0), at(11, 0)))
	require.ErrorIs(t, err, models.ErrNotFound)

	status, message := Describe(err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Failed to edit meeting", message)
	assert.Empty(t, f.notifier.Sent("edited"))
	assert.Empty(t, f.scheduler.armed)
}

func TestMeetingUsecase_DeleteMeeting(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.meetings.CreateMeeting(ctx, meetingInput("m1", "u1", at(10, 0), at(11, 0)))
	require.NoError(t, err)

	room := f.watch("u1")

	// userId в запросе не используется для выбора комнаты
	out, err := f.meetings.DeleteMeeting(ctx, &input.MeetingInput{MeetingID: "m1", UserID: "someone-else"})
	require.NoError(t, err)
	assert.Equal(t, "u1", out.Meeting.UserID)

	msgs := room.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, events.DeleteMeeting, msgs[0].Type)
	assert.Equal(t, "Meeting deleted", decodeEnvelope(t, msgs[0]).Message)

	assert.Equal(t, []string{"m1"}, f.notifier.Sent("deleted"))
	assert.NotContains(t, f.scheduler.armed, "m1")
}

func TestMeetingUsecase_DeleteUnknownMeeting(t *testing.T) {
	f := newFixture()
	room := f.watch("u1")

	out, err := f.meetings.DeleteMeeting(context.Background(), &input.MeetingInput{MeetingID: "missing"})
	require.Nil(t, out)

	status, message := Describe(err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Failed to delete meeting", message)
	assert.Empty(t, room.Messages())
	assert.Empty(t, f.notifier.Sent("deleted"))
}

func TestMeetingUsecase_DeleteRequiresMeetingID(t *testing.T) {
	f := newFixture()

	_, err := f.meetings.DeleteMeeting(context.Background(), &input.MeetingInput{})

	_, message := Describe(err)
	assert.Equal(t, "meetingId parameter is missing", message)
}

func TestMeetingUsecase_StuckConnectionDoesNotBlockPipeline(t *testing.T) {
	f := newFixture()
	f.watchStuck("u1")
	room := f.watch("u1")

	type result struct {
		out *Outcome
		err error
	}

	done := make(chan result, 1)
	go func() {
		out, err := f.meetings.CreateMeeting(context.Background(), meetingInput("m1", "u1", at(10, 0), at(11, 0)))
		done <- result{out, err}
	}()

	var res result
	select {
	case res = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("create blocked on a connection that does not read")
	}

	require.NoError(t, res.err)
	require.Len(t, res.out.Advisories, 1)
	assert.ErrorContains(t, res.out.Advisories[0], "i/o timeout")

	assert.Len(t, room.Messages(), 1)
	assert.Equal(t, []string{"m1"}, f.notifier.Sent("created"))
	assert.Equal(t, at(9, 59), f.scheduler.armed["m1"])
}

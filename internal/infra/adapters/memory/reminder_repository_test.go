package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrave1/MeetPlanner/internal/domain/models"
)

type recordingHandler struct {
	mu    sync.Mutex
	fired []models.Meeting
	ch    chan models.Meeting
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{ch: make(chan models.Meeting, 16)}
}

func (h *recordingHandler) Remind(ctx context.Context, meeting models.Meeting) {
	h.mu.Lock()
	h.fired = append(h.fired, meeting)
	h.mu.Unlock()

	h.ch <- meeting
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.fired)
}

func (h *recordingHandler) wait(t *testing.T) models.Meeting {
	t.Helper()

	select {
	case m := <-h.ch:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("reminder did not fire")
		return models.Meeting{}
	}
}

func TestReminderRepository_RescheduleKeepsSingleTimer(t *testing.T) {
	h := newRecordingHandler()
	repo := NewReminderRepository(h, nil)
	defer repo.Stop()

	fireAt := time.Now().Add(50 * time.Millisecond)

	repo.Schedule("m-1", fireAt, models.Meeting{MeetingID: "m-1", Title: "first"})
	repo.Schedule("m-1", fireAt, models.Meeting{MeetingID: "m-1", Title: "second"})

	assert.Equal(t, 1, repo.Len())

	got := h.wait(t)
	assert.Equal(t, "second", got.Title)

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 1, h.count())
	assert.Equal(t, 0, repo.Len())
}

func TestReminderRepository_PastFireAtFiresImmediately(t *testing.T) {
	h := newRecordingHandler()
	repo := NewReminderRepository(h, nil)
	defer repo.Stop()

	repo.Schedule("m-1", time.Now().Add(-time.Hour), models.Meeting{MeetingID: "m-1"})

	got := h.wait(t)
	assert.Equal(t, "m-1", got.MeetingID)

	_, pending := repo.Pending("m-1")
	assert.False(t, pending)
}

func TestReminderRepository_CancelPreventsFire(t *testing.T) {
	h := newRecordingHandler()
	repo := NewReminderRepository(h, nil)
	defer repo.Stop()

	repo.Schedule("m-1", time.Now().Add(30*time.Millisecond), models.Meeting{MeetingID: "m-1"})
	repo.Cancel("m-1")

	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, 0, h.count())
	assert.Equal(t, 0, repo.Len())
}

func TestReminderRepository_CancelUnknownIsNoop(t *testing.T) {
	repo := NewReminderRepository(newRecordingHandler(), nil)

	assert.NotPanics(t, func() {
		repo.Cancel("missing")
	})
	assert.Equal(t, 0, repo.Len())
}

func TestReminderRepository_PendingUsesInjectedClock(t *testing.T) {
	now := time.Date(2026, time.May, 4, 9, 0, 0, 0, time.UTC)
	repo := NewReminderRepository(newRecordingHandler(), func() time.Time { return now })
	defer repo.Stop()

	fireAt := time.Date(2026, time.May, 4, 9, 59, 0, 0, time.UTC)
	repo.Schedule("m-1", fireAt, models.Meeting{MeetingID: "m-1"})

	got, ok := repo.Pending("m-1")
	require.True(t, ok)
	assert.Equal(t, fireAt, got)
}

func TestReminderRepository_StopCancelsAll(t *testing.T) {
	h := newRecordingHandler()
	repo := NewReminderRepository(h, nil)

	for _, id := range []string{"a", "b", "c"} {
		repo.Schedule(id, time.Now().Add(30*time.Millisecond), models.Meeting{MeetingID: id})
	}

	repo.Stop()
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, 0, h.count())
	assert.Equal(t, 0, repo.Len())
}

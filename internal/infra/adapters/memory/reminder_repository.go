package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/qrave1/MeetPlanner/internal/application/constant"
	"github.com/qrave1/MeetPlanner/internal/application/metric"
	"github.com/qrave1/MeetPlanner/internal/domain/models"
)

// ReminderHandler вызывается один раз при срабатывании напоминания
type ReminderHandler interface {
	Remind(ctx context.Context, meeting models.Meeting)
}

// ReminderRepository - реестр одноразовых таймеров по id встречи.
// Таймеры живут только в памяти процесса и теряются при рестарте.
type ReminderRepository interface {
	// Schedule отменяет текущий таймер встречи и ставит новый.
	// Если fireAt уже в прошлом, напоминание срабатывает сразу.
	Schedule(meetingID string, fireAt time.Time, payload models.Meeting)

	// Cancel снимает таймер, отсутствие таймера не ошибка
	Cancel(meetingID string)

	Pending(meetingID string) (time.Time, bool)
	Len() int

	// Stop снимает все таймеры
	Stop()
}

type reminder struct {
	timer  *time.Timer
	fireAt time.Time
}

type reminderRepository struct {
	handler ReminderHandler
	now     func() time.Time

	// reminders хранит map[meeting_id]*reminder
	reminders map[string]*reminder
	mu        sync.Mutex
}

func NewReminderRepository(handler ReminderHandler, now func() time.Time) ReminderRepository {
	if now == nil {
		now = time.Now
	}

	return &reminderRepository{
		handler:   handler,
		now:       now,
		reminders: make(map[string]*reminder),
	}
}

func (r *reminderRepository) Schedule(meetingID string, fireAt time.Time, payload models.Meeting) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cancelLocked(meetingID)

	delay := fireAt.Sub(r.now())
	if delay < 0 {
		delay = 0
	}

	entry := &reminder{fireAt: fireAt}
	entry.timer = time.AfterFunc(delay, func() {
		r.fire(meetingID, entry, payload)
	})

	r.reminders[meetingID] = entry

	metric.SetRemindersArmed(len(r.reminders))

	slog.Debug(
		"reminder scheduled",
		slog.String(constant.MeetingID, meetingID),
		slog.Time(constant.FireAt, fireAt),
	)
}

func (r *reminderRepository) Cancel(meetingID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancelLocked(meetingID) {
		metric.SetRemindersArmed(len(r.reminders))
	}
}

func (r *reminderRepository) cancelLocked(meetingID string) bool {
	entry, ok := r.reminders[meetingID]
	if !ok {
		return false
	}

	entry.timer.Stop()
	delete(r.reminders, meetingID)

	return true
}

func (r *reminderRepository) Pending(meetingID string) (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.reminders[meetingID]
	if !ok {
		return time.Time{}, false
	}

	return entry.fireAt, true
}

func (r *reminderRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.reminders)
}

func (r *reminderRepository) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for meetingID, entry := range r.reminders {
		entry.timer.Stop()
		delete(r.reminders, meetingID)
	}

	metric.SetRemindersArmed(0)
}

func (r *reminderRepository) fire(meetingID string, entry *reminder, payload models.Meeting) {
	r.mu.Lock()

	// Таймер мог быть заменен или снят, пока колбэк ждал блокировку
	if current, ok := r.reminders[meetingID]; !ok || current != entry {
		r.mu.Unlock()
		return
	}

	delete(r.reminders, meetingID)
	armed := len(r.reminders)

	r.mu.Unlock()

	metric.SetRemindersArmed(armed)
	metric.IncrementRemindersFired()

	r.handler.Remind(context.Background(), payload)
}

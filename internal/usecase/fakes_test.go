package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/qrave1/MeetPlanner/internal/domain/events"
	"github.com/qrave1/MeetPlanner/internal/domain/input"
	"github.com/qrave1/MeetPlanner/internal/domain/models"
	"github.com/qrave1/MeetPlanner/internal/infra/adapters/memory"
)

// fakeConn записывает отправленные события
type fakeConn struct {
	mu       sync.Mutex
	messages []events.Message
	err      error
}

func (c *fakeConn) SetWriteDeadline(t time.Time) error { return nil }

func (c *fakeConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return c.err
	}

	c.messages = append(c.messages, v.(events.Message))

	return nil
}

func (c *fakeConn) Messages() []events.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]events.Message(nil), c.messages...)
}

func (c *fakeConn) Types() []string {
	var types []string
	for _, m := range c.Messages() {
		types = append(types, m.Type)
	}

	return types
}

// stuckConn - клиент, который перестал читать: запись завершается только по дедлайну
type stuckConn struct {
	mu       sync.Mutex
	deadline time.Time
}

func (c *stuckConn) SetWriteDeadline(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.deadline = t

	return nil
}

func (c *stuckConn) WriteJSON(v any) error {
	c.mu.Lock()
	wait := time.Until(c.deadline)
	c.mu.Unlock()

	<-time.After(wait)

	return errors.New("i/o timeout")
}

type decodedEnvelope struct {
	Error   bool           `json:"error"`
	Message string         `json:"message"`
	Status  int            `json:"status"`
	Data    models.Meeting `json:"data"`
}

func decodeEnvelope(t *testing.T, msg events.Message) decodedEnvelope {
	t.Helper()

	var env decodedEnvelope
	require.NoError(t, json.Unmarshal(msg.Data, &env))

	return env
}

type fakeNotifier struct {
	mu    sync.Mutex
	sent  map[string][]string
	err   error
	fired chan models.Meeting
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(map[string][]string), fired: make(chan models.Meeting, 8)}
}

func (n *fakeNotifier) record(kind string, m models.Meeting) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.err != nil {
		return n.err
	}

	n.sent[kind] = append(n.sent[kind], m.MeetingID)

	return nil
}

func (n *fakeNotifier) SendCreated(ctx context.Context, m models.Meeting) error {
	return n.record("created", m)
}

func (n *fakeNotifier) SendEdited(ctx context.Context, m models.Meeting) error {
	return n.record("edited", m)
}

func (n *fakeNotifier) SendDeleted(ctx context.Context, m models.Meeting) error {
	return n.record("deleted", m)
}

func (n *fakeNotifier) SendReminder(ctx context.Context, m models.Meeting) error {
	err := n.record("reminder", m)
	n.fired <- m

	return err
}

func (n *fakeNotifier) Sent(kind string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]string(nil), n.sent[kind]...)
}

// fakeScheduler запоминает последнее время срабатывания по встрече
type fakeScheduler struct {
	armed map[string]time.Time
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{armed: make(map[string]time.Time)}
}

func (s *fakeScheduler) Schedule(meetingID string, fireAt time.Time, payload models.Meeting) {
	s.armed[meetingID] = fireAt
}

func (s *fakeScheduler) Cancel(meetingID string) {
	delete(s.armed, meetingID)
}

type failingFinder struct{}

func (failingFinder) Find(ctx context.Context, filter input.MeetingFilter) ([]models.Meeting, error) {
	return nil, errors.New("connection refused")
}

type staticVerifier map[string]string

func (v staticVerifier) Verify(token string) (string, error) {
	subject, ok := v[token]
	if !ok {
		return "", errors.New("bad token")
	}

	return subject, nil
}

// fixture - собранный конвейер встреч поверх хранилищ в памяти
type fixture struct {
	store     *memory.MeetingRepository
	wsRepo    memory.WebsocketConnectionRepository
	router    RoomRouter
	notifier  *fakeNotifier
	scheduler *fakeScheduler
	meetings  MeetingUsecase
}

func newFixture() *fixture {
	f := &fixture{
		store:     memory.NewMeetingRepository(),
		wsRepo:    memory.NewWSConnectionRepository(memory.WithWriteTimeout(50 * time.Millisecond)),
		notifier:  newFakeNotifier(),
		scheduler: newFakeScheduler(),
	}

	f.router = NewRoomRouter(f.wsRepo, memory.NewRoomRepository())
	f.meetings = NewMeetingUsecase(
		f.store,
		NewConflictChecker(f.store),
		f.router,
		f.notifier,
		f.scheduler,
		time.Minute,
	)

	return f
}

// watch подключает соединение к комнате
func (f *fixture) watch(room string) *fakeConn {
	conn := &fakeConn{}
	connID := uuid.New()

	f.wsRepo.Add(connID, conn)
	f.router.Join(context.Background(), connID, room)

	return conn
}

func (f *fixture) watchStuck(room string) {
	connID := uuid.New()

	f.wsRepo.Add(connID, &stuckConn{})
	f.router.Join(context.Background(), connID, room)
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 6, 1, hour, minute, 0, 0, time.UTC)
}

func meetingInput(id, userID string, start, end time.Time) *input.MeetingInput {
	return &input.MeetingInput{
		MeetingID:     id,
		AdminID:       "admin-1",
		AdminUserName: "ann",
		AdminFullName: "Ann Admin",
		UserID:        userID,
		UserFullName:  "Bob User",
		UserEmail:     "bob@example.com",
		Start:         start,
		End:           end,
		Place:         "Room 1",
		Title:         "Sync",
	}
}

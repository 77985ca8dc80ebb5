package memory

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/qrave1/MeetPlanner/internal/application/metric"
)

var ErrConnectionNotFound = errors.New("websocket connection not found")

// DefaultWriteTimeout - сколько ждать запись в одно соединение.
// Зависший клиент превращается в ошибку доставки и не держит рассылку.
const DefaultWriteTimeout = 10 * time.Second

// Conn - то, что нужно от *websocket.Conn для отправки событий
type Conn interface {
	SetWriteDeadline(t time.Time) error
	WriteJSON(v any) error
}

type WSOption func(*wsConnectionRepository)

// WithWriteTimeout задает дедлайн записи в соединение
func WithWriteTimeout(d time.Duration) WSOption {
	return func(w *wsConnectionRepository) {
		w.writeTimeout = d
	}
}

// WebsocketConnectionRepository интерфейс для работы с активными соединениями в памяти
type WebsocketConnectionRepository interface {
	Add(uuid.UUID, Conn)
	Remove(uuid.UUID)

	Write(uuid.UUID, any) error
	GetAllConnected() []uuid.UUID
}

type safeWS struct {
	conn Conn
	mu   sync.Mutex
}

type wsConnectionRepository struct {
	// wsConns хранит map[connection_id]*ws.conn
	wsConns map[uuid.UUID]*safeWS

	writeTimeout time.Duration

	mu sync.RWMutex
}

func NewWSConnectionRepository(opts ...WSOption) WebsocketConnectionRepository {
	w := &wsConnectionRepository{
		wsConns:      make(map[uuid.UUID]*safeWS, 10),
		writeTimeout: DefaultWriteTimeout,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

func (w *wsConnectionRepository) Add(connID uuid.UUID, conn Conn) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.wsConns[connID]; !exists {
		metric.IncrementWSActiveConnections()
	}

	w.wsConns[connID] = &safeWS{conn: conn}
}

func (w *wsConnectionRepository) Remove(connID uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.wsConns[connID]; exists {
		delete(w.wsConns, connID)

		metric.DecrementWSActiveConnections()
	}
}

func (w *wsConnectionRepository) Write(connID uuid.UUID, payload any) error {
	safews, ok := w.getSafeWS(connID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrConnectionNotFound, connID)
	}

	safews.mu.Lock()
	defer safews.mu.Unlock()

	if err := safews.conn.SetWriteDeadline(time.Now().Add(w.writeTimeout)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}

	if err := safews.conn.WriteJSON(payload); err != nil {
		return fmt.Errorf("write to websocket: %w", err)
	}

	return nil
}

func (w *wsConnectionRepository) getSafeWS(connID uuid.UUID) (*safeWS, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	conn, ok := w.wsConns[connID]
	return conn, ok
}

func (w *wsConnectionRepository) GetAllConnected() []uuid.UUID {
	w.mu.RLock()
	defer w.mu.RUnlock()

	connIDs := make([]uuid.UUID, 0, len(w.wsConns))

	for connID := range w.wsConns {
		connIDs = append(connIDs, connID)
	}

	return connIDs
}

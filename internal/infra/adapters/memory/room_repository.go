package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// RoomRepository хранит участников комнат. Ключ комнаты - id пользователя.
type RoomRepository interface {
	// Join добавляет соединение в комнату, повторный вызов ничего не меняет
	Join(ctx context.Context, room string, connID uuid.UUID)

	// Leave убирает соединение из комнаты, выход из чужой комнаты ничего не меняет
	Leave(ctx context.Context, room string, connID uuid.UUID)

	Members(ctx context.Context, room string) []uuid.UUID
}

type roomRepository struct {
	rooms map[string]map[uuid.UUID]struct{}
	mu    sync.RWMutex
}

func NewRoomRepository() RoomRepository {
	return &roomRepository{
		rooms: make(map[string]map[uuid.UUID]struct{}),
	}
}

func (r *roomRepository) Join(ctx context.Context, room string, connID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[room]; !ok {
		r.rooms[room] = make(map[uuid.UUID]struct{})
	}

	r.rooms[room][connID] = struct{}{}
}

func (r *roomRepository) Leave(ctx context.Context, room string, connID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		return
	}

	delete(members, connID)

	// Удаляем комнату, если она пустая
	if len(members) == 0 {
		delete(r.rooms, room)
	}
}

func (r *roomRepository) Members(ctx context.Context, room string) []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.rooms[room]
	if !ok {
		return nil
	}

	connIDs := make([]uuid.UUID, 0, len(members))
	for connID := range members {
		connIDs = append(connIDs, connID)
	}

	return connIDs
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/qrave1/MeetPlanner/internal/application/constant"
	"github.com/qrave1/MeetPlanner/internal/domain/events"
	"github.com/qrave1/MeetPlanner/internal/infra/adapters/memory"
)

// RoomRouter доставляет события соединениям. Доставка без подтверждений и очередей.
type RoomRouter interface {
	Join(ctx context.Context, connID uuid.UUID, room string)
	Leave(ctx context.Context, connID uuid.UUID, room string)

	// Broadcast пишет событие всем соединениям комнаты.
	// Ошибка означает, что часть доставок не удалась, остальные выполнены.
	Broadcast(ctx context.Context, room, eventType string, payload any) error

	Emit(ctx context.Context, connID uuid.UUID, eventType string, payload any) error
	EmitAll(ctx context.Context, eventType string, payload any) error
}

type roomRouter struct {
	wsRepo   memory.WebsocketConnectionRepository
	roomRepo memory.RoomRepository
}

func NewRoomRouter(wsRepo memory.WebsocketConnectionRepository, roomRepo memory.RoomRepository) RoomRouter {
	return &roomRouter{
		wsRepo:   wsRepo,
		roomRepo: roomRepo,
	}
}

func (r *roomRouter) Join(ctx context.Context, connID uuid.UUID, room string) {
	r.roomRepo.Join(ctx, room, connID)
}

func (r *roomRouter) Leave(ctx context.Context, connID uuid.UUID, room string) {
	r.roomRepo.Leave(ctx, room, connID)
}

func (r *roomRouter) Broadcast(ctx context.Context, room, eventType string, payload any) error {
	msg, err := events.NewMessage(eventType, payload)
	if err != nil {
		return err
	}

	if err := r.deliver(ctx, r.roomRepo.Members(ctx, room), msg); err != nil {
		return fmt.Errorf("broadcast %s to room %s: %w", eventType, room, err)
	}

	return nil
}

func (r *roomRouter) Emit(ctx context.Context, connID uuid.UUID, eventType string, payload any) error {
	msg, err := events.NewMessage(eventType, payload)
	if err != nil {
		return err
	}

	if err := r.wsRepo.Write(connID, msg); err != nil {
		return fmt.Errorf("emit %s: %w", eventType, err)
	}

	return nil
}

func (r *roomRouter) EmitAll(ctx context.Context, eventType string, payload any) error {
	msg, err := events.NewMessage(eventType, payload)
	if err != nil {
		return err
	}

	if err := r.deliver(ctx, r.wsRepo.GetAllConnected(), msg); err != nil {
		return fmt.Errorf("emit %s to all: %w", eventType, err)
	}

	return nil
}

func (r *roomRouter) deliver(ctx context.Context, connIDs []uuid.UUID, msg events.Message) error {
	var errs []error

	for _, connID := range connIDs {
		if err := r.wsRepo.Write(connID, msg); err != nil {
			slog.WarnContext(
				ctx,
				"failed to deliver event",
				slog.String(constant.Event, msg.Type),
				slog.String(constant.ConnectionID, connID.String()),
				slog.Any(constant.Error, err),
			)

			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d of %d deliveries failed: %w", len(errs), len(connIDs), errors.Join(errs...))
	}

	return nil
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/qrave1/MeetPlanner/internal/application/config"
	"github.com/qrave1/MeetPlanner/internal/application/constant"
	"github.com/qrave1/MeetPlanner/internal/domain/events"
	"github.com/qrave1/MeetPlanner/internal/domain/input"
	"github.com/qrave1/MeetPlanner/internal/infra/adapters/memory"
	"github.com/qrave1/MeetPlanner/internal/usecase"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
)

var errUnknownMessage = errors.New("unknown message type")

type WebSocketHandler struct {
	upgrader *websocket.Upgrader

	sessionUsecase usecase.SessionUsecase
	meetingUsecase usecase.MeetingUsecase
	router         usecase.RoomRouter

	wsConnRepo memory.WebsocketConnectionRepository
}

func NewWebSocketHandler(
	cfg *config.Config,
	sessionUsecase usecase.SessionUsecase,
	meetingUsecase usecase.MeetingUsecase,
	router usecase.RoomRouter,
	wsConnRepo memory.WebsocketConnectionRepository,
) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if cfg.Debug {
					return true
				}

				return r.Header.Get("Origin") == cfg.Domain
			},
		},
		sessionUsecase: sessionUsecase,
		meetingUsecase: meetingUsecase,
		router:         router,
		wsConnRepo:     wsConnRepo,
	}
}

func (h *WebSocketHandler) Handle(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"WebSocket upgrade error",
			slog.Any(constant.Error, err),
		)
		return err
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	connID := uuid.New()

	h.wsConnRepo.Add(connID, ws)
	defer h.wsConnRepo.Remove(connID)
	defer h.sessionUsecase.Disconnect(ctx, connID)

	if err = h.sessionUsecase.Connect(ctx, connID); err != nil {
		slog.Error("send verifyUser", slog.String(constant.ConnectionID, connID.String()), slog.Any(constant.Error, err))
		return nil
	}

	err = ws.SetReadDeadline(time.Now().Add(pongWait))
	if err != nil {
		return err
	}
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	go h.keepAlive(ctx, ws)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			_, msg, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					slog.Error(
						"webSocket read error",
						slog.String(constant.ConnectionID, connID.String()),
						slog.Any(constant.Error, err),
					)
				}

				return nil
			}

			message := new(events.Message)

			if err = json.Unmarshal(msg, message); err != nil {
				slog.Warn("unmarshal websocket message", slog.Any(constant.Error, err))
				continue
			}

			if err = h.handleMessage(ctx, connID, message); err != nil {
				slog.Warn(
					"handle message",
					slog.String(constant.ConnectionID, connID.String()),
					slog.String(constant.Event, message.Type),
					slog.Any(constant.Error, err),
				)
			}
		}
	}
}

// keepAlive шлет ping. WriteControl можно вызывать параллельно с WriteJSON.
func (h *WebSocketHandler) keepAlive(ctx context.Context, ws *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				slog.Error("ping failed", slog.Any(constant.Error, err))
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (h *WebSocketHandler) handleMessage(
	ctx context.Context,
	connID uuid.UUID,
	msg *events.Message,
) error {
	switch msg.Type {
	case events.SetUser:
		var token string

		if err := json.Unmarshal(msg.Data, &token); err != nil {
			return fmt.Errorf("unmarshal token: %w", err)
		}

		return h.sessionUsecase.AuthenticateUser(ctx, connID, token)

	case events.SetAdmin:
		var token string

		if err := json.Unmarshal(msg.Data, &token); err != nil {
			return fmt.Errorf("unmarshal token: %w", err)
		}

		return h.sessionUsecase.AuthenticateAdmin(ctx, connID, token)

	case events.JoinRoom:
		var room string

		if err := json.Unmarshal(msg.Data, &room); err != nil {
			return fmt.Errorf("unmarshal room: %w", err)
		}

		err := h.sessionUsecase.JoinRoom(ctx, connID, room)

		var validationErr *usecase.ValidationError
		if errors.As(err, &validationErr) {
			status, message := usecase.Describe(err)
			h.reply(ctx, connID, msg.Type, events.NewEnvelope(true, message, status, nil))
		}

		return err

	case events.CreateMeeting, events.EditMeeting, events.DeleteMeeting:
		if err := h.sessionUsecase.RequireAdmin(ctx, connID); err != nil {
			return err
		}

		return h.handleMeeting(ctx, connID, msg)

	default:
		return fmt.Errorf("%w: %s", errUnknownMessage, msg.Type)
	}
}

func (h *WebSocketHandler) handleMeeting(ctx context.Context, connID uuid.UUID, msg *events.Message) error {
	var in input.MeetingInput

	if err := json.Unmarshal(msg.Data, &in); err != nil {
		h.reply(ctx, connID, msg.Type, events.NewEnvelope(true, "Invalid meeting payload", http.StatusBadRequest, nil))
		return fmt.Errorf("unmarshal meeting: %w", err)
	}

	var (
		out *usecase.Outcome
		err error
	)

	switch msg.Type {
	case events.CreateMeeting:
		if in.MeetingID == "" {
			in.MeetingID = uuid.NewString()
		}

		out, err = h.meetingUsecase.CreateMeeting(ctx, &in)
	case events.EditMeeting:
		out, err = h.meetingUsecase.EditMeeting(ctx, &in)
	case events.DeleteMeeting:
		out, err = h.meetingUsecase.DeleteMeeting(ctx, &in)
	}

	if err != nil {
		status, message := usecase.Describe(err)
		h.reply(ctx, connID, msg.Type, events.NewEnvelope(true, message, status, nil))

		return err
	}

	if len(out.Advisories) > 0 {
		slog.Warn(
			"meeting saved with failed side effects",
			slog.String(constant.MeetingID, out.Meeting.MeetingID),
			slog.Int("advisories", len(out.Advisories)),
		)
	}

	return nil
}

// reply отвечает только соединению, отправившему событие
func (h *WebSocketHandler) reply(ctx context.Context, connID uuid.UUID, eventType string, envelope events.Envelope) {
	if err := h.router.Emit(ctx, connID, eventType, envelope); err != nil {
		slog.Error("reply to connection", slog.String(constant.ConnectionID, connID.String()), slog.Any(constant.Error, err))
	}
}

package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/qrave1/MeetPlanner/internal/application/constant"
	"github.com/qrave1/MeetPlanner/internal/domain/events"
	"github.com/qrave1/MeetPlanner/internal/domain/runtime"
	"github.com/qrave1/MeetPlanner/internal/infra/adapters/memory"
)

type TokenVerifier interface {
	// Verify возвращает id субъекта из токена
	Verify(token string) (string, error)
}

// SessionUsecase - жизненный цикл соединения: аутентификация, комната, отключение
type SessionUsecase interface {
	Connect(ctx context.Context, connID uuid.UUID) error
	AuthenticateUser(ctx context.Context, connID uuid.UUID, token string) error
	AuthenticateAdmin(ctx context.Context, connID uuid.UUID, token string) error

	// JoinRoom переводит админа в комнату пользователя.
	// Право админа видеть этого пользователя не проверяется.
	JoinRoom(ctx context.Context, connID uuid.UUID, room string) error

	// RequireAdmin отправляет auth-error, если соединение не админское
	RequireAdmin(ctx context.Context, connID uuid.UUID) error

	Session(ctx context.Context, connID uuid.UUID) (runtime.Session, bool)
	Disconnect(ctx context.Context, connID uuid.UUID)
}

type sessionUsecase struct {
	userTokens  TokenVerifier
	adminTokens TokenVerifier

	sessionRepo memory.SessionRepository
	router      RoomRouter
}

func NewSessionUsecase(
	userTokens TokenVerifier,
	adminTokens TokenVerifier,
	sessionRepo memory.SessionRepository,
	router RoomRouter,
) SessionUsecase {
	return &sessionUsecase{
		userTokens:  userTokens,
		adminTokens: adminTokens,
		sessionRepo: sessionRepo,
		router:      router,
	}
}

func (s *sessionUsecase) Connect(ctx context.Context, connID uuid.UUID) error {
	s.sessionRepo.Save(ctx, runtime.Session{ConnectionID: connID})

	return s.router.Emit(ctx, connID, events.VerifyUser, "")
}

func (s *sessionUsecase) AuthenticateUser(ctx context.Context, connID uuid.UUID, token string) error {
	userID, err := s.userTokens.Verify(token)
	if err != nil {
		return s.rejectToken(ctx, connID, err)
	}

	session := s.moveTo(ctx, connID, userID)
	session.Role = runtime.RoleUser
	session.SubjectID = userID
	s.sessionRepo.Save(ctx, session)

	slog.InfoContext(
		ctx,
		"user authenticated",
		slog.String(constant.ConnectionID, connID.String()),
		slog.String(constant.UserID, userID),
	)

	return nil
}

func (s *sessionUsecase) AuthenticateAdmin(ctx context.Context, connID uuid.UUID, token string) error {
	adminID, err := s.adminTokens.Verify(token)
	if err != nil {
		return s.rejectToken(ctx, connID, err)
	}

	session := s.moveTo(ctx, connID, "")
	session.Role = runtime.RoleAdmin
	session.SubjectID = adminID
	s.sessionRepo.Save(ctx, session)

	slog.InfoContext(
		ctx,
		"admin authenticated",
		slog.String(constant.ConnectionID, connID.String()),
		slog.String(constant.AdminID, adminID),
	)

	return s.router.Emit(ctx, connID, events.StartRoom, "")
}

func (s *sessionUsecase) JoinRoom(ctx context.Context, connID uuid.UUID, room string) error {
	if err := s.RequireAdmin(ctx, connID); err != nil {
		return err
	}

	if room == "" {
		return &ValidationError{Field: "userId", Message: "userId parameter is missing"}
	}

	session := s.moveTo(ctx, connID, room)
	s.sessionRepo.Save(ctx, session)

	return nil
}

func (s *sessionUsecase) RequireAdmin(ctx context.Context, connID uuid.UUID) error {
	session, ok := s.sessionRepo.Get(ctx, connID)
	if ok && session.IsAdmin() {
		return nil
	}

	emitErr := s.router.Emit(ctx, connID, events.AuthError, events.AuthErrorEvent{
		Status: http.StatusUnauthorized,
		Error:  "Admin authentication required",
	})
	if emitErr != nil {
		return fmt.Errorf("%w: %w", ErrAdminRequired, emitErr)
	}

	return ErrAdminRequired
}

func (s *sessionUsecase) Session(ctx context.Context, connID uuid.UUID) (runtime.Session, bool) {
	return s.sessionRepo.Get(ctx, connID)
}

func (s *sessionUsecase) Disconnect(ctx context.Context, connID uuid.UUID) {
	if session, ok := s.sessionRepo.Get(ctx, connID); ok && session.Room != "" {
		s.router.Leave(ctx, connID, session.Room)
	}

	s.sessionRepo.Remove(ctx, connID)
}

// moveTo выводит соединение из текущей комнаты и вводит в room, пустая room - ни в какую
func (s *sessionUsecase) moveTo(ctx context.Context, connID uuid.UUID, room string) runtime.Session {
	session, ok := s.sessionRepo.Get(ctx, connID)
	if !ok {
		session = runtime.Session{ConnectionID: connID}
	}

	if session.Room != "" && session.Room != room {
		s.router.Leave(ctx, connID, session.Room)
	}

	if room != "" {
		s.router.Join(ctx, connID, room)
	}

	session.Room = room

	return session
}

// rejectToken сбрасывает сессию в анонимную и отправляет auth-error
func (s *sessionUsecase) rejectToken(ctx context.Context, connID uuid.UUID, cause error) error {
	session := s.moveTo(ctx, connID, "")
	session.Role = runtime.RoleNone
	session.SubjectID = ""
	s.sessionRepo.Save(ctx, session)

	emitErr := s.router.Emit(ctx, connID, events.AuthError, events.AuthErrorEvent{
		Status: http.StatusInternalServerError,
		Error:  "Please provide correct auth token",
	})
	if emitErr != nil {
		return fmt.Errorf("%w: %w: %w", ErrUnauthenticated, cause, emitErr)
	}

	return fmt.Errorf("%w: %w", ErrUnauthenticated, cause)
}

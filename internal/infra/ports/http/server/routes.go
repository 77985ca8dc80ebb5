package server

import (
	"github.com/labstack/echo/v4"

	"github.com/qrave1/MeetPlanner/internal/infra/ports/http/handlers"
	"github.com/qrave1/MeetPlanner/internal/infra/ports/http/middleware"
)

func New(
	userTokens middleware.TokenVerifier,
	adminTokens middleware.TokenVerifier,
	meetingHandler *handlers.MeetingHandler,
	wsHandler *handlers.WebSocketHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.SlogLogger())
	e.Use(middleware.PrometheusMiddleware())

	v1 := e.Group("/api/v1")
	{
		// Соединение аутентифицируется событиями set-user / set-admin
		v1.GET("/ws", wsHandler.Handle)

		meetings := v1.Group("/meetings")
		meetings.Use(middleware.JWTAuthMiddleware(userTokens, adminTokens))
		{
			meetings.GET("/allusers", meetingHandler.ListUsersHandler)
			meetings.GET("/userMeetings", meetingHandler.ListUserMeetingsHandler)
			meetings.GET("/userMeetings/:userId", meetingHandler.ListUserMeetingsHandler)
		}
	}

	return e
}

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/qrave1/MeetPlanner/internal/application/constant"
	"github.com/qrave1/MeetPlanner/internal/domain/events"
	"github.com/qrave1/MeetPlanner/internal/infra/ports/http/dto"
	"github.com/qrave1/MeetPlanner/internal/usecase"
)

type MeetingHandler struct {
	listingUsecase usecase.ListingUsecase
}

func NewMeetingHandler(listingUsecase usecase.ListingUsecase) *MeetingHandler {
	return &MeetingHandler{listingUsecase: listingUsecase}
}

// ListUsersHandler - пользователи для календаря админа, по 10 на страницу
func (h *MeetingHandler) ListUsersHandler(c echo.Context) error {
	skip, err := strconv.Atoi(c.QueryParam("skip"))
	if err != nil {
		skip = 0
	}

	users, err := h.listingUsecase.ListUsers(c.Request().Context(), skip)
	if err != nil {
		slog.Error("list users", slog.Any(constant.Error, err))
		return errorResponse(c, err)
	}

	if len(users) == 0 {
		return c.JSON(http.StatusNotFound, events.NewEnvelope(true, "No Users Found", http.StatusNotFound, nil))
	}

	return c.JSON(http.StatusOK, events.NewEnvelope(false, "Users Found", http.StatusOK, dto.NewUserResponses(users)))
}

// ListUserMeetingsHandler - встречи пользователя за текущий год
func (h *MeetingHandler) ListUserMeetingsHandler(c echo.Context) error {
	meetings, err := h.listingUsecase.ListUserMeetings(c.Request().Context(), c.Param("userId"))
	if err != nil {
		slog.Error("list user meetings", slog.String(constant.UserID, c.Param("userId")), slog.Any(constant.Error, err))
		return errorResponse(c, err)
	}

	if len(meetings) == 0 {
		return c.JSON(http.StatusNotFound, events.NewEnvelope(true, "No Meetings Found", http.StatusNotFound, nil))
	}

	return c.JSON(http.StatusOK, events.NewEnvelope(false, "Meetings Found", http.StatusOK, meetings))
}

func errorResponse(c echo.Context, err error) error {
	status, message := usecase.Describe(err)

	return c.JSON(status, events.NewEnvelope(true, message, status, nil))
}

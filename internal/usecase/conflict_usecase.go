package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/qrave1/MeetPlanner/internal/application/constant"
	"github.com/qrave1/MeetPlanner/internal/domain/conflict"
	"github.com/qrave1/MeetPlanner/internal/domain/input"
	"github.com/qrave1/MeetPlanner/internal/domain/models"
)

type MeetingFinder interface {
	Find(ctx context.Context, filter input.MeetingFilter) ([]models.Meeting, error)
}

type ConflictChecker interface {
	// HasConflict проверяет пересечение с встречами пользователя.
	// excludeMeetingID исключает саму встречу при редактировании.
	HasConflict(ctx context.Context, userID string, start, end time.Time, excludeMeetingID string) (bool, error)
}

type conflictChecker struct {
	meetings MeetingFinder
}

func NewConflictChecker(meetings MeetingFinder) ConflictChecker {
	return &conflictChecker{meetings: meetings}
}

func (c *conflictChecker) HasConflict(
	ctx context.Context,
	userID string,
	start, end time.Time,
	excludeMeetingID string,
) (bool, error) {
	existing, err := c.meetings.Find(ctx, input.MeetingFilter{
		UserID:           userID,
		ExcludeMeetingID: excludeMeetingID,
	})
	if err != nil {
		return false, fmt.Errorf("find meetings of user %s: %w", userID, err)
	}

	clashes := conflict.Conflicting(existing, start, end)
	if len(clashes) == 0 {
		return false, nil
	}

	ids := make([]string, 0, len(clashes))
	for _, m := range clashes {
		ids = append(ids, m.MeetingID)
	}

	slog.Debug(
		"meeting conflicts",
		slog.String(constant.UserID, userID),
		slog.Any("clashes", ids),
	)

	return true, nil
}

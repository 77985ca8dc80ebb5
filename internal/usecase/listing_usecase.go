package usecase

import (
	"context"
	"time"

	"github.com/qrave1/MeetPlanner/internal/domain/input"
	"github.com/qrave1/MeetPlanner/internal/domain/models"
)

const UsersPageSize = 10

type UserLister interface {
	ListUsers(ctx context.Context, in input.UserListInput) ([]models.User, error)
}

// ListingUsecase - чтение для календаря: пользователи и встречи текущего года
type ListingUsecase interface {
	ListUsers(ctx context.Context, skip int) ([]models.User, error)
	ListUserMeetings(ctx context.Context, userID string) ([]models.Meeting, error)
}

type listingUsecase struct {
	users    UserLister
	meetings MeetingFinder
	now      func() time.Time
}

func NewListingUsecase(users UserLister, meetings MeetingFinder, now func() time.Time) ListingUsecase {
	if now == nil {
		now = time.Now
	}

	return &listingUsecase{
		users:    users,
		meetings: meetings,
		now:      now,
	}
}

func (uc *listingUsecase) ListUsers(ctx context.Context, skip int) ([]models.User, error) {
	if skip < 0 {
		skip = 0
	}

	users, err := uc.users.ListUsers(ctx, input.UserListInput{Skip: skip, Limit: UsersPageSize})
	if err != nil {
		return nil, newReadError("list users", "Error occured while getting the Users", err)
	}

	return users, nil
}

func (uc *listingUsecase) ListUserMeetings(ctx context.Context, userID string) ([]models.Meeting, error) {
	if userID == "" {
		return nil, newMissingFieldError("userId")
	}

	meetings, err := uc.meetings.Find(ctx, input.MeetingFilter{
		UserID: userID,
		Year:   models.PartitionYear(uc.now()),
	})
	if err != nil {
		return nil, newReadError("list meetings", "Error occured while getting the Meetings", err)
	}

	return meetings, nil
}

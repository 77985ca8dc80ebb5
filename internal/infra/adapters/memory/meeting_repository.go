package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/qrave1/MeetPlanner/internal/domain/input"
	"github.com/qrave1/MeetPlanner/internal/domain/models"
)

// MeetingRepository - хранилище встреч в памяти, для STORAGE=memory и тестов
type MeetingRepository struct {
	meetings map[string]models.Meeting
	mu       sync.RWMutex
}

func NewMeetingRepository() *MeetingRepository {
	return &MeetingRepository{
		meetings: make(map[string]models.Meeting),
	}
}

func (r *MeetingRepository) Find(ctx context.Context, filter input.MeetingFilter) ([]models.Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Meeting

	for _, m := range r.meetings {
		if filter.UserID != "" && m.UserID != filter.UserID {
			continue
		}

		if filter.ExcludeMeetingID != "" && m.MeetingID == filter.ExcludeMeetingID {
			continue
		}

		if filter.Year != 0 && m.YearPartition != filter.Year {
			continue
		}

		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})

	return out, nil
}

func (r *MeetingRepository) Insert(ctx context.Context, meeting *models.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.meetings[meeting.MeetingID]; exists {
		return fmt.Errorf("insert meeting %s: %w", meeting.MeetingID, models.ErrAlreadyExists)
	}

	r.meetings[meeting.MeetingID] = *meeting

	return nil
}

func (r *MeetingRepository) UpdateByMeetingID(ctx context.Context, meetingID string, patch models.MeetingPatch) (*models.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.meetings[meetingID]
	if !ok {
		return nil, fmt.Errorf("update meeting %s: %w", meetingID, models.ErrNotFound)
	}

	m.Apply(patch)
	r.meetings[meetingID] = m

	return &m, nil
}

func (r *MeetingRepository) RemoveByMeetingID(ctx context.Context, meetingID string) (*models.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.meetings[meetingID]
	if !ok {
		return nil, fmt.Errorf("remove meeting %s: %w", meetingID, models.ErrNotFound)
	}

	delete(r.meetings, meetingID)

	return &m, nil
}

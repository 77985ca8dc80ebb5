package input

import (
	"encoding/json"
	"fmt"
	"time"
)

// MeetingInput - полезная нагрузка create-meeting / edit-meeting / delete-meeting
type MeetingInput struct {
	MeetingID     string    `json:"meetingId"`
	AdminID       string    `json:"adminId"`
	AdminUserName string    `json:"adminUserName"`
	AdminFullName string    `json:"adminFullName"`
	UserID        string    `json:"userId"`
	UserFullName  string    `json:"userFullName"`
	UserEmail     string    `json:"userEmail"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Place         string    `json:"place"`
	Title         string    `json:"title"`
}

// UnmarshalJSON читает start/end как RFC3339. Пустая строка и null дают
// нулевое время, чтобы валидация сообщила о пропущенном поле.
func (in *MeetingInput) UnmarshalJSON(data []byte) error {
	type plain MeetingInput

	aux := struct {
		*plain
		Start string `json:"start"`
		End   string `json:"end"`
	}{plain: (*plain)(in)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error

	if in.Start, err = parseTime("start", aux.Start); err != nil {
		return err
	}

	if in.End, err = parseTime("end", aux.End); err != nil {
		return err
	}

	return nil
}

func parseTime(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", field, err)
	}

	return t, nil
}

type MeetingFilter struct {
	UserID string

	// ExcludeMeetingID исключает встречу из выборки (при редактировании)
	ExcludeMeetingID string

	// Year - 0 означает любой год
	Year int
}

type UserListInput struct {
	Skip  int
	Limit int
}

package models

import (
	"time"

	"github.com/qrave1/MeetPlanner/internal/domain/input"
)

// Color - пара цветов для отображения встречи в календаре
type Color struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

var (
	ColorDefault  = Color{Primary: "#1e90ff", Secondary: "#D1E8FF"}
	ColorConflict = Color{Primary: "#ad2121", Secondary: "#FAE3E3"}
)

// ColorFor выбирает красный цвет при пересечении, иначе синий
func ColorFor(conflict bool) Color {
	if conflict {
		return ColorConflict
	}

	return ColorDefault
}

type Meeting struct {
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
	Color         Color     `json:"color"`

	// YearPartition - год начала встречи, по нему фильтруется список встреч пользователя
	YearPartition int `json:"-"`
}

func NewMeeting(in *input.MeetingInput, conflict bool) *Meeting {
	return &Meeting{
		MeetingID:     in.MeetingID,
		AdminID:       in.AdminID,
		AdminUserName: in.AdminUserName,
		AdminFullName: in.AdminFullName,
		UserID:        in.UserID,
		UserFullName:  in.UserFullName,
		UserEmail:     in.UserEmail,
		Start:         in.Start,
		End:           in.End,
		Place:         in.Place,
		Title:         in.Title,
		Color:         ColorFor(conflict),
		YearPartition: PartitionYear(in.Start),
	}
}

// PartitionYear возвращает календарный год момента в локальной зоне сервера
func PartitionYear(t time.Time) int {
	return t.In(time.Local).Year()
}

// MeetingPatch - изменяемая при редактировании часть встречи
type MeetingPatch struct {
	Start         time.Time
	End           time.Time
	Title         string
	Place         string
	Color         Color
	YearPartition int
}

func NewMeetingPatch(in *input.MeetingInput, conflict bool) MeetingPatch {
	return MeetingPatch{
		Start:         in.Start,
		End:           in.End,
		Title:         in.Title,
		Place:         in.Place,
		Color:         ColorFor(conflict),
		YearPartition: PartitionYear(in.Start),
	}
}

// Apply заменяет изменяемые поля, идентификаторы и участники остаются прежними
func (m *Meeting) Apply(p MeetingPatch) {
	m.Start = p.Start
	m.End = p.End
	m.Title = p.Title
	m.Place = p.Place
	m.Color = p.Color
	m.YearPartition = p.YearPartition
}

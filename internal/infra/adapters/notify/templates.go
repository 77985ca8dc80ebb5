package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/qrave1/MeetPlanner/internal/domain/models"
)

type kind int

const (
	kindCreated kind = iota
	kindEdited
	kindDeleted
	kindReminder
)

func (k kind) String() string {
	switch k {
	case kindCreated:
		return "created"
	case kindEdited:
		return "edited"
	case kindDeleted:
		return "deleted"
	case kindReminder:
		return "reminder"
	default:
		return "unknown"
	}
}

var subjects = map[kind]string{
	kindCreated:  "Meeting Scheduled",
	kindEdited:   "Meeting Rescheduled",
	kindDeleted:  "Meeting Canceled",
	kindReminder: "Meeting About to Start",
}

const details = `<b>Title: </b>{{.Title}}<br><b>Venue: </b>{{.Place}}<br><b>Start: </b>{{.Start}}<br><b>End: </b>{{.End}}<br><br>`

var bodies = template.Must(template.New("mail").Parse(`
{{define "created"}}Hi {{.UserFullName}},<br><br>A meeting,<br><br>` + details + `has been created by <b>Admin: </b>{{.AdminFullName}}.<br><br>Warm Regards,<br>MeetPlanner Team{{end}}
{{define "edited"}}Hi {{.UserFullName}},<br><br>A meeting has been updated as below,<br><br>` + details + `Warm Regards,<br>MeetPlanner Team{{end}}
{{define "deleted"}}Hi {{.UserFullName}},<br><br>The following meeting has been deleted by admin:-<br><br>` + details + `Warm Regards,<br>MeetPlanner Team{{end}}
{{define "reminder"}}Hi {{.UserFullName}},<br><br>The following meeting is about to start soon,<br><br>` + details + `Warm Regards,<br>MeetPlanner Team{{end}}
`))

type email struct {
	To      string
	Subject string
	Body    string
}

type bodyData struct {
	UserFullName  string
	AdminFullName string
	Title         string
	Place         string
	Start         string
	End           string
}

func render(k kind, m models.Meeting) (email, error) {
	var buf bytes.Buffer

	err := bodies.ExecuteTemplate(&buf, k.String(), bodyData{
		UserFullName:  m.UserFullName,
		AdminFullName: m.AdminFullName,
		Title:         m.Title,
		Place:         m.Place,
		Start:         formatTime(m.Start),
		End:           formatTime(m.End),
	})
	if err != nil {
		return email{}, fmt.Errorf("render %s mail: %w", k, err)
	}

	return email{To: m.UserEmail, Subject: subjects[k], Body: buf.String()}, nil
}

// formatTime печатает время как "Monday, January 2nd, 2006, 3:04 PM"
func formatTime(t time.Time) string {
	t = t.In(time.Local)

	return fmt.Sprintf(
		"%s, %s %d%s, %d, %s",
		t.Weekday(),
		t.Month(),
		t.Day(),
		ordinal(t.Day()),
		t.Year(),
		t.Format("3:04 PM"),
	)
}

func ordinal(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}

	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

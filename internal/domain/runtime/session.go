package runtime

import "github.com/google/uuid"

type Role string

const (
	RoleNone  Role = ""
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Session - состояние одного WebSocket соединения, в БД не хранится
type Session struct {
	ConnectionID uuid.UUID `json:"connection_id"`
	Role         Role      `json:"role"`
	SubjectID    string    `json:"subject_id"`
	Room         string    `json:"room"`
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

package events

import (
	"encoding/json"
	"fmt"
)

// Входящие события
const (
	SetUser       = "set-user"
	SetAdmin      = "set-admin"
	JoinRoom      = "join-room"
	CreateMeeting = "create-meeting"
	EditMeeting   = "edit-meeting"
	DeleteMeeting = "delete-meeting"
)

// Исходящие события. delete-meeting используется в обе стороны.
const (
	VerifyUser    = "verifyUser"
	AuthError     = "auth-error"
	StartRoom     = "start-room"
	UpdateMeeting = "update-meeting"
)

// Message - общее событие
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func NewMessage(eventType string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	return Message{Type: eventType, Data: data}, nil
}

// Envelope - ответ на операцию над встречей
type Envelope struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Data    any    `json:"data"`
}

func NewEnvelope(isError bool, message string, status int, data any) Envelope {
	return Envelope{
		Error:   isError,
		Message: message,
		Status:  status,
		Data:    data,
	}
}

// AuthErrorEvent - ответ на неудачную аутентификацию соединения
type AuthErrorEvent struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}

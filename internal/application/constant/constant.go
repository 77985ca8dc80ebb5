package constant

// Ключи атрибутов для slog
const (
	Error        = "error"
	UserID       = "user_id"
	AdminID      = "admin_id"
	MeetingID    = "meeting_id"
	ConnectionID = "connection_id"
	Room         = "room"
	Event        = "event"
	Stage        = "stage"
	FireAt       = "fire_at"
)

package appctx

import (
	"context"

	"github.com/qrave1/MeetPlanner/internal/domain/runtime"
)

type ctxKey string

const subjectKey ctxKey = "subject"

// Subject - владелец проверенного токена
type Subject struct {
	ID   string
	Role runtime.Role
}

// WithSubject добавляет субъекта токена в контекст
func WithSubject(ctx context.Context, s Subject) context.Context {
	return context.WithValue(ctx, subjectKey, s)
}

// SubjectFrom извлекает субъекта из контекста
func SubjectFrom(ctx context.Context) (Subject, bool) {
	s, ok := ctx.Value(subjectKey).(Subject)
	return s, ok
}

// Package conflict определяет пересечения встреч одного пользователя.
//
// Проверка смотрит только на концы уже существующих встреч: встреча считается
// пересекающейся, если её начало или конец попадает в отрезок [start, end]
// кандидата включительно. Существующая встреча, которая целиком накрывает
// кандидата (начинается раньше и заканчивается позже), пересечением не считается.
package conflict

import (
	"time"

	"github.com/qrave1/MeetPlanner/internal/domain/models"
)

// Conflicting возвращает встречи, у которых начало или конец лежит в [start, end]
func Conflicting(existing []models.Meeting, start, end time.Time) []models.Meeting {
	var out []models.Meeting

	for _, m := range existing {
		if within(m.Start, start, end) || within(m.End, start, end) {
			out = append(out, m)
		}
	}

	return out
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

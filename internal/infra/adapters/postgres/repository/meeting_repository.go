package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/qrave1/MeetPlanner/internal/domain/input"
	"github.com/qrave1/MeetPlanner/internal/domain/models"
)

const meetingColumns = `meeting_id, admin_id, admin_user_name, admin_full_name, user_id,
	user_full_name, user_email, start_at, end_at, place, title,
	color_primary, color_secondary, year_partition`

type meetingRow struct {
	MeetingID      string    `db:"meeting_id"`
	AdminID        string    `db:"admin_id"`
	AdminUserName  string    `db:"admin_user_name"`
	AdminFullName  string    `db:"admin_full_name"`
	UserID         string    `db:"user_id"`
	UserFullName   string    `db:"user_full_name"`
	UserEmail      string    `db:"user_email"`
	StartAt        time.Time `db:"start_at"`
	EndAt          time.Time `db:"end_at"`
	Place          string    `db:"place"`
	Title          string    `db:"title"`
	ColorPrimary   string    `db:"color_primary"`
	ColorSecondary string    `db:"color_secondary"`
	YearPartition  int       `db:"year_partition"`
}

func (r meetingRow) toModel() models.Meeting {
	return models.Meeting{
		MeetingID:     r.MeetingID,
		AdminID:       r.AdminID,
		AdminUserName: r.AdminUserName,
		AdminFullName: r.AdminFullName,
		UserID:        r.UserID,
		UserFullName:  r.UserFullName,
		UserEmail:     r.UserEmail,
		Start:         r.StartAt,
		End:           r.EndAt,
		Place:         r.Place,
		Title:         r.Title,
		Color:         models.Color{Primary: r.ColorPrimary, Secondary: r.ColorSecondary},
		YearPartition: r.YearPartition,
	}
}

type MeetingRepository interface {
	Find(ctx context.Context, filter input.MeetingFilter) ([]models.Meeting, error)
	Insert(ctx context.Context, meeting *models.Meeting) error
	UpdateByMeetingID(ctx context.Context, meetingID string, patch models.MeetingPatch) (*models.Meeting, error)
	RemoveByMeetingID(ctx context.Context, meetingID string) (*models.Meeting, error)
}

type meetingRepo struct {
	db *sqlx.DB
}

func NewMeetingRepo(db *sqlx.DB) MeetingRepository {
	return &meetingRepo{db: db}
}

// buildFindQuery собирает SELECT по фильтру
func buildFindQuery(filter input.MeetingFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if filter.UserID != "" {
		args = append(args, filter.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}

	if filter.ExcludeMeetingID != "" {
		args = append(args, filter.ExcludeMeetingID)
		conds = append(conds, fmt.Sprintf("meeting_id <> $%d", len(args)))
	}

	if filter.Year != 0 {
		args = append(args, filter.Year)
		conds = append(conds, fmt.Sprintf("year_partition = $%d", len(args)))
	}

	query := "SELECT " + meetingColumns + " FROM meetings"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	return query + " ORDER BY start_at", args
}

func (r *meetingRepo) Find(ctx context.Context, filter input.MeetingFilter) ([]models.Meeting, error) {
	query, args := buildFindQuery(filter)

	var rows []meetingRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select meetings: %w", err)
	}

	meetings := make([]models.Meeting, 0, len(rows))
	for _, row := range rows {
		meetings = append(meetings, row.toModel())
	}

	return meetings, nil
}

func (r *meetingRepo) Insert(ctx context.Context, m *models.Meeting) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO meetings (`+meetingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		m.MeetingID,
		m.AdminID,
		m.AdminUserName,
		m.AdminFullName,
		m.UserID,
		m.UserFullName,
		m.UserEmail,
		m.Start,
		m.End,
		m.Place,
		m.Title,
		m.Color.Primary,
		m.Color.Secondary,
		m.YearPartition,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert meeting %s: %w", m.MeetingID, models.ErrAlreadyExists)
		}

		return fmt.Errorf("insert meeting: %w", err)
	}

	return nil
}

func (r *meetingRepo) UpdateByMeetingID(ctx context.Context, meetingID string, p models.MeetingPatch) (*models.Meeting, error) {
	var row meetingRow

	err := r.db.GetContext(
		ctx,
		&row,
		`UPDATE meetings
		SET start_at = $1, end_at = $2, title = $3, place = $4,
			color_primary = $5, color_secondary = $6, year_partition = $7, updated_at = $8
		WHERE meeting_id = $9
		RETURNING `+meetingColumns,
		p.Start,
		p.End,
		p.Title,
		p.Place,
		p.Color.Primary,
		p.Color.Secondary,
		p.YearPartition,
		time.Now(),
		meetingID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("update meeting %s: %w", meetingID, models.ErrNotFound)
		}

		return nil, fmt.Errorf("update meeting: %w", err)
	}

	m := row.toModel()

	return &m, nil
}

func (r *meetingRepo) RemoveByMeetingID(ctx context.Context, meetingID string) (*models.Meeting, error) {
	var row meetingRow

	err := r.db.GetContext(
		ctx,
		&row,
		"DELETE FROM meetings WHERE meeting_id = $1 RETURNING "+meetingColumns,
		meetingID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("remove meeting %s: %w", meetingID, models.ErrNotFound)
		}

		return nil, fmt.Errorf("remove meeting: %w", err)
	}

	m := row.toModel()

	return &m, nil
}

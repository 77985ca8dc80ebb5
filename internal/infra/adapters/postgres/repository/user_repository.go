package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/qrave1/MeetPlanner/internal/domain/input"
	"github.com/qrave1/MeetPlanner/internal/domain/models"
)

type UserRepository interface {
	ListUsers(ctx context.Context, in input.UserListInput) ([]models.User, error)
}

type userRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) ListUsers(ctx context.Context, in input.UserListInput) ([]models.User, error) {
	var users []models.User

	query := `
		SELECT user_id, first_name, last_name, user_name, email, country_code, mobile_number, is_admin
		FROM users
		WHERE is_admin = false
		ORDER BY first_name, user_id
		OFFSET $1 LIMIT $2
	`

	if err := r.db.SelectContext(ctx, &users, query, in.Skip, in.Limit); err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}

	return users, nil
}

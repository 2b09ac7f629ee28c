package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/taiwoajasa245/quran-reader/internal/database"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidReciter     = errors.New("unknown reciter")
)

// Repository defines the methods the Auth module provides for DB operations.
type Repository interface {
	CreateUser(ctx context.Context, user User) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id int) (*User, error)
	UpdateUserProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(dbService database.Service) Repository {
	return &repository{db: dbService.DB()}
}

const userColumns = `id, email, password, username, reciter, created_at, updated_at`

func scanUser(row *sql.Row) (*User, error) {
	u := User{}
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.UserName, &u.Reciter, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) CreateUser(ctx context.Context, user User) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	// Check if email exists
	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	if err := r.db.QueryRowContext(ctx, checkQuery, user.Email).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	reciter := user.Reciter
	if reciter == "" {
		reciter = "01"
	}

	query := `
		INSERT INTO users (email, password, username, reciter)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	return scanUser(r.db.QueryRowContext(ctx, query, user.Email, user.Password, user.UserName, reciter))
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *repository) GetUserByID(ctx context.Context, id int) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *repository) UpdateUserProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error) {
	query := `
		UPDATE users
		SET username = $1, reciter = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, req.UserName, req.Reciter, userID))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}
	return user, nil
}

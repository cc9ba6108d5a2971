package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskpulse/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersStore struct {
	pool *pgxpool.Pool
}

func NewUsersStore(pool *pgxpool.Pool) *UsersStore {
	return &UsersStore{pool: pool}
}

const userColumns = `id, email, mood, energy, created_at, updated_at`

func (s *UsersStore) CreateUser(ctx context.Context, email, passwordHash string) (domain.User, error) {
	const q = `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING ` + userColumns + `
	`

	u, err := scanUser(s.pool.QueryRow(ctx, q, email, passwordHash))
	if err != nil {
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == "23505" {
			return domain.User{}, domain.ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *UsersStore) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

func (s *UsersStore) GetUserByEmail(ctx context.Context, email string) (domain.UserWithPassword, error) {
	const q = `
		SELECT ` + userColumns + `, password_hash, reset_token, reset_token_expiry
		FROM users
		WHERE email = $1
		LIMIT 1
	`

	u, err := scanUserWithPassword(s.pool.QueryRow(ctx, q, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserWithPassword{}, domain.ErrNotFound
		}
		return domain.UserWithPassword{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetUserByResetToken looks a user up by exact token match. Reset tokens are
// stored on the user row; at most one row can match.
func (s *UsersStore) GetUserByResetToken(ctx context.Context, token string) (domain.UserWithPassword, error) {
	const q = `
		SELECT ` + userColumns + `, password_hash, reset_token, reset_token_expiry
		FROM users
		WHERE reset_token = $1
		LIMIT 1
	`

	u, err := scanUserWithPassword(s.pool.QueryRow(ctx, q, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserWithPassword{}, domain.ErrNotFound
		}
		return domain.UserWithPassword{}, fmt.Errorf("get user by reset token: %w", err)
	}
	return u, nil
}

// SetResetToken installs a fresh reset token, overwriting (and thereby
// invalidating) any previous one.
func (s *UsersStore) SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error {
	const q = `
		UPDATE users
		SET reset_token = $2, reset_token_expiry = $3, updated_at = now()
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, q, userID, token, expiry)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ResetPassword writes the new hash and clears both reset-token fields in a
// single statement, so a token can never survive the write that consumed it.
func (s *UsersStore) ResetPassword(ctx context.Context, userID, passwordHash string) error {
	const q = `
		UPDATE users
		SET password_hash = $2, reset_token = NULL, reset_token_expiry = NULL, updated_at = now()
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, q, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateUser applies the non-nil fields of upd and returns the fresh
// projection. COALESCE keeps the statement a single atomic write.
func (s *UsersStore) UpdateUser(ctx context.Context, userID string, upd domain.UserUpdate) (domain.User, error) {
	const q = `
		UPDATE users
		SET email = COALESCE($2, email),
		    password_hash = COALESCE($3, password_hash),
		    mood = COALESCE($4, mood),
		    energy = COALESCE($5, energy),
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns + `
	`

	var mood, energy *string
	if upd.Mood != nil {
		m := string(*upd.Mood)
		mood = &m
	}
	if upd.Energy != nil {
		e := string(*upd.Energy)
		energy = &e
	}

	u, err := scanUser(s.pool.QueryRow(ctx, q, userID, upd.Email, upd.PasswordHash, mood, energy))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == "23505" {
			return domain.User{}, domain.ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		u      domain.User
		idUUID pgtype.UUID
		mood   pgtype.Text
		energy pgtype.Text
	)
	err := row.Scan(&idUUID, &u.Email, &mood, &energy, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, err
	}
	u.ID = uuidOrEmpty(idUUID)
	u.Mood = domain.Mood(textOrEmpty(mood))
	u.Energy = domain.Energy(textOrEmpty(energy))
	return u, nil
}

func scanUserWithPassword(row pgx.Row) (domain.UserWithPassword, error) {
	var (
		u                domain.UserWithPassword
		idUUID           pgtype.UUID
		mood             pgtype.Text
		energy           pgtype.Text
		resetToken       pgtype.Text
		resetTokenExpiry pgtype.Timestamptz
	)
	err := row.Scan(&idUUID, &u.Email, &mood, &energy, &u.CreatedAt, &u.UpdatedAt,
		&u.PasswordHash, &resetToken, &resetTokenExpiry)
	if err != nil {
		return domain.UserWithPassword{}, err
	}
	u.ID = uuidOrEmpty(idUUID)
	u.Mood = domain.Mood(textOrEmpty(mood))
	u.Energy = domain.Energy(textOrEmpty(energy))
	u.ResetToken = textOrEmpty(resetToken)
	u.ResetTokenExpiry = timestamptzPtr(resetTokenExpiry)
	return u, nil
}

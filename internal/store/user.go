package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Amadorfl72/mentorhub/types"
)

const userColumns = `id, username, email, COALESCE(google_id, ''), photo_url, avatar_key,
		password_hash, role, skills, interests, admin, email_notifications, language,
		created_at, updated_at`

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row interface{ Scan(dest ...any) error }) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.GoogleID,
		&user.PhotoURL,
		&user.AvatarKey,
		&user.PasswordHash,
		&user.Role,
		&user.Skills,
		&user.Interests,
		&user.Admin,
		&user.EmailNotifications,
		&user.Language,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (types.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]types.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []types.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Language == "" {
		user.Language = types.LangEnglish
	}
	if user.Role == "" {
		user.Role = types.RolePending
	}

	const query = `
		INSERT INTO users (username, email, google_id, photo_url, avatar_key, password_hash,
			role, skills, interests, admin, email_notifications, language, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		user.Username,
		user.Email,
		user.GoogleID,
		user.PhotoURL,
		user.AvatarKey,
		user.PasswordHash,
		user.Role,
		user.Skills,
		user.Interests,
		user.Admin,
		user.EmailNotifications,
		user.Language,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID); err != nil {
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user types.User) (types.User, error) {
	user.UpdatedAt = time.Now()

	const query = `
		UPDATE users
		SET username = $1,
			email = $2,
			google_id = NULLIF($3, ''),
			photo_url = $4,
			avatar_key = $5,
			password_hash = $6,
			role = $7,
			skills = $8,
			interests = $9,
			admin = $10,
			email_notifications = $11,
			language = $12,
			updated_at = $13
		WHERE id = $14`
	result, err := r.db.ExecContext(
		ctx,
		query,
		user.Username,
		user.Email,
		user.GoogleID,
		user.PhotoURL,
		user.AvatarKey,
		user.PasswordHash,
		user.Role,
		user.Skills,
		user.Interests,
		user.Admin,
		user.EmailNotifications,
		user.Language,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return types.User{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.User{}, err
	}
	if affected == 0 {
		return types.User{}, ErrNotFound
	}
	return user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM users WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

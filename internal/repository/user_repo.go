package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pizzahunt/internal/domain"

	"github.com/sirupsen/logrus"
)

const userColumns = `id, username, email, phone, address, birth_date, newsletter, password_hash, created_at, updated_at`

type postgresUserRepository struct {
	db  DBTX
	log *logrus.Logger
}

func NewPostgresUserRepository(db DBTX, logger *logrus.Logger) domain.UserRepository {
	return &postgresUserRepository{
		db:  db,
		log: logger,
	}
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user      domain.User
		birthDate sql.NullTime
	)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Phone, &user.Address,
		&birthDate, &user.Newsletter, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if birthDate.Valid {
		user.BirthDate = &birthDate.Time
	}
	return &user, nil
}

func (r *postgresUserRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
        INSERT INTO users (username, email, phone, password_hash)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	r.log.Debugf("Repository: Attempting to create user %s", user.Username)

	err := r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.Phone, user.PasswordHash).Scan(
		&user.ID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if pqCode(err) == pqUniqueViolation {
			r.log.Warnf("Repository: Attempted to create duplicate user %s / %s", user.Username, user.Email)
			return nil, fmt.Errorf("user with username '%s' or email '%s' already exists: %w", user.Username, user.Email, domain.ErrConflict)
		}
		r.log.Errorf("Repository: Failed to create user '%s': %v", user.Username, err)
		return nil, fmt.Errorf("could not create user: %w", err)
	}

	r.log.Infof("Repository: User created successfully with ID: %d, Username: %s", user.ID, user.Username)
	return user, nil
}

func (r *postgresUserRepository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: User with ID %d not found", id)
			return nil, fmt.Errorf("user with id %d %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Repository: Failed to get user by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get user by id: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepository) GetUserByLogin(ctx context.Context, login string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR lower(email) = lower($1) LIMIT 1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, login))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: User %s not found", login)
			return nil, fmt.Errorf("user %s %w", login, domain.ErrNotFound)
		}
		r.log.Errorf("Repository: Failed to get user %s: %v", login, err)
		return nil, fmt.Errorf("could not get user by login: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepository) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
        UPDATE users
        SET email = $1, phone = $2, address = $3, birth_date = $4, newsletter = $5, updated_at = NOW()
        WHERE id = $6
        RETURNING ` + userColumns

	var birthDate sql.NullTime
	if user.BirthDate != nil {
		birthDate = sql.NullTime{Time: *user.BirthDate, Valid: true}
	}
	updated, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.Email, user.Phone, user.Address, birthDate, user.Newsletter, user.ID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with id %d %w", user.ID, domain.ErrNotFound)
		}
		if pqCode(err) == pqUniqueViolation {
			return nil, fmt.Errorf("email '%s' is already taken: %w", user.Email, domain.ErrConflict)
		}
		r.log.Errorf("Repository: Failed to update user %d: %v", user.ID, err)
		return nil, fmt.Errorf("could not update user: %w", err)
	}

	r.log.Infof("Repository: User %d updated", updated.ID)
	return updated, nil
}

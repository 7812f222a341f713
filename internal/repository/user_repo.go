package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"store_service/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type postgresUserRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresUserRepository(db *sql.DB, logger *logrus.Logger) domain.UserRepository {
	return &postgresUserRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresUserRepository) CreateUser(user *domain.User) (*domain.User, error) {
	query := `
        INSERT INTO users (username, password_hash)
        VALUES ($1, $2)
        RETURNING id, created_at`

	r.log.Debugf("Repository: Attempting to create user with username: %s", user.Username)

	err := r.db.QueryRow(query, user.Username, user.PasswordHash).Scan(
		&user.ID,
		&user.CreatedAt,
	)

	if err != nil {

		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Repository: Attempted to create user with duplicate username: %s", user.Username)
			return nil, domain.ErrUsernameTaken
		}

		r.log.Errorf("Repository: Failed to create user '%s': %v", user.Username, err)
		return nil, fmt.Errorf("could not create user: %w", err)
	}

	r.log.Infof("Repository: User created successfully with ID: %d, Username: %s", user.ID, user.Username)
	return user, nil
}

func (r *postgresUserRepository) GetUserByUsername(username string) (*domain.User, error) {
	query := `
        SELECT id, username, password_hash, created_at
        FROM users
        WHERE username = $1`
	user := &domain.User{}

	r.log.Debugf("Repository: Attempting to find user by username: %s", username)

	err := r.db.QueryRow(query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: User with username %s not found", username)
			return nil, domain.ErrNotFound
		}
		r.log.Errorf("Repository: Failed to get user by username %s: %v", username, err)
		return nil, fmt.Errorf("could not get user by username: %w", err)
	}

	r.log.Debugf("Repository: User found by username %s (ID: %d)", username, user.ID)
	return user, nil
}

func (r *postgresUserRepository) GetUserByID(id int64) (*domain.User, error) {
	query := `
        SELECT id, username, password_hash, created_at
        FROM users
        WHERE id = $1`
	user := &domain.User{}

	r.log.Debugf("Repository: Attempting to find user by ID: %d", id)

	err := r.db.QueryRow(query, id).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: User with ID %d not found", id)
			return nil, domain.ErrNotFound
		}
		r.log.Errorf("Repository: Failed to get user by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get user by id: %w", err)
	}

	r.log.Debugf("Repository: User found by ID %d (Username: %s)", id, user.Username)
	return user, nil
}

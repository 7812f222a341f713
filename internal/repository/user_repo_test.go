package repository

import (
	"database/sql"
	"regexp"
	"store_service/internal/domain"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserDuplicateUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresUserRepository(db, testLogger())

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("maria", "hash").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err = repo.CreateUser(&domain.User{Username: "maria", PasswordHash: "hash"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByUsernameNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresUserRepository(db, testLogger())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, password_hash")).
		WithArgs("nadie").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetUserByUsername("nadie")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"account_service/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{
	"guid", "username", "name", "surname", "password_hash", "email", "phone",
	"address", "household_contact", "role", "security_question",
	"security_answer_hash", "created_at",
}

func testUser() *model.User {
	return &model.User{
		GUID:               "11111111-2222-3333-4444-555555555555",
		Username:           "ana",
		Name:               "Ana",
		Surname:            "García",
		PasswordHash:       "$2a$10$hash",
		Email:              "ana@example.com",
		Phone:              "5551234567",
		Address:            "Calle 1",
		HouseholdContact:   "Luis García",
		Role:               "",
		SecurityQuestion:   "First pet?",
		SecurityAnswerHash: "$2a$10$answerhash",
		CreatedAt:          time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func userRow(u *model.User) *pgxmock.Rows {
	return pgxmock.NewRows(userCols).AddRow(
		u.GUID, u.Username, u.Name, u.Surname, u.PasswordHash, u.Email, u.Phone,
		u.Address, u.HouseholdContact, u.Role, u.SecurityQuestion,
		u.SecurityAnswerHash, u.CreatedAt,
	)
}

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, UserRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewUserRepository(mock)
}

func TestUserRepository_Create(t *testing.T) {
	mock, repo := newMockRepo(t)
	u := testUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(u.GUID, u.Username, u.Name, u.Surname, u.PasswordHash,
			u.Email, u.Phone, u.Address, u.HouseholdContact, u.Role,
			u.SecurityQuestion, u.SecurityAnswerHash, u.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.Create(context.Background(), u))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateUsername(t *testing.T) {
	mock, repo := newMockRepo(t)
	u := testUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(anyArgs(13)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	err := repo.Create(context.Background(), u)
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	mock, repo := newMockRepo(t)
	u := testUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(anyArgs(13)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := repo.Create(context.Background(), u)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUserRepository_FindByUsername(t *testing.T) {
	mock, repo := newMockRepo(t)
	u := testUser()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE username").
		WithArgs("ana").
		WillReturnRows(userRow(u))

	found, err := repo.FindByUsername(context.Background(), "ana")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, u.GUID, found.GUID)
	assert.Equal(t, u.PasswordHash, found.PasswordHash)
}

func TestUserRepository_FindByUsername_NotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE username").
		WithArgs("nobody").
		WillReturnError(pgx.ErrNoRows)

	found, err := repo.FindByUsername(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestUserRepository_FindByGUID_QueryError(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE guid").
		WithArgs("some-guid").
		WillReturnError(errors.New("connection reset"))

	found, err := repo.FindByGUID(context.Background(), "some-guid")
	assert.Error(t, err)
	assert.Nil(t, found)
}

func TestUserRepository_FindAll(t *testing.T) {
	mock, repo := newMockRepo(t)
	u := testUser()

	rows := userRow(u).AddRow(
		"99999999-8888-7777-6666-555555555555", "luis", "Luis", "Pérez",
		"$2a$10$other", "luis@example.com", "5557654321", "Calle 2",
		"Ana García", "", "Favorite color?", "$2a$10$otheranswer",
		time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC),
	)
	mock.ExpectQuery("SELECT (.+) FROM users ORDER BY created_at").
		WillReturnRows(rows)

	users, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "ana", users[0].Username)
	assert.Equal(t, "luis", users[1].Username)
}

func TestUserRepository_Update_DuplicateEmail(t *testing.T) {
	mock, repo := newMockRepo(t)
	u := testUser()

	mock.ExpectExec("UPDATE users SET").
		WithArgs(anyArgs(12)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := repo.Update(context.Background(), u)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUserRepository_UpdatePasswordHash(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs("$2a$10$newhash", "some-guid").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, repo.UpdatePasswordHash(context.Background(), "some-guid", "$2a$10$newhash"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec("DELETE FROM users WHERE guid").
		WithArgs("some-guid").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	deleted, err := repo.Delete(context.Background(), "some-guid")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestUserRepository_Delete_NoMatch(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec("DELETE FROM users WHERE guid").
		WithArgs("missing-guid").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	deleted, err := repo.Delete(context.Background(), "missing-guid")
	require.NoError(t, err)
	assert.False(t, deleted)
}

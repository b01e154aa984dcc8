package repository

import (
	"context"
	"errors"
	"fmt"

	"account_service/internal/model"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicateUsername signals the unique index on users.username fired
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrDuplicateEmail signals the unique index on users.email fired
	ErrDuplicateEmail = errors.New("email already registered")
)

// PgxPool is the subset of pgxpool.Pool the repository uses; pgxmock
// implements the same methods.
type PgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// UserRepository defines operations for user records
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByGUID(ctx context.Context, guid string) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePasswordHash(ctx context.Context, guid, passwordHash string) error
	Delete(ctx context.Context, guid string) (bool, error)
}

type userRepository struct {
	db PgxPool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db PgxPool) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `guid, username, name, surname, password_hash, email, phone, address, household_contact, role, security_question, security_answer_hash, created_at`

// mapUniqueViolation translates a unique-index violation into the matching
// sentinel error; other errors pass through unchanged.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		switch pgErr.ConstraintName {
		case "users_username_key":
			return ErrDuplicateUsername
		case "users_email_key":
			return ErrDuplicateEmail
		}
	}
	return err
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (` + userColumns + `)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.Exec(ctx, sql,
		user.GUID, user.Username, user.Name, user.Surname, user.PasswordHash,
		user.Email, user.Phone, user.Address, user.HouseholdContact, user.Role,
		user.SecurityQuestion, user.SecurityAnswerHash, user.CreatedAt)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) scanUser(row pgx.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.GUID, &user.Username, &user.Name, &user.Surname, &user.PasswordHash,
		&user.Email, &user.Phone, &user.Address, &user.HouseholdContact, &user.Role,
		&user.SecurityQuestion, &user.SecurityAnswerHash, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found is not an error here, service layer handles it
		}
		return nil, err
	}
	return user, nil
}

// FindByUsername retrieves a user by their username
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	user, err := r.scanUser(r.db.QueryRow(ctx, sql, username))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return user, nil
}

// FindByEmail retrieves a user by their email address
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := r.scanUser(r.db.QueryRow(ctx, sql, email))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByGUID retrieves a user by their stable identifier
func (r *userRepository) FindByGUID(ctx context.Context, guid string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE guid = $1`
	user, err := r.scanUser(r.db.QueryRow(ctx, sql, guid))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by guid: %w", err)
	}
	return user, nil
}

// FindAll retrieves every user record
func (r *userRepository) FindAll(ctx context.Context) ([]model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var user model.User
		if err := rows.Scan(
			&user.GUID, &user.Username, &user.Name, &user.Surname, &user.PasswordHash,
			&user.Email, &user.Phone, &user.Address, &user.HouseholdContact, &user.Role,
			&user.SecurityQuestion, &user.SecurityAnswerHash, &user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read user rows: %w", err)
	}
	return users, nil
}

// Update replaces all mutable columns of the record identified by GUID
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	sql := `UPDATE users SET username = $1, name = $2, surname = $3, password_hash = $4,
            email = $5, phone = $6, address = $7, household_contact = $8, role = $9,
            security_question = $10, security_answer_hash = $11
            WHERE guid = $12`
	_, err := r.db.Exec(ctx, sql,
		user.Username, user.Name, user.Surname, user.PasswordHash,
		user.Email, user.Phone, user.Address, user.HouseholdContact, user.Role,
		user.SecurityQuestion, user.SecurityAnswerHash, user.GUID)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// UpdatePasswordHash overwrites only the password hash of the record
func (r *userRepository) UpdatePasswordHash(ctx context.Context, guid, passwordHash string) error {
	sql := `UPDATE users SET password_hash = $1 WHERE guid = $2`
	if _, err := r.db.Exec(ctx, sql, passwordHash, guid); err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	return nil
}

// Delete permanently removes the record; returns whether a row matched
func (r *userRepository) Delete(ctx context.Context, guid string) (bool, error) {
	ct, err := r.db.Exec(ctx, `DELETE FROM users WHERE guid = $1`, guid)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

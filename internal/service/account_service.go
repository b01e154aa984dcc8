package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"account_service/internal/config"
	"account_service/internal/model"
	"account_service/internal/repository"
	"account_service/internal/utils"

	"github.com/google/uuid"
)

var (
	ErrMissingFields       = errors.New("missing required fields")
	ErrUsernameTaken       = errors.New("user with this username already exists")
	ErrEmailTaken          = errors.New("email already registered")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("incorrect password")
	ErrWrongSecurityAnswer = errors.New("incorrect security answer")
)

// AccountService provides the account management operations
type AccountService interface {
	Register(ctx context.Context, req model.RegisterRequest) error
	Login(ctx context.Context, username, password string) (string, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, guid string) (*model.User, error)
	UpdateUser(ctx context.Context, guid string, patch model.UserPatch) (*model.User, error)
	DeleteUser(ctx context.Context, guid string) error
	SecurityQuestion(ctx context.Context, username string) (string, error)
	RecoverPassword(ctx context.Context, username, answer, newPassword string) error
}

type accountService struct {
	userRepo   repository.UserRepository
	profile    config.Profile
	bcryptCost int
}

// NewAccountService creates a new AccountService. bcryptCost <= 0 selects
// the bcrypt default.
func NewAccountService(userRepo repository.UserRepository, profile config.Profile, bcryptCost int) AccountService {
	return &accountService{
		userRepo:   userRepo,
		profile:    profile,
		bcryptCost: bcryptCost,
	}
}

func (s *accountService) hashSecret(secret string) (string, error) {
	return utils.HashPasswordWithCost(secret, s.bcryptCost)
}

// Register creates a new user account after profile validation and
// uniqueness checks. The pre-insert lookups are an early exit only; the
// unique indexes on username and email are the actual guarantee, and a lost
// race surfaces as the same conflict error from Create.
func (s *accountService) Register(ctx context.Context, req model.RegisterRequest) error {
	if missing := s.profile.MissingFields(req); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}

	existing, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return fmt.Errorf("failed to check existing username: %w", err)
	}
	if existing != nil {
		return ErrUsernameTaken
	}

	if s.profile.RequiresEmail() {
		existing, err = s.userRepo.FindByEmail(ctx, req.Email)
		if err != nil {
			return fmt.Errorf("failed to check existing email: %w", err)
		}
		if existing != nil {
			return ErrEmailTaken
		}
	}

	passwordHash, err := s.hashSecret(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	answerHash, err := s.hashSecret(req.SecurityAnswer)
	if err != nil {
		return fmt.Errorf("failed to hash security answer: %w", err)
	}

	user := &model.User{
		GUID:               uuid.NewString(),
		Username:           req.Username,
		Name:               req.Name,
		Surname:            req.Surname,
		PasswordHash:       passwordHash,
		Email:              req.Email,
		Phone:              req.Phone,
		Address:            req.Address,
		HouseholdContact:   req.HouseholdContact,
		Role:               req.Role,
		SecurityQuestion:   req.SecurityQuestion,
		SecurityAnswerHash: answerHash,
		CreatedAt:          time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return ErrUsernameTaken
		case errors.Is(err, repository.ErrDuplicateEmail):
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user in repository: %w", err)
	}
	return nil
}

// Login verifies credentials and returns the stable identifier only
func (s *accountService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("error finding user by username: %w", err)
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	return user.GUID, nil
}

// ListUsers returns every record; hash fields are never serialized
func (s *accountService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser returns the record with the given identifier
func (s *accountService) GetUser(ctx context.Context, guid string) (*model.User, error) {
	user, err := s.userRepo.FindByGUID(ctx, guid)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateUser applies a partial merge: only fields present in the patch
// replace stored values. A new password or security answer is re-hashed;
// empty strings for either are ignored rather than hashed.
func (s *accountService) UpdateUser(ctx context.Context, guid string, patch model.UserPatch) (*model.User, error) {
	user, err := s.userRepo.FindByGUID(ctx, guid)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := s.applyPatch(user, patch); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *accountService) applyPatch(user *model.User, patch model.UserPatch) error {
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Surname != nil {
		user.Surname = *patch.Surname
	}
	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}
	if patch.Address != nil {
		user.Address = *patch.Address
	}
	if patch.HouseholdContact != nil {
		user.HouseholdContact = *patch.HouseholdContact
	}
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	if patch.SecurityQuestion != nil {
		user.SecurityQuestion = *patch.SecurityQuestion
	}
	if patch.Password != nil && *patch.Password != "" {
		hash, err := s.hashSecret(*patch.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if patch.SecurityAnswer != nil && *patch.SecurityAnswer != "" {
		hash, err := s.hashSecret(*patch.SecurityAnswer)
		if err != nil {
			return fmt.Errorf("failed to hash security answer: %w", err)
		}
		user.SecurityAnswerHash = hash
	}
	return nil
}

// DeleteUser permanently removes the record
func (s *accountService) DeleteUser(ctx context.Context, guid string) error {
	deleted, err := s.userRepo.Delete(ctx, guid)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !deleted {
		return ErrUserNotFound
	}
	return nil
}

// SecurityQuestion returns only the stored question, never the answer
func (s *accountService) SecurityQuestion(ctx context.Context, username string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("error finding user by username: %w", err)
	}
	if user == nil {
		return "", ErrUserNotFound
	}
	return user.SecurityQuestion, nil
}

// RecoverPassword verifies the security answer and overwrites the password
// hash in place; no other field is touched. Knowledge of the answer
// substitutes for a session here.
func (s *accountService) RecoverPassword(ctx context.Context, username, answer, newPassword string) error {
	if answer == "" || newPassword == "" {
		return ErrMissingFields
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("error finding user by username: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	if !utils.CheckPasswordHash(answer, user.SecurityAnswerHash) {
		return ErrWrongSecurityAnswer
	}

	passwordHash, err := s.hashSecret(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	if err := s.userRepo.UpdatePasswordHash(ctx, user.GUID, passwordHash); err != nil {
		return fmt.Errorf("failed to store new password: %w", err)
	}
	return nil
}

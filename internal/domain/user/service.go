package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hospital-admin-go/internal/domain/shared"
)

const table = "system_users"

type Service struct {
	repo     Repository
	tokens   *Tokens
	notifier shared.Notifier
	cost     int
}

func NewService(repo Repository, tokens *Tokens, notifier shared.Notifier) *Service {
	if notifier == nil {
		notifier = shared.NopNotifier{}
	}
	return &Service{repo: repo, tokens: tokens, notifier: notifier, cost: bcrypt.DefaultCost}
}

func (s *Service) List(ctx context.Context) ([]SystemUser, error) {
	return s.repo.ListUsers(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*SystemUser, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*SystemUser, error) {
	username := normalizeUsername(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if err := validatePassword(input.Password, input.ConfirmPassword); err != nil {
		return nil, err
	}
	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = RoleUser
	}
	if !IsValidRole(role) {
		return nil, ErrInvalidRole
	}

	if _, err := s.repo.GetUserByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := SystemUser{
		ID:           uuid.NewString(),
		Username:     username,
		HoTen:        strings.TrimSpace(input.HoTen),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.CreateUser(ctx, &user); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, table, shared.ActionInsert, user.ID)
	return &user, nil
}

func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*SystemUser, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	wasActiveAdmin := user.Role == RoleAdmin && user.IsActive

	if input.HoTen != nil {
		user.HoTen = strings.TrimSpace(*input.HoTen)
	}
	if input.Role != nil {
		role := strings.TrimSpace(*input.Role)
		if !IsValidRole(role) {
			return nil, ErrInvalidRole
		}
		user.Role = role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Password != "" || input.ConfirmPassword != "" {
		if err := validatePassword(input.Password, input.ConfirmPassword); err != nil {
			return nil, err
		}
		hash, err := s.hash(input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if wasActiveAdmin && !(user.Role == RoleAdmin && user.IsActive) {
		if err := s.ensureAnotherAdmin(ctx); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, table, shared.ActionUpdate, id)
	return user, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == RoleAdmin && user.IsActive {
		if err := s.ensureAnotherAdmin(ctx); err != nil {
			return err
		}
	}

	ok, err := s.repo.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}

	s.notifier.Notify(ctx, table, shared.ActionDelete, id)
	return nil
}

// ChangePassword lets a user replace their own password after proving the
// current one.
func (s *Service) ChangePassword(ctx context.Context, id, current, password, confirm string) error {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	if err := validatePassword(password, confirm); err != nil {
		return err
	}

	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.repo.UpdateUser(ctx, user)
}

func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.repo.GetUserByUsername(ctx, normalizeUsername(username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	token, expiresAt, err := s.tokens.Issue(*user)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: *user}, nil
}

// Authenticate verifies a session token and reloads the user so disabled
// accounts and role changes take effect before the token expires.
func (s *Service) Authenticate(ctx context.Context, token string) (*SystemUser, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	username = normalizeUsername(username)
	if username == "" || password == "" {
		return false, nil
	}
	if _, err := s.repo.GetUserByUsername(ctx, username); err == nil {
		return false, nil
	} else if !errors.Is(err, ErrUserNotFound) {
		return false, err
	}

	_, err := s.Create(ctx, CreateInput{
		Username:        username,
		HoTen:           "Quản trị hệ thống",
		Password:        password,
		ConfirmPassword: password,
		Role:            RoleAdmin,
	})
	if err != nil {
		return false, fmt.Errorf("bootstrap admin: %w", err)
	}
	return true, nil
}

func (s *Service) ensureAnotherAdmin(ctx context.Context) error {
	count, err := s.repo.CountActiveAdmins(ctx)
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrLastAdmin
	}
	return nil
}

func (s *Service) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func IsValidRole(role string) bool {
	switch role {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	default:
		return false
	}
}

func validatePassword(password, confirm string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

package user

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users map[string]*SystemUser
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*SystemUser)}
}

func (r *fakeUserRepo) ListUsers(ctx context.Context) ([]SystemUser, error) {
	result := make([]SystemUser, 0, len(r.users))
	for _, user := range r.users {
		result = append(result, *user)
	}
	return result, nil
}

func (r *fakeUserRepo) GetUser(ctx context.Context, id string) (*SystemUser, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*SystemUser, error) {
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *SystemUser) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdateUser(ctx context.Context, user *SystemUser) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) DeleteUser(ctx context.Context, id string) (bool, error) {
	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}

func (r *fakeUserRepo) CountActiveAdmins(ctx context.Context) (int64, error) {
	var count int64
	for _, user := range r.users {
		if user.Role == RoleAdmin && user.IsActive {
			count++
		}
	}
	return count, nil
}

func newTestService(repo Repository) *Service {
	service := NewService(repo, NewTokens("test-secret", time.Hour, "hospital-admin"), nil)
	service.cost = bcrypt.MinCost
	return service
}

func TestCreateValidatesPassword(t *testing.T) {
	service := newTestService(newFakeUserRepo())

	_, err := service.Create(context.Background(), CreateInput{Username: " ", Password: "123456", ConfirmPassword: "123456"})
	assert.ErrorIs(t, err, ErrUsernameRequired)

	_, err = service.Create(context.Background(), CreateInput{Username: "a", Password: "12345", ConfirmPassword: "12345"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = service.Create(context.Background(), CreateInput{Username: "a", Password: "123456", ConfirmPassword: "123457"})
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	long := strings.Repeat("a", MaxPasswordBytes+1)
	_, err = service.Create(context.Background(), CreateInput{Username: "a", Password: long, ConfirmPassword: long})
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	// 25 three-byte runes pass the rune minimum but exceed the byte limit.
	accented := strings.Repeat("ệ", 25)
	_, err = service.Create(context.Background(), CreateInput{Username: "a", Password: accented, ConfirmPassword: accented})
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	exact := strings.Repeat("a", MaxPasswordBytes)
	_, err = service.Create(context.Background(), CreateInput{Username: "a", Password: exact, ConfirmPassword: exact})
	assert.NoError(t, err)

	_, err = service.Create(context.Background(), CreateInput{Username: "a", Password: "123456", ConfirmPassword: "123456", Role: "root"})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestCreateHashesAndRejectsDuplicates(t *testing.T) {
	repo := newFakeUserRepo()
	service := newTestService(repo)

	created, err := service.Create(context.Background(), CreateInput{Username: " BacSi.An ", Password: "mật khẩu", ConfirmPassword: "mật khẩu"})
	require.NoError(t, err)
	assert.Equal(t, "bacsi.an", created.Username)
	assert.Equal(t, RoleUser, created.Role)
	assert.True(t, created.IsActive)
	assert.NotEqual(t, "mật khẩu", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("mật khẩu")))

	_, err = service.Create(context.Background(), CreateInput{Username: "bacsi.an", Password: "123456", ConfirmPassword: "123456"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLoginAndAuthenticate(t *testing.T) {
	repo := newFakeUserRepo()
	service := newTestService(repo)

	created, err := service.Create(context.Background(), CreateInput{Username: "dieuduong", Password: "secret1", ConfirmPassword: "secret1", Role: RoleManager})
	require.NoError(t, err)

	_, err = service.Login(context.Background(), "dieuduong", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = service.Login(context.Background(), "nobody", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	session, err := service.Login(context.Background(), "DieuDuong", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, created.ID, session.User.ID)

	user, err := service.Authenticate(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, RoleManager, user.Role)

	repo.users[created.ID].IsActive = false
	_, err = service.Authenticate(context.Background(), session.Token)
	assert.ErrorIs(t, err, ErrUserInactive)
	_, err = service.Login(context.Background(), "dieuduong", "secret1")
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestTokensRejectTamperingAndExpiry(t *testing.T) {
	tokens := NewTokens("secret-a", time.Minute, "hospital-admin")
	issued, _, err := tokens.Issue(SystemUser{ID: "u1", Username: "a", Role: RoleUser})
	require.NoError(t, err)

	claims, err := tokens.Parse(issued)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)

	_, err = NewTokens("secret-b", time.Minute, "hospital-admin").Parse(issued)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokens("secret-a", time.Minute, "other-issuer").Parse(issued)
	assert.ErrorIs(t, err, ErrInvalidToken)

	later := NewTokens("secret-a", time.Minute, "hospital-admin")
	later.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = later.Parse(issued)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = NewTokens("", time.Minute, "").Issue(SystemUser{ID: "u1"})
	assert.ErrorIs(t, err, ErrTokenNotConfigured)
}

func TestChangePassword(t *testing.T) {
	repo := newFakeUserRepo()
	service := newTestService(repo)

	created, err := service.Create(context.Background(), CreateInput{Username: "a", Password: "old-pass", ConfirmPassword: "old-pass"})
	require.NoError(t, err)

	assert.ErrorIs(t, service.ChangePassword(context.Background(), created.ID, "nope", "new-pass", "new-pass"), ErrInvalidCredentials)
	assert.ErrorIs(t, service.ChangePassword(context.Background(), created.ID, "old-pass", "new", "new"), ErrPasswordTooShort)
	long := strings.Repeat("x", MaxPasswordBytes+1)
	assert.ErrorIs(t, service.ChangePassword(context.Background(), created.ID, "old-pass", long, long), ErrPasswordTooLong)
	require.NoError(t, service.ChangePassword(context.Background(), created.ID, "old-pass", "new-pass", "new-pass"))

	_, err = service.Login(context.Background(), "a", "new-pass")
	assert.NoError(t, err)
}

func TestLastAdminIsProtected(t *testing.T) {
	repo := newFakeUserRepo()
	service := newTestService(repo)

	created, err := service.EnsureAdmin(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, created)
	again, err := service.EnsureAdmin(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.False(t, again)

	admin, err := service.repo.GetUserByUsername(context.Background(), "admin")
	require.NoError(t, err)

	assert.ErrorIs(t, service.Delete(context.Background(), admin.ID), ErrLastAdmin)
	disabled := false
	_, err = service.Update(context.Background(), admin.ID, UpdateInput{IsActive: &disabled})
	assert.ErrorIs(t, err, ErrLastAdmin)

	_, err = service.Create(context.Background(), CreateInput{Username: "admin2", Password: "admin123", ConfirmPassword: "admin123", Role: RoleAdmin})
	require.NoError(t, err)
	assert.NoError(t, service.Delete(context.Background(), admin.ID))
}

package authService

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/KotFed0t/invest_tracker/data/cache"
	"github.com/KotFed0t/invest_tracker/data/repository"
	"github.com/KotFed0t/invest_tracker/internal/model"
	"github.com/KotFed0t/invest_tracker/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepo struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]model.User{}}
}

func (f *fakeRepo) CreateUser(_ context.Context, email, passwordHash string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[email]; ok {
		return model.User{}, repository.ErrAlreadyExists
	}
	u := model.User{ID: uuid.New(), Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	f.users[email] = u
	return u, nil
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeRepo) GetUserByID(_ context.Context, userID uuid.UUID) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeRepo) MarkUserVerified(_ context.Context, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for email, u := range f.users {
		if u.ID == userID {
			if u.IsVerified {
				return false, nil
			}
			u.IsVerified = true
			f.users[email] = u
			return true, nil
		}
	}
	return false, repository.ErrNotFound
}

type fakeMailer struct {
	codes    map[string]string
	welcomed []string
}

func (f *fakeMailer) SendVerificationCode(_ context.Context, email, code string) error {
	f.codes[email] = code
	return nil
}

func (f *fakeMailer) SendWelcome(_ context.Context, email string) error {
	f.welcomed = append(f.welcomed, email)
	return nil
}

func newTestService() (*AuthService, *fakeRepo, *fakeMailer, *cache.MemoryCache) {
	repo := newFakeRepo()
	mailer := &fakeMailer{codes: map[string]string{}}
	c := cache.NewMemoryCache()
	s := New(repo, c, mailer, "test-secret", time.Hour, 10*time.Minute)
	s.hashCost = bcrypt.MinCost
	return s, repo, mailer, c
}

func TestAuthService_SignupLoginVerify(t *testing.T) {
	s, repo, mailer, _ := newTestService()
	ctx := context.Background()

	user, err := s.Signup(ctx, " John@Example.com ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", user.Email)
	assert.NotEqual(t, "secret", repo.users["john@example.com"].PasswordHash)

	res, err := s.Login(ctx, "john@example.com", "secret")
	require.NoError(t, err)
	assert.True(t, res.VerificationRequired)
	assert.Empty(t, res.Token)

	code := mailer.codes["john@example.com"]
	require.Len(t, code, 6)

	res, err = s.Verify(ctx, "JOHN@example.com", code)
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.Equal(t, []string{"john@example.com"}, mailer.welcomed)

	session, err := s.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)
	assert.Equal(t, "john@example.com", session.Email)

	// код одноразовый
	_, err = s.Verify(ctx, "john@example.com", code)
	assert.ErrorIs(t, err, service.ErrVerificationExpired)

	res, err = s.Login(ctx, "john@example.com", "secret")
	require.NoError(t, err)
	assert.False(t, res.VerificationRequired)
	assert.NotEmpty(t, res.Token)
	assert.Len(t, mailer.welcomed, 1)
}

func TestAuthService_Signup_Errors(t *testing.T) {
	s, _, _, _ := newTestService()
	ctx := context.Background()

	_, err := s.Signup(ctx, "a@b.co", "pw")
	require.NoError(t, err)

	_, err = s.Signup(ctx, "A@B.co", "pw")
	assert.ErrorIs(t, err, service.ErrAlreadyExists)

	_, err = s.Signup(ctx, "not-an-email", "pw")
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = s.Signup(ctx, "c@d.co", "")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	s, _, _, _ := newTestService()
	ctx := context.Background()
	_, err := s.Signup(ctx, "a@b.co", "right")
	require.NoError(t, err)

	_, err = s.Login(ctx, "a@b.co", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = s.Login(ctx, "nobody@b.co", "right")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuthService_Verify_WrongAndExpiredCode(t *testing.T) {
	s, _, _, c := newTestService()
	ctx := context.Background()
	s.genCode = func() (string, error) { return "123456", nil }

	_, err := s.Signup(ctx, "a@b.co", "pw")
	require.NoError(t, err)

	_, err = s.Login(ctx, "a@b.co", "pw")
	require.NoError(t, err)

	_, err = s.Verify(ctx, "a@b.co", "654321")
	assert.ErrorIs(t, err, service.ErrInvalidCode)

	s.now = func() time.Time { return time.Now().Add(-11 * time.Minute) }
	_, err = s.Login(ctx, "a@b.co", "pw")
	require.NoError(t, err)
	s.now = time.Now

	_, err = s.Verify(ctx, "a@b.co", "123456")
	assert.ErrorIs(t, err, service.ErrVerificationExpired)

	var stored model.VerificationCode
	assert.False(t, c.Get(ctx, cache.VerificationKey("a@b.co"), &stored))
}

func TestAuthService_Verify_AttemptsExhausted(t *testing.T) {
	s, _, _, c := newTestService()
	ctx := context.Background()
	s.genCode = func() (string, error) { return "123456", nil }

	_, err := s.Signup(ctx, "a@b.co", "pw")
	require.NoError(t, err)
	_, err = s.Login(ctx, "a@b.co", "pw")
	require.NoError(t, err)

	for i := 1; i < maxVerifyAttempts; i++ {
		_, err = s.Verify(ctx, "a@b.co", "000000")
		assert.ErrorIs(t, err, service.ErrInvalidCode)

		var stored model.VerificationCode
		require.True(t, c.Get(ctx, cache.VerificationKey("a@b.co"), &stored))
		assert.Equal(t, i, stored.Attempts)
	}

	_, err = s.Verify(ctx, "a@b.co", "000000")
	assert.ErrorIs(t, err, service.ErrInvalidCode)

	// правильный код уже не принимается
	_, err = s.Verify(ctx, "a@b.co", "123456")
	assert.ErrorIs(t, err, service.ErrVerificationExpired)
}

func TestAuthService_ParseToken_Invalid(t *testing.T) {
	s, _, _, _ := newTestService()

	_, err := s.ParseToken("garbage")
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	other := New(newFakeRepo(), cache.NewMemoryCache(), &fakeMailer{}, "other-secret", time.Hour, time.Minute)
	token, _, err := other.signer.sign(model.User{ID: uuid.New(), Email: "x@y.z"}, time.Now())
	require.NoError(t, err)

	_, err = s.ParseToken(token)
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	expired, _, err := s.signer.sign(model.User{ID: uuid.New()}, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = s.ParseToken(expired)
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		assert.NotEqual(t, byte('0'), code[0])
	}
}

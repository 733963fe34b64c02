package authService

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/KotFed0t/invest_tracker/data/cache"
	"github.com/KotFed0t/invest_tracker/data/repository"
	"github.com/KotFed0t/invest_tracker/internal/model"
	"github.com/KotFed0t/invest_tracker/internal/service"
	"github.com/KotFed0t/invest_tracker/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	passwordHashCost  = 12
	maxVerifyAttempts = 5
)

type Repository interface {
	CreateUser(ctx context.Context, email, passwordHash string) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (model.User, error)
	MarkUserVerified(ctx context.Context, userID uuid.UUID) (firstVerification bool, err error)
}

type Cache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type Mailer interface {
	SendVerificationCode(ctx context.Context, email, code string) error
	SendWelcome(ctx context.Context, email string) error
}

type AuthService struct {
	repo     Repository
	cache    Cache
	mailer   Mailer
	signer   tokenSigner
	codeTTL  time.Duration
	hashCost int
	now      func() time.Time
	genCode  func() (string, error)
}

func New(repo Repository, cache Cache, mailer Mailer, jwtSecret string, sessionTTL, codeTTL time.Duration) *AuthService {
	return &AuthService{
		repo:     repo,
		cache:    cache,
		mailer:   mailer,
		signer:   tokenSigner{secret: []byte(jwtSecret), ttl: sessionTTL},
		codeTTL:  codeTTL,
		hashCost: passwordHashCost,
		now:      time.Now,
		genCode:  generateCode,
	}
}

func (s *AuthService) Signup(ctx context.Context, email, password string) (user model.User, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "AuthService.Signup"

	slog.Debug("Signup start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		if err != nil {
			slog.Error("Signup failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("Signup completed", slog.String("rqID", rqID), slog.String("op", op), slog.String("userID", user.ID.String()))
		}
	}()

	email, err = normalizeEmail(email)
	if err != nil {
		return model.User{}, err
	}
	if password == "" {
		return model.User{}, fmt.Errorf("%w: password is required", service.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return model.User{}, err
	}

	user, err = s.repo.CreateUser(ctx, email, string(hash))
	if errors.Is(err, repository.ErrAlreadyExists) {
		return model.User{}, service.ErrAlreadyExists
	}
	if err != nil {
		return model.User{}, err
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (res model.AuthResult, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "AuthService.Login"

	slog.Debug("Login start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		if err != nil {
			slog.Warn("Login failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("Login completed", slog.String("rqID", rqID), slog.String("op", op), slog.Bool("verificationRequired", res.VerificationRequired))
		}
	}()

	email, err = normalizeEmail(email)
	if err != nil {
		return model.AuthResult{}, err
	}
	if password == "" {
		return model.AuthResult{}, fmt.Errorf("%w: password is required", service.ErrInvalidInput)
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return model.AuthResult{}, service.ErrInvalidCredentials
	}
	if err != nil {
		return model.AuthResult{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return model.AuthResult{}, service.ErrInvalidCredentials
	}

	if user.IsVerified {
		token, expiresAt, err := s.signer.sign(user, s.now())
		if err != nil {
			return model.AuthResult{}, err
		}
		return model.AuthResult{Token: token, ExpiresAt: expiresAt}, nil
	}

	code, err := s.genCode()
	if err != nil {
		return model.AuthResult{}, err
	}

	err = s.cache.Set(ctx, cache.VerificationKey(email), model.VerificationCode{
		Code:      code,
		UserID:    user.ID,
		CreatedAt: s.now(),
	}, s.codeTTL)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("save verification code: %w", err)
	}

	err = s.mailer.SendVerificationCode(ctx, email, code)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("send verification code: %w", err)
	}

	return model.AuthResult{VerificationRequired: true}, nil
}

func (s *AuthService) Verify(ctx context.Context, email, code string) (res model.AuthResult, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "AuthService.Verify"

	slog.Debug("Verify start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		if err != nil {
			slog.Warn("Verify failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("Verify completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	email, err = normalizeEmail(email)
	if err != nil {
		return model.AuthResult{}, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return model.AuthResult{}, fmt.Errorf("%w: verification code is required", service.ErrInvalidInput)
	}

	key := cache.VerificationKey(email)
	var stored model.VerificationCode
	if !s.cache.Get(ctx, key, &stored) {
		return model.AuthResult{}, service.ErrVerificationExpired
	}

	age := s.now().Sub(stored.CreatedAt)
	if age > s.codeTTL {
		s.deleteCode(ctx, key)
		return model.AuthResult{}, service.ErrVerificationExpired
	}

	if subtle.ConstantTimeCompare([]byte(stored.Code), []byte(code)) != 1 {
		s.registerFailedAttempt(ctx, key, stored, s.codeTTL-age)
		return model.AuthResult{}, service.ErrInvalidCode
	}

	user, err := s.repo.GetUserByID(ctx, stored.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.AuthResult{}, service.ErrNotFound
	}
	if err != nil {
		return model.AuthResult{}, err
	}

	token, expiresAt, err := s.signer.sign(user, s.now())
	if err != nil {
		return model.AuthResult{}, err
	}

	s.deleteCode(ctx, key)

	firstVerification, err := s.repo.MarkUserVerified(ctx, user.ID)
	if err != nil {
		return model.AuthResult{}, err
	}

	if firstVerification {
		if err := s.mailer.SendWelcome(ctx, user.Email); err != nil {
			slog.Warn("can't send welcome email", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}

	return model.AuthResult{Token: token, ExpiresAt: expiresAt}, nil
}

// ParseToken validates a session token and returns the session it describes.
func (s *AuthService) ParseToken(token string) (model.Session, error) {
	session, err := s.signer.verify(token)
	if err != nil {
		return model.Session{}, fmt.Errorf("%w: %s", service.ErrUnauthorized, err.Error())
	}
	return session, nil
}

// registerFailedAttempt drops the code after maxVerifyAttempts wrong guesses.
func (s *AuthService) registerFailedAttempt(ctx context.Context, key string, stored model.VerificationCode, ttl time.Duration) {
	stored.Attempts++
	if stored.Attempts >= maxVerifyAttempts || ttl <= 0 {
		slog.Warn("verification attempts exhausted", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("userID", stored.UserID.String()))
		s.deleteCode(ctx, key)
		return
	}

	if err := s.cache.Set(ctx, key, stored, ttl); err != nil {
		slog.Warn("can't save verification attempts", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
	}
}

func (s *AuthService) deleteCode(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		slog.Warn("can't delete verification code", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", service.ErrInvalidInput)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email", service.ErrInvalidInput)
	}
	return email, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"immo/backend/internal/models"
	"immo/backend/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCode        = errors.New("invalid or expired code")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrSignupRole         = errors.New("role not allowed at sign-up")
	ErrNameRequired       = errors.New("name is required")
)

const (
	minPasswordLen = 8
	// maxCodeAttempts wrong guesses burn a code.
	maxCodeAttempts = 5
)

// CodeSender delivers one-time codes to an email address.
type CodeSender interface {
	SendCode(ctx context.Context, email string, purpose models.CodePurpose, code string) error
}

// AdminNotifier is told about every new profile.
type AdminNotifier interface {
	NotifyAdmins(ctx context.Context, newProfile models.Profile) error
}

// LogCodeSender writes codes to the log. Local development only, enabled with MAIL_LOG_CODES.
type LogCodeSender struct {
	Logger *slog.Logger
}

func (s LogCodeSender) SendCode(_ context.Context, email string, purpose models.CodePurpose, code string) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("one-time code written to log", "email", email, "purpose", purpose, "code", code)
	return nil
}

// ErrNoMailTransport is returned when a code must be sent but no sender is configured.
var ErrNoMailTransport = errors.New("no mail transport configured")

// discardSender never reveals the code.
type discardSender struct {
	logger *slog.Logger
}

func (s discardSender) SendCode(_ context.Context, email string, purpose models.CodePurpose, _ string) error {
	s.logger.Warn("one-time code not delivered", "email", email, "purpose", purpose, "error", ErrNoMailTransport)
	return nil
}

// ServiceConfig wires the auth service.
type ServiceConfig struct {
	DB       *gorm.DB
	Secret   string
	TokenTTL time.Duration
	CodeTTL  time.Duration
	Sender   CodeSender
	Admins   AdminNotifier
	Logger   *slog.Logger
}

// Service implements sign-up, sign-in, sign-out, email codes and password changes.
type Service struct {
	db       *gorm.DB
	secret   string
	tokenTTL time.Duration
	codeTTL  time.Duration
	sender   CodeSender
	admins   AdminNotifier
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(cfg ServiceConfig) *Service {
	s := &Service{
		db:       cfg.DB,
		secret:   cfg.Secret,
		tokenTTL: cfg.TokenTTL,
		codeTTL:  cfg.CodeTTL,
		sender:   cfg.Sender,
		admins:   cfg.Admins,
		logger:   cfg.Logger,
		now:      time.Now,
	}
	if s.codeTTL <= 0 {
		s.codeTTL = 15 * time.Minute
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.sender == nil {
		s.sender = discardSender{logger: s.logger}
	}
	return s
}

// SignUpInput is the registration payload.
type SignUpInput struct {
	Nom       string
	Email     string
	Password  string
	Telephone *string
	Role      models.Role
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates the profile, issues a signup code and tells the admins.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*models.Profile, error) {
	email := normalizeEmail(in.Email)
	nom := strings.TrimSpace(in.Nom)
	if nom == "" {
		return nil, ErrNameRequired
	}
	if len(in.Password) < minPasswordLen {
		return nil, ErrWeakPassword
	}
	role := in.Role
	if role == "" {
		role = models.RoleClient
	}
	if role != models.RoleClient && role != models.RoleCourtier {
		return nil, ErrSignupRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	profile := models.Profile{
		Nom:          nom,
		Email:        email,
		Telephone:    in.Telephone,
		Role:         role,
		PasswordHash: string(hash),
	}
	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("sign-up insert failed", "email", email, "error", err)
		return nil, err
	}

	if err := s.SendCode(ctx, email, models.CodeSignup); err != nil {
		s.logger.Error("sign-up code not sent", "email", email, "error", err)
	}
	if s.admins != nil {
		if err := s.admins.NotifyAdmins(ctx, profile); err != nil {
			s.logger.Error("admin notification failed", "profile_id", profile.ID, "error", err)
		}
	}
	return &profile, nil
}

// SignIn checks the password and returns a signed token with the caller's session.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, *Session, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if profile.EmailVerifiedAt == nil {
		return "", nil, ErrEmailNotVerified
	}

	return s.issue(profile)
}

func (s *Service) issue(profile models.Profile) (string, *Session, error) {
	token, err := jwt.Sign(s.secret, profile.ID, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, NewSession(profile), nil
}

// SignOut revokes the token the current session was built from.
func (s *Service) SignOut(ctx context.Context) error {
	sess, err := RequireSession(ctx)
	if err != nil {
		return err
	}
	if sess.TokenID == uuid.Nil {
		return nil
	}
	rec := models.RevokedToken{JTI: sess.TokenID, ExpiresAt: sess.ExpiresAt}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rec).Error
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// SendCode issues a fresh one-time code and retires any earlier live code for the
// same email and purpose. Unknown emails are ignored silently.
func (s *Service) SendCode(ctx context.Context, email string, purpose models.CodePurpose) error {
	email = normalizeEmail(email)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Profile{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return nil
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash code: %w", err)
	}

	now := s.now()
	rec := models.OneTimeCode{
		Email:     email,
		Purpose:   purpose,
		CodeHash:  string(hash),
		ExpiresAt: now.Add(s.codeTTL),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.OneTimeCode{}).
			Where("email = ? AND purpose = ? AND consumed_at IS NULL", email, purpose).
			Update("consumed_at", now).Error; err != nil {
			return err
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		s.logger.Error("store one-time code failed", "email", email, "purpose", purpose, "error", err)
		return err
	}
	return s.sender.SendCode(ctx, email, purpose, code)
}

// VerifyCode consumes the live code and signs the profile in. A wrong guess
// counts against the code, which is burned after maxCodeAttempts failures.
// A signup code also marks the email as verified.
func (s *Service) VerifyCode(ctx context.Context, email, code string, purpose models.CodePurpose) (string, *Session, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if code == "" {
		return "", nil, ErrInvalidCode
	}

	var (
		profile models.Profile
		invalid bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.now()
		var rec models.OneTimeCode
		err := tx.Where("email = ? AND purpose = ? AND consumed_at IS NULL AND expires_at > ?", email, purpose, now).
			Order("created_at DESC").First(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			invalid = true
			return nil
		}
		if err != nil {
			return err
		}

		// Failed attempts are committed, so the error is reported after the transaction.
		if bcrypt.CompareHashAndPassword([]byte(rec.CodeHash), []byte(code)) != nil {
			invalid = true
			updates := map[string]any{"attempts": gorm.Expr("attempts + 1")}
			if rec.Attempts+1 >= maxCodeAttempts {
				updates["consumed_at"] = now
			}
			return tx.Model(&models.OneTimeCode{}).Where("id = ?", rec.ID).Updates(updates).Error
		}

		res := tx.Model(&models.OneTimeCode{}).Where("id = ? AND consumed_at IS NULL", rec.ID).Update("consumed_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			invalid = true
			return nil
		}

		if err := tx.Where("email = ?", email).First(&profile).Error; err != nil {
			return err
		}
		if purpose == models.CodeSignup && profile.EmailVerifiedAt == nil {
			profile.EmailVerifiedAt = &now
			return tx.Model(&profile).Update("email_verified_at", now).Error
		}
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	if invalid {
		return "", nil, ErrInvalidCode
	}
	return s.issue(profile)
}

// UpdatePassword replaces the caller's password.
func (s *Service) UpdatePassword(ctx context.Context, newPassword string) error {
	sess, err := RequireSession(ctx)
	if err != nil {
		return err
	}
	if len(newPassword) < minPasswordLen {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", sess.UserID).
		Update("password_hash", string(hash)).Error
}

// CurrentUser returns the caller's profile.
func (s *Service) CurrentUser(ctx context.Context) (*models.Profile, error) {
	sess, err := RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", sess.UserID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pokeru-app/backend/internal/blocklist"
	"github.com/pokeru-app/backend/internal/events"
	"github.com/pokeru-app/backend/internal/hash"
	"github.com/pokeru-app/backend/internal/logging"
	"github.com/pokeru-app/backend/internal/mail"
	"github.com/pokeru-app/backend/internal/models"
	"github.com/pokeru-app/backend/internal/repo"
	"github.com/pokeru-app/backend/internal/tokens"
	"github.com/pokeru-app/backend/internal/transport"
)

var (
	ErrMissingFields    = errors.New("please fill in all required fields")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrEmailExists      = errors.New("user with email already exists")
	ErrUsernameExists   = errors.New("user with username already exists")
	ErrInvalidEmail     = errors.New("email address is invalid or your college hasn't partnered with us")
	ErrInvalidUsername  = errors.New("invalid username")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrNotVerified      = errors.New("please verify your account through the email we sent you before logging in")
)

const defaultRole = "basic_user"

var emailRegex = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,7}$`)

type AuthService struct {
	Repo      *repo.GormRepo
	Codec     *tokens.Codec
	Safe      *tokens.SafeCodec
	Blocklist *blocklist.Blocklist
	Mailer    mail.Mailer
	Producer  *events.Producer

	Domain     string
	APIVersion string
	JTIExpiry  time.Duration
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	return email[at+1:]
}

// collegeByEmail returns the partner school behind an email domain, or
// "" when the domain is not allow-listed.
func collegeByEmail(email string) string {
	return models.CollegeByDomain[emailDomain(email)]
}

func validPartnerEmail(email string) bool {
	if !emailRegex.MatchString(email) {
		return false
	}
	_, ok := models.CollegeByDomain[emailDomain(email)]
	return ok
}

func (s *AuthService) publish(ctx context.Context, key string, event any) {
	if err := s.Producer.PublishEvent(ctx, key, event); err != nil {
		logging.FromContext(ctx).Error("event publish failed", "error", err)
	}
}

func (s *AuthService) Signup(ctx context.Context, req transport.SignupRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")

	if req.Email == "" || req.Username == "" || req.Password == "" || req.ConfirmPassword == "" {
		return nil, ErrMissingFields
	}

	if exists, err := s.Repo.EmailExists(ctx, req.Email); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrEmailExists
	}

	if exists, err := s.Repo.UsernameExists(ctx, req.Username); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrUsernameExists
	}

	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	if !validPartnerEmail(req.Email) {
		return nil, ErrInvalidEmail
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashed,
		College:        collegeByEmail(req.Email),
		Role:           defaultRole,
		IsVerified:     false,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	l.Info("user created", "username", user.Username, "college", user.College)
	s.publish(ctx, user.UID.String(), map[string]any{
		"type":     "user_registered",
		"user_uid": user.UID.String(),
		"username": user.Username,
	})

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			l.Warn("login failed", "reason", "unknown username")
			return nil, ErrInvalidUsername
		}
		return nil, err
	}

	if !hash.CheckPassword(user.HashedPassword, password) {
		l.Warn("login failed", "reason", "bad password")
		return nil, ErrInvalidPassword
	}

	if !user.IsVerified {
		if err := s.sendVerificationEmail(ctx, user.Email); err != nil {
			return nil, err
		}
		return nil, ErrNotVerified
	}

	snapshot := tokens.UserSnapshot{
		Username: user.Username,
		UserUID:  user.UID.String(),
		Role:     user.Role,
	}

	accessToken, err := s.Codec.Issue(snapshot, 0, false)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.Codec.Issue(snapshot, 0, true)
	if err != nil {
		return nil, err
	}

	l.Info("login successful")
	s.publish(ctx, user.UID.String(), map[string]any{
		"type":     "user_logged_in",
		"user_uid": user.UID.String(),
		"username": user.Username,
	})

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (s *AuthService) sendVerificationEmail(ctx context.Context, email string) error {
	token, err := s.Safe.IssueSafe(email)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("http://%s/api/%s/auth/verify/%s", s.Domain, s.APIVersion, token)
	html := fmt.Sprintf(`
		<h1>Verify Your Email</h1>
		<p>Please click <a href='%s'>this link</a> to verify your email</p>
	`, link)

	subject := "Thanks for Joining PokerU! Verify Your Email Here!"
	return s.Mailer.Send(ctx, []string{email}, subject, html)
}

// Logout revokes the access token's jti. The TTL is configured to
// outlive the longest token lifetime so the marker never expires before
// the token would have.
func (s *AuthService) Logout(ctx context.Context, jti string) error {
	return s.Blocklist.Revoke(ctx, jti, s.JTIExpiry)
}

func (s *AuthService) VerifyAccount(ctx context.Context, token string) error {
	email, err := s.Safe.DecodeSafe(token)
	if err != nil {
		return err
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	user.IsVerified = true
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return err
	}

	logging.FromContext(ctx).Info("account verified", "username", user.Username)
	return nil
}

// RequestPasswordReset sends a reset link without checking whether the
// address is registered; the response never reveals account existence.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	token, err := s.Safe.IssueSafe(email)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("http://%s/api/%s/auth/password-reset-confirm/%s", s.Domain, s.APIVersion, token)
	html := fmt.Sprintf(`
		<h1>Reset Your Password</h1>
		<p>Please click <a href='%s'>this link</a> to reset your password</p>
	`, link)

	return s.Mailer.Send(ctx, []string{email}, "Reset Your Password", html)
}

func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword, confirmPassword string) error {
	if newPassword == "" || confirmPassword == "" {
		return ErrMissingFields
	}
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	email, err := s.Safe.DecodeSafe(token)
	if err != nil {
		return err
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	hashed, err := hash.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.HashedPassword = hashed
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return err
	}

	logging.FromContext(ctx).Info("password reset", "username", user.Username)
	return nil
}

// Refresh issues a new access token carrying the refresh token's
// identity snapshot. The expiry re-check duplicates decode-time
// validation and is kept as defense in depth.
func (s *AuthService) Refresh(ctx context.Context, claims *tokens.BearerClaims) (string, error) {
	if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.After(time.Now()) {
		return "", tokens.ErrInvalidToken
	}
	return s.Codec.Issue(claims.User, 0, false)
}

func (s *AuthService) UpdateProfile(ctx context.Context, user *models.User, username string) (*models.User, error) {
	if username == "" {
		return nil, ErrMissingFields
	}

	if exists, err := s.Repo.UsernameExists(ctx, username); err != nil {
		return nil, err
	} else if exists && username != user.Username {
		return nil, ErrUsernameExists
	}

	user.Username = username
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) DeleteAccount(ctx context.Context, user *models.User) error {
	if err := s.Repo.DeleteUser(ctx, user); err != nil {
		return err
	}

	logging.FromContext(ctx).Info("account deleted", "username", user.Username)
	s.publish(ctx, user.UID.String(), map[string]any{
		"type":     "user_deleted",
		"user_uid": user.UID.String(),
		"username": user.Username,
	})
	return nil
}

func (s *AuthService) SendMail(ctx context.Context, addresses []string) error {
	if len(addresses) == 0 {
		return ErrMissingFields
	}
	return s.Mailer.Send(ctx, addresses, "Welcome to PokerU", "<h1>Welcome to PokerU</h1>")
}

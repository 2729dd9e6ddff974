package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Jexxer/warframe-checklist/internal/auth/domain"
	"github.com/Jexxer/warframe-checklist/internal/auth/revocation"
	"github.com/Jexxer/warframe-checklist/internal/auth/store"
	"github.com/Jexxer/warframe-checklist/pkg/authsdk"
	"github.com/Jexxer/warframe-checklist/pkg/cryptox"
	"github.com/Jexxer/warframe-checklist/pkg/jwtx"
	"github.com/Jexxer/warframe-checklist/pkg/slogx"
)

// TxRunner is anything that can run a transaction: the Store itself or a
// request scoped Conn.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx store.Tx) error) error
}

// Session is what a successful login or registration hands back.
type Session struct {
	User  domain.User
	Token *jwtx.Token // nil when registration does not sign the user in
}

type AuthService struct {
	Hasher      *cryptox.Hasher
	Codec       *jwtx.Codec
	Revocations revocation.List
	SessionTTL  time.Duration

	// RegisterIssuesToken signs freshly registered (still inactive) users
	// in straight away.
	RegisterIssuesToken bool

	validate  *validator.Validate
	dummyHash string
}

// NewAuthService wires the service. A zero sessionTTL means
// jwtx.DefaultSessionTTL.
func NewAuthService(
	hasher *cryptox.Hasher,
	codec *jwtx.Codec,
	revocations revocation.List,
	sessionTTL time.Duration,
	registerIssuesToken bool,
) (*AuthService, error) {
	if sessionTTL <= 0 {
		sessionTTL = jwtx.DefaultSessionTTL
	}
	if revocations == nil {
		revocations = revocation.Noop{}
	}

	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("service: prepare dummy hash: %w", err)
	}

	return &AuthService{
		Hasher:              hasher,
		Codec:               codec,
		Revocations:         revocations,
		SessionTTL:          sessionTTL,
		RegisterIssuesToken: registerIssuesToken,
		validate:            validator.New(validator.WithRequiredStructEnabled()),
		dummyHash:           dummy,
	}, nil
}

// Login checks username and password against users and issues a session
// token. Unknown users and wrong passwords are indistinguishable.
func (s *AuthService) Login(ctx context.Context, users store.Users, username, password string) (Session, error) {
	l := slogx.FromContext(ctx)
	username = domain.NormalizeUsername(username)

	user, err := users.GetUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return Session{}, err
		}
		// Burn the same hashing work as a real check.
		_ = s.Hasher.Verify(password, s.dummyHash)
		l.Info("login failed", slog.String("reason", "unknown user"))
		return Session{}, ErrInvalidCredentials
	}

	if !s.Hasher.Verify(password, user.PasswordHash) {
		l.Info("login failed", slog.String("reason", "password mismatch"), slog.Int64("user_id", user.ID))
		return Session{}, ErrInvalidCredentials
	}

	tok, err := s.issue(user)
	if err != nil {
		return Session{}, err
	}

	l.Info("login succeeded", slog.Int64("user_id", user.ID))
	return Session{User: user, Token: &tok}, nil
}

// Register validates req, creates an inactive account and, if configured,
// signs it in. The username is checked before the email, both inside one
// transaction, and an insert race is reported the same way.
func (s *AuthService) Register(ctx context.Context, db TxRunner, req authsdk.RegisterRequest) (Session, error) {
	l := slogx.FromContext(ctx)

	req.Username = domain.NormalizeUsername(req.Username)
	req.Email = domain.NormalizeEmail(req.Email)
	if err := s.validateRegister(req); err != nil {
		return Session{}, err
	}

	hash, err := s.Hasher.Hash(req.Password)
	if err != nil {
		return Session{}, fmt.Errorf("service: hash password: %w", err)
	}

	var user domain.User
	err = db.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByUsername(ctx, req.Username); err == nil {
			return ErrUserAlreadyExists
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if _, err := tx.Users().GetUserByEmail(ctx, req.Email); err == nil {
			return ErrEmailAlreadyExists
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		created, err := tx.Users().CreateUser(ctx, domain.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			Active:       false,
		})
		if err != nil {
			return mapDuplicate(err)
		}
		user = created
		return nil
	})
	if err != nil {
		return Session{}, err
	}

	l.Info("user registered", slog.Int64("user_id", user.ID))

	if !s.RegisterIssuesToken {
		return Session{User: user}, nil
	}

	tok, err := s.issue(user)
	if err != nil {
		return Session{}, err
	}
	return Session{User: user, Token: &tok}, nil
}

// Logout revokes the token described by claims until it expires.
func (s *AuthService) Logout(ctx context.Context, claims jwtx.Claims) error {
	remaining := claims.Remaining(time.Now())
	if claims.ID == "" || remaining == 0 {
		return nil
	}
	if err := s.Revocations.Revoke(ctx, claims.ID, remaining); err != nil {
		return fmt.Errorf("service: revoke session: %w", err)
	}
	return nil
}

func (s *AuthService) issue(user domain.User) (jwtx.Token, error) {
	tok, err := s.Codec.Issue(user.Username, s.SessionTTL)
	if err != nil {
		return jwtx.Token{}, fmt.Errorf("service: issue token: %w", err)
	}
	return tok, nil
}

func (s *AuthService) validateRegister(req authsdk.RegisterRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[jsonFieldName(fe.Field())] = describeTag(fe.Tag())
	}
	return &ValidationError{Fields: fields}
}

func mapDuplicate(err error) error {
	switch {
	case errors.Is(err, store.ErrDuplicateUsername):
		return ErrUserAlreadyExists
	case errors.Is(err, store.ErrDuplicateEmail):
		return ErrEmailAlreadyExists
	default:
		return err
	}
}

func jsonFieldName(field string) string {
	switch field {
	case "Username":
		return "username"
	case "Email":
		return "email"
	case "Password":
		return "password"
	default:
		return field
	}
}

func describeTag(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return "is too long"
	case "min":
		return "is too short"
	default:
		return "is invalid"
	}
}

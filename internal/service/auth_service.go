package service

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/chatapp-auth/internal/metrics"
	"github.com/iliyamo/chatapp-auth/internal/model"
	"github.com/iliyamo/chatapp-auth/internal/queue"
	"github.com/iliyamo/chatapp-auth/internal/repository"
	"github.com/iliyamo/chatapp-auth/internal/utils"
)

// AuthService implements registration, login and request authentication
// over a UserDirectory.  All fields except Users and Tokens are optional.
type AuthService struct {
	Users   repository.UserDirectory
	Hasher  utils.Hasher
	Tokens  *utils.TokenIssuer
	Events  queue.Publisher
	Log     logrus.FieldLogger
	Metrics *metrics.Metrics
}

// RegisterInput is the plain registration payload.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput is the plain login payload.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string            `json:"token"`
	User  model.UserSummary `json:"user"`
}

// NewAuthService fills in defaults for the optional collaborators.
func NewAuthService(users repository.UserDirectory, hasher utils.Hasher, tokens *utils.TokenIssuer, events queue.Publisher, log logrus.FieldLogger, m *metrics.Metrics) *AuthService {
	if hasher.Cost == 0 {
		hasher = utils.NewHasher(utils.DefaultBcryptCost)
	}
	if events == nil {
		events = queue.NopPublisher{}
	}
	if log == nil {
		l := logrus.New()
		l.Out = io.Discard
		log = l
	}
	return &AuthService{Users: users, Hasher: hasher, Tokens: tokens, Events: events, Log: log, Metrics: m}
}

// Register hashes the password and stores a new user with role user.
// Every failure is reported as ErrCreateUser; the cause is only logged.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (model.UserSummary, error) {
	log := s.Log.WithField("flow", "register")

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		log.WithError(err).Error("hash password")
		s.outcome("register", ErrCreateUser)
		return model.UserSummary{}, ErrCreateUser
	}

	u, err := s.Users.Create(ctx, &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		IsActive:     true,
	})
	if err != nil {
		entry := log.WithError(err)
		if errors.Is(err, repository.ErrDuplicate) || errors.Is(err, repository.ErrValidation) {
			entry.Info("registration rejected")
		} else {
			entry.Error("create user")
		}
		s.outcome("register", ErrCreateUser)
		return model.UserSummary{}, ErrCreateUser
	}

	s.publish(ctx, queue.NewAuthEvent(queue.EventUserRegistered, u.ID, u.Username))
	s.outcome("register", nil)
	log.WithField("user_id", u.ID).Info("user registered")
	return u.Summary(), nil
}

// Login checks credentials and issues an access token.  Unknown email and
// wrong password produce the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	log := s.Log.WithField("flow", "login")

	if !s.Tokens.Configured() {
		log.Error("JWT secret is not configured")
		s.outcome("login", ErrMisconfigured)
		return LoginResult{}, ErrMisconfigured
	}

	u, err := s.Users.GetByEmail(ctx, repository.NormalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.outcome("login", ErrInvalidCredentials)
			return LoginResult{}, ErrInvalidCredentials
		}
		log.WithError(err).Error("lookup user by email")
		s.outcome("login", ErrLoginFailed)
		return LoginResult{}, ErrLoginFailed
	}

	if !s.Hasher.Verify(u.PasswordHash, in.Password) {
		s.outcome("login", ErrInvalidCredentials)
		return LoginResult{}, ErrInvalidCredentials
	}

	tok, err := s.Tokens.Issue(u.ID)
	if err != nil {
		log.WithError(err).Error("issue token")
		s.outcome("login", ErrLoginFailed)
		return LoginResult{}, ErrLoginFailed
	}

	s.publish(ctx, queue.NewAuthEvent(queue.EventUserLoggedIn, u.ID, u.Username))
	s.outcome("login", nil)
	return LoginResult{Token: tok.Token, User: u.Summary()}, nil
}

// Authenticate resolves the user behind an Authorization header value.
func (s *AuthService) Authenticate(ctx context.Context, authorization string) (*model.User, error) {
	raw, ok := utils.ExtractBearer(authorization)
	if !ok {
		s.outcome("authenticate", ErrNotLoggedIn)
		return nil, ErrNotLoggedIn
	}
	payload, err := s.Tokens.Verify(raw)
	if err != nil {
		s.outcome("authenticate", ErrInvalidToken)
		return nil, ErrInvalidToken
	}
	u, err := s.Users.GetByID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.outcome("authenticate", ErrUserGone)
			return nil, ErrUserGone
		}
		s.Log.WithError(err).WithField("user_id", payload.UserID).Error("auth middleware lookup")
		s.outcome("authenticate", ErrAuthenticateFailed)
		return nil, ErrAuthenticateFailed
	}
	s.outcome("authenticate", nil)
	return u, nil
}

// Authorize allows u through when its role is in allowed.
func (s *AuthService) Authorize(u *model.User, allowed model.RoleSet) error {
	if u == nil || !allowed.Has(u.Role) {
		s.outcome("authorize", ErrForbidden)
		return ErrForbidden
	}
	s.outcome("authorize", nil)
	return nil
}

// GetUser loads a user by id for the admin lookup.
func (s *AuthService) GetUser(ctx context.Context, id string) (*model.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.Log.WithError(err).WithField("user_id", id).Error("lookup user by id")
		return nil, err
	}
	return u, nil
}

func (s *AuthService) publish(ctx context.Context, ev queue.AuthEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, ev); err != nil {
		s.Log.WithError(err).WithField("event", ev.Type).Warn("publish auth event")
	}
}

func (s *AuthService) outcome(flow string, err error) {
	if err == nil {
		s.Metrics.AuthOutcome(flow, "ok")
		return
	}
	s.Metrics.AuthOutcome(flow, KindOf(err).String())
}

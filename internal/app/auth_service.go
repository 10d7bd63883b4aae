package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/example/kandy/internal/ctxutil"
	"github.com/example/kandy/internal/errs"
	"github.com/example/kandy/internal/models"
	"github.com/example/kandy/internal/ports/primary"
	"github.com/example/kandy/internal/ports/secondary"
)

// AuthServiceImpl implements the AuthService interface.
type AuthServiceImpl struct {
	userRepo  secondary.UserRepository
	hasher    secondary.PasswordHasher
	tokens    secondary.TokenIssuer
	logWriter secondary.LogWriter
	now       func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService with injected dependencies.
func NewAuthService(userRepo secondary.UserRepository, hasher secondary.PasswordHasher, tokens secondary.TokenIssuer, logWriter secondary.LogWriter) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo:  userRepo,
		hasher:    hasher,
		tokens:    tokens,
		logWriter: logWriter,
		now:       time.Now,
	}
}

var errBadCredentials = errs.Unauthenticated("invalid email or password")

// unknownUserHash is a throwaway hash in the hasher's own format, compared against when the email is unknown.
func (s *AuthServiceImpl) unknownUserHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("kandy-unknown-user")
	})
	return s.dummyHash
}

// Login exchanges credentials for a bearer token.
func (s *AuthServiceImpl) Login(ctx context.Context, req primary.LoginRequest) (*primary.LoginResponse, error) {
	email := strings.TrimSpace(req.Email)

	fields := map[string]string{}
	if email == "" {
		fields["email"] = "email is required"
	}
	if req.Password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) > 0 {
		return nil, errs.Validation("invalid credentials", fields)
	}

	record, err := s.userRepo.GetByEmail(ctx, email)
	if errs.Is(err, errs.KindNotFound) {
		// Unknown and known emails cost the same hash compare.
		_ = s.hasher.Compare(s.unknownUserHash(), req.Password)
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := s.hasher.Compare(record.PasswordHash, req.Password); err != nil {
		return nil, errBadCredentials
	}
	if record.Status != string(models.UserStatusActive) {
		return nil, errs.Unauthenticated("account is inactive")
	}

	resp, err := s.issue(record)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.userRepo.RecordLogin(ctx, record.ID, now); err == nil {
		resp.User.LastLoginAt = &now
	}
	_ = s.logWriter.LogLogin(ctx, record.ID)

	return resp, nil
}

// Authenticate resolves a bearer token to a session. The role comes from the
// stored account so role changes and deactivation apply immediately.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, token string) (ctxutil.Session, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return ctxutil.Session{}, err
	}

	record, err := s.userRepo.GetByID(ctx, claims.UserID)
	if errs.Is(err, errs.KindNotFound) {
		return ctxutil.Session{}, errs.Unauthenticated("account no longer exists")
	}
	if err != nil {
		return ctxutil.Session{}, err
	}

	return sessionFor(record)
}

// SessionFor returns the session of the active account with the given email.
func (s *AuthServiceImpl) SessionFor(ctx context.Context, email string) (ctxutil.Session, error) {
	record, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return ctxutil.Session{}, err
	}
	return sessionFor(record)
}

// IssueToken signs a token for the active account with the given email.
func (s *AuthServiceImpl) IssueToken(ctx context.Context, email string) (*primary.LoginResponse, error) {
	record, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if _, err := sessionFor(record); err != nil {
		return nil, err
	}
	return s.issue(record)
}

func (s *AuthServiceImpl) issue(record *secondary.UserRecord) (*primary.LoginResponse, error) {
	token, expiresAt, err := s.tokens.Issue(record.ID, record.Role)
	if err != nil {
		return nil, err
	}
	return &primary.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      recordToUser(record),
	}, nil
}

func sessionFor(record *secondary.UserRecord) (ctxutil.Session, error) {
	if record.Status != string(models.UserStatusActive) {
		return ctxutil.Session{}, errs.Unauthenticated("account is inactive")
	}
	role := models.Role(record.Role)
	if !role.Valid() {
		return ctxutil.Session{}, errs.Unauthenticated("account has an unknown role")
	}
	return ctxutil.Session{UserID: record.ID, Role: role}, nil
}

// Ensure AuthServiceImpl implements the interface
var _ primary.AuthService = (*AuthServiceImpl)(nil)

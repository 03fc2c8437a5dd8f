package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/zohair-aabidi/ajenda/internal/auth"
	"github.com/zohair-aabidi/ajenda/internal/models"
	"github.com/zohair-aabidi/ajenda/internal/repository"
)

// TokenType is the scheme clients must use when presenting an issued token.
const TokenType = "Bearer"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many failed signin attempts")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmailTaken         = errors.New("email is already in use")
)

// SigninRequest represents the signin request payload.
type SigninRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SigninResponse carries the bearer token and the identity it was issued for.
type SigninResponse struct {
	Token    string   `json:"token"`
	Type     string   `json:"type"`
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// SignupRequest represents the signup request payload. Roles are optional.
type SignupRequest struct {
	Username string   `json:"username" binding:"required,min=3,max=20"`
	Email    string   `json:"email" binding:"required,email,max=50"`
	Password string   `json:"password" binding:"required,min=6,max=40"`
	Roles    []string `json:"roles" binding:"omitempty,dive,required,max=40"`
}

// AuthService defines the signin and signup operations.
type AuthService interface {
	Signin(ctx context.Context, req SigninRequest) (*SigninResponse, error)
	Signup(ctx context.Context, req SignupRequest) error
}

type authService struct {
	userRepo repository.UserRepository
	verifier CredentialVerifier
	tokens   TokenService
	hasher   PasswordHasher
	throttle LoginThrottle
	log      logrus.FieldLogger
}

// NewAuthService creates a new AuthService instance. A nil throttle disables
// signin throttling.
func NewAuthService(
	userRepo repository.UserRepository,
	verifier CredentialVerifier,
	tokens TokenService,
	hasher PasswordHasher,
	throttle LoginThrottle,
	log logrus.FieldLogger,
) AuthService {
	if throttle == nil {
		throttle = NewNoopLoginThrottle()
	}
	return &authService{
		userRepo: userRepo,
		verifier: verifier,
		tokens:   tokens,
		hasher:   hasher,
		throttle: throttle,
		log:      log,
	}
}

func (s *authService) Signin(ctx context.Context, req SigninRequest) (*SigninResponse, error) {
	if !s.throttle.Allow(ctx, req.Username) {
		return nil, ErrTooManyAttempts
	}

	principal, err := s.verifier.Verify(ctx, req.Username, req.Password)
	if errors.Is(err, ErrUnknownUser) || errors.Is(err, ErrBadPassword) {
		s.throttle.RecordFailure(ctx, req.Username)
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	if err != nil {
		return nil, err
	}
	s.throttle.Reset(ctx, req.Username)

	token, err := s.tokens.Issue(*principal)
	if err != nil {
		return nil, err
	}

	s.log.WithField("user_id", principal.ID).Info("user signed in")

	return &SigninResponse{
		Token:    token,
		Type:     TokenType,
		ID:       principal.ID,
		Username: principal.Username,
		Email:    principal.Email,
		Roles:    principal.Roles,
	}, nil
}

func (s *authService) Signup(ctx context.Context, req SignupRequest) error {
	taken, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return err
	}
	if taken {
		return ErrUsernameTaken
	}

	taken, err = s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return err
	}

	roleNames := auth.RolesOrDefault(req.Roles)
	roles := make([]models.Role, 0, len(roleNames))
	for _, name := range roleNames {
		roles = append(roles, models.Role{Name: name})
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Roles:        roles,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent signup may have claimed the name between the check and the insert.
		if exists, _ := s.userRepo.ExistsByUsername(ctx, req.Username); exists {
			return ErrUsernameTaken
		}
		if exists, _ := s.userRepo.ExistsByEmail(ctx, req.Email); exists {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to register user: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "roles": roleNames}).Info("user registered")
	return nil
}

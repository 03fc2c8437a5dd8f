package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/zohair-aabidi/ajenda/internal/auth"
	"github.com/zohair-aabidi/ajenda/internal/models"
	"github.com/zohair-aabidi/ajenda/internal/repository"
)

// ErrPrincipalNotFound is returned when a token subject no longer has a user record.
var ErrPrincipalNotFound = errors.New("principal not found")

// IdentityResolver turns a verified token subject into a Principal.
type IdentityResolver interface {
	Resolve(ctx context.Context, subject string) (*auth.Principal, error)
}

type identityResolver struct {
	store CredentialStore
}

// NewIdentityResolver creates an IdentityResolver backed by the credential store.
func NewIdentityResolver(store CredentialStore) IdentityResolver {
	return &identityResolver{store: store}
}

func (r *identityResolver) Resolve(ctx context.Context, subject string) (*auth.Principal, error) {
	user, err := r.store.FindByUsername(ctx, subject)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPrincipalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve principal: %w", err)
	}
	return principalFromUser(user), nil
}

func principalFromUser(u *models.User) *auth.Principal {
	return auth.NewPrincipal(u.ID, u.Username, u.Email, u.RoleNames())
}

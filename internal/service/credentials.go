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

var (
	ErrUnknownUser = errors.New("unknown user")
	ErrBadPassword = errors.New("bad password")
)

// CredentialStore is the read side of the user store needed to check credentials.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// CredentialVerifier checks a username and password pair against stored credentials.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (*auth.Principal, error)
}

type credentialVerifier struct {
	store     CredentialStore
	hasher    PasswordHasher
	dummyHash string
	log       logrus.FieldLogger
}

// NewCredentialVerifier creates a CredentialVerifier. It hashes a throwaway
// password with the hasher's cost so unknown usernames cost a full compare.
func NewCredentialVerifier(store CredentialStore, hasher PasswordHasher, log logrus.FieldLogger) (CredentialVerifier, error) {
	dummy, err := hasher.Hash("ajenda-dummy-password")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	return &credentialVerifier{
		store:     store,
		hasher:    hasher,
		dummyHash: dummy,
		log:       log,
	}, nil
}

func (v *credentialVerifier) Verify(ctx context.Context, username, password string) (*auth.Principal, error) {
	user, err := v.store.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		_ = v.hasher.Compare(v.dummyHash, password)
		v.log.WithField("username", username).Debug("signin rejected: unknown user")
		return nil, ErrUnknownUser
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	if err := v.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, ErrPasswordMismatch) {
			v.log.WithField("username", username).Debug("signin rejected: bad password")
			return nil, ErrBadPassword
		}
		return nil, err
	}

	return principalFromUser(user), nil
}

package services

import (
	"context"

	"github.com/rings-s/anha/internal/common"
	"github.com/rings-s/anha/internal/models"
	"github.com/rings-s/anha/internal/repositories"
)

// IdentityService turns an opaque access token into an authenticated
// identity. Verification is stateless: the token carries its own claims
// and the user row supplies role and active status.
type IdentityService interface {
	// Resolve fails with ErrInvalidCredential on a bad token, an unknown
	// subject, or an inactive account.
	Resolve(ctx context.Context, token string) (*models.Identity, error)
	// ResolveOptional returns nil instead of failing; used where pages
	// render differently for anonymous visitors.
	ResolveOptional(ctx context.Context, token string) *models.Identity
}

type identityService struct {
	creds    CredentialService
	userRepo repositories.UserRepository
}

func NewIdentityService(creds CredentialService, userRepo repositories.UserRepository) IdentityService {
	return &identityService{creds: creds, userRepo: userRepo}
}

func (s *identityService) Resolve(ctx context.Context, token string) (*models.Identity, error) {
	subject, err := s.creds.ParseAccessToken(token)
	if err != nil {
		return nil, common.ErrInvalidCredential
	}

	user, err := s.userRepo.GetByEmail(ctx, subject)
	if err != nil {
		return nil, err
	}
	// An inactive account is indistinguishable from a missing one.
	if user == nil || !user.IsActive {
		return nil, common.ErrInvalidCredential
	}

	return &models.Identity{ID: user.ID, Email: user.Email, Role: user.Role}, nil
}

func (s *identityService) ResolveOptional(ctx context.Context, token string) *models.Identity {
	if token == "" {
		return nil
	}
	identity, err := s.Resolve(ctx, token)
	if err != nil {
		return nil
	}
	return identity
}

package common

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rings-s/anha/internal/models"
)

type contextKey string

const IdentityKey contextKey = "identity"

// WithIdentity attaches the authenticated identity to the request context.
func WithIdentity(ctx context.Context, id *models.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// GetIdentityFromContext extracts the authenticated identity from the
// request context.
func GetIdentityFromContext(ctx context.Context) (*models.Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(*models.Identity)
	if !ok || id == nil {
		return nil, false
	}
	return id, true
}

// ValidateUUID validates a path or form UUID parameter.
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", ErrInvalidInput, fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s is not a valid UUID", ErrInvalidInput, fieldName)
	}
	return id, nil
}

// ValidateRequiredString validates required string fields
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, fieldName)
	}
	return nil
}

// ValidatePaginationParams clamps pagination parameters to sane bounds.
func ValidatePaginationParams(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

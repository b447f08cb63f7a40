package auth

import (
	"context"
	"fmt"

	"github.com/bizops-hq/bizops-backend-go/internal/domain/profile"
	"github.com/go-chi/jwtauth/v5"
)

// Claims are the access token claims the services rely on.
type Claims struct {
	UserID string
	Email  string
	Role   profile.Role
}

func (c Claims) IsAdmin() bool {
	return c.Role == profile.RoleAdmin
}

// ClaimsFromContext extracts the verified access token claims placed in ctx by jwtauth.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, fmt.Errorf("failed to extract claims from context: %w", ErrInvalidToken)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Claims{}, fmt.Errorf("user_id claim is missing or invalid: %w", ErrMissingClaims)
	}

	role, ok := claims["role"].(string)
	if !ok || !profile.Role(role).IsValid() {
		return Claims{}, fmt.Errorf("role claim is missing or invalid: %w", ErrMissingClaims)
	}

	email, _ := claims["email"].(string)

	return Claims{UserID: userID, Email: email, Role: profile.Role(role)}, nil
}

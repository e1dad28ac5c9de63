package jwt

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

var ErrMissingClaims = errors.New("missing or invalid token claims")

// Claims are the identity claims of a verified access token
type Claims struct {
	UserID string
	Email  string
	Role   user.Role
}

func (c Claims) IsAdmin() bool {
	return c.Role == user.RoleAdmin
}

// ClaimsFromContext reads the claims put on ctx by jwtauth.Verifier
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, err
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Claims{}, ErrMissingClaims
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return Claims{UserID: userID, Email: email, Role: user.Role(role)}, nil
}

// ContextWithClaims builds a verified-token context, as jwtauth.Verifier would.
func ContextWithClaims(ctx context.Context, auth *jwtauth.JWTAuth, token string) (context.Context, error) {
	t, err := jwtauth.VerifyToken(auth, token)
	if err != nil {
		return ctx, err
	}
	return jwtauth.NewContext(ctx, t, nil), nil
}

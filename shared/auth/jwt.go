package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errMissingSubject = errors.New("token missing subject claim")

// jwtVerifier validates HS256 tokens signed with a shared secret.
type jwtVerifier struct {
	secret []byte
	issuer string
}

func newJWTVerifier(cfg Config) (Verifier, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	return &jwtVerifier{secret: []byte(cfg.Secret), issuer: cfg.Issuer}, nil
}

func (v *jwtVerifier) Verify(_ context.Context, token string) (AuthenticatedUser, error) {
	options := []jwt.ParserOption{
		jwt.WithLeeway(5 * time.Second),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if v.issuer != "" {
		options = append(options, jwt.WithIssuer(v.issuer))
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, options...); err != nil {
		return AuthenticatedUser{}, fmt.Errorf("token verification failed: %w", err)
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return AuthenticatedUser{}, errMissingSubject
	}

	var expiresAt int64
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Unix()
	}

	return AuthenticatedUser{
		UserID:    subject,
		ExpiresAt: expiresAt,
		Token:     token,
	}, nil
}

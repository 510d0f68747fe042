// Package security verifies the platform-issued access tokens. Signing
// lives in the authentication service; this side only parses and checks.
package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	SubjectID string
	Role      string
}

// JWTVerifier validates HS256 access tokens against the shared platform
// secret and extracts the subject and role claims.
type JWTVerifier struct {
	secret []byte
	issuer string
}

func NewJWTVerifier(secret, issuer string) (*JWTVerifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt verifier requires a secret")
	}
	return &JWTVerifier{secret: []byte(secret), issuer: issuer}, nil
}

func (v *JWTVerifier) Verify(tokenString string) (Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Claims{}, errors.New("invalid token claims")
	}
	if v.issuer != "" {
		issuer, _ := claims.GetIssuer()
		if issuer != v.issuer {
			return Claims{}, fmt.Errorf("unexpected issuer %q", issuer)
		}
	}
	if exp, expErr := claims.GetExpirationTime(); expErr == nil && exp != nil && exp.Before(time.Now()) {
		return Claims{}, errors.New("token expired")
	}
	subject, _ := claims.GetSubject()
	if strings.TrimSpace(subject) == "" {
		return Claims{}, errors.New("token missing subject")
	}
	role := ""
	if raw, ok := claims["role"].(string); ok {
		role = strings.ToLower(strings.TrimSpace(raw))
	}
	if role == "" {
		role = "user"
	}
	return Claims{SubjectID: subject, Role: role}, nil
}

package devbackend

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type tokenKind string

const (
	tokenSession tokenKind = "session"
	tokenSetup   tokenKind = "setup"
	tokenDevice  tokenKind = "device"
)

type TokenClaims struct {
	Kind tokenKind `json:"kind"`
	jwt.RegisteredClaims
}

type tokenIssuer struct {
	signingKey []byte
	issuer     string
	now        func() time.Time
}

func (t *tokenIssuer) issue(kind tokenKind, email string, expiresIn time.Duration) (string, error) {
	now := t.now()
	claims := TokenClaims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    t.issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.signingKey)
}

// parse verifies tokenStr and returns the email it was issued for.
func (t *tokenIssuer) parse(kind tokenKind, tokenStr string) (string, error) {
	var claims TokenClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		return t.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return "", ErrTokenInvalid
	}
	if claims.Kind != kind || claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}

package auth

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// TokenCodec signs and verifies the session cookie value. The cookie never
// carries state beyond the session id; everything else lives in the
// sessions table so the server can revoke a login.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwtlib.RegisteredClaims
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

func (c *TokenCodec) Encode(sessionID string) (string, error) {
	claims := sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(c.ttl)),
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

func (c *TokenCodec) Decode(tokenStr string) (string, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &sessionClaims{}, func(t *jwtlib.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidSession
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || claims.SessionID == "" {
		return "", ErrInvalidSession
	}

	return claims.SessionID, nil
}

package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type standardClaims[T any] struct {
	jwt.RegisteredClaims
	Object T `json:"obj,omitempty"`
}

type Engine[T any] struct {
	Expiration time.Duration

	secret string
}

func NewEngine[T any](secret string, expiration time.Duration) *Engine[T] {
	return &Engine[T]{
		secret:     secret,
		Expiration: expiration,
	}
}

func (e *Engine[T]) Generate(sub string, obj T) (string, error) {
	now := time.Now()
	claims := standardClaims[T]{
		Object: obj,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(e.Expiration)),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "boxmaster",
			NotBefore: jwt.NewNumericDate(now),
			Subject:   sub,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(e.secret))
}

func (e *Engine[T]) Verify(token string) (T, error) {
	return NewVerifier[T](e.secret).Verify(token)
}

type Verifier[T any] struct {
	secret string
}

func NewVerifier[T any](secret string) *Verifier[T] {
	return &Verifier[T]{
		secret: secret,
	}
}

func (e *Verifier[T]) Verify(token string) (T, error) {
	var claims standardClaims[T]
	_, err := jwt.ParseWithClaims(
		token, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(e.secret), nil
		},
	)

	return claims.Object, err
}

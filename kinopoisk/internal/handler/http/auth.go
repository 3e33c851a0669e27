package http

import (
	"context"
	"errors"
	"fmt"
	"mediatracker/kinopoisk/pkg/model"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SecretProvider defines a provider of the token signing secret.
type SecretProvider func() []byte

var errUnauthenticated = errors.New("unauthenticated")

type userKey struct{}

type claims struct {
	jwt.RegisteredClaims
	PreferredUsername string `json:"preferred_username"`
	Name              string `json:"name"`
}

// userFromRequest validates the bearer token of the request and returns
// the user it was issued to.
func userFromRequest(req *http.Request, secret SecretProvider) (model.User, error) {
	header := req.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return model.User{}, fmt.Errorf("%w: missing bearer token", errUnauthenticated)
	}
	var c claims
	token, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return model.User{}, fmt.Errorf("%w: invalid token: %v", errUnauthenticated, err)
	}
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return model.User{}, fmt.Errorf("%w: subject is not a user id", errUnauthenticated)
	}
	name := c.PreferredUsername
	if name == "" {
		name = c.Name
	}
	if name == "" {
		name = c.Subject
	}
	return model.User{ID: id, Name: name}, nil
}

func withUser(ctx context.Context, u model.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

func userFromContext(ctx context.Context) (model.User, bool) {
	u, ok := ctx.Value(userKey{}).(model.User)
	return u, ok
}

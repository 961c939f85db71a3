package httpinterface

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/tdex-network/nft-marketplace/internal/core/domain"
)

const callerHeader = "X-Caller-Address"

var errUnauthorized = errors.New("unauthorized")

// authenticator identifies the caller of a request, from the subject of the
// bearer token or, if auth is disabled, from the X-Caller-Address header.
type authenticator struct {
	secret []byte
	noAuth bool
}

func newAuthenticator(secret string, noAuth bool) *authenticator {
	return &authenticator{[]byte(secret), noAuth}
}

func (a *authenticator) caller(r *http.Request) (domain.Address, error) {
	if a.noAuth {
		addr, err := domain.ParseAddress(r.Header.Get(callerHeader))
		if err != nil {
			return domain.Address{}, fmt.Errorf(
				"%w: missing or invalid %s header", errUnauthorized, callerHeader,
			)
		}
		return addr, nil
	}

	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return domain.Address{}, fmt.Errorf("%w: missing bearer token", errUnauthorized)
	}

	claims := &jwt.StandardClaims{}
	if _, err := jwt.ParseWithClaims(
		strings.TrimPrefix(auth, "Bearer "), claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return a.secret, nil
		},
	); err != nil {
		return domain.Address{}, fmt.Errorf("%w: %s", errUnauthorized, err)
	}

	addr, err := domain.ParseAddress(claims.Subject)
	if err != nil {
		return domain.Address{}, fmt.Errorf("%w: invalid token subject", errUnauthorized)
	}
	return addr, nil
}

// NewAuthToken returns a HS256 bearer token identifying the given caller.
// A zero ttl makes the token never expire.
func NewAuthToken(secret string, caller domain.Address, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.StandardClaims{
		Subject:  caller.String(),
		IssuedAt: now.Unix(),
	}
	if ttl > 0 {
		claims.ExpiresAt = now.Add(ttl).Unix()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

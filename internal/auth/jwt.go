package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by a session token. The user id rides in the registered
// subject claim rather than a custom field.
type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() string { return c.Subject }

// TokenService issues and verifies HS256 session tokens. Tokens are not
// revocable; they simply expire after Duration.
type TokenService struct {
	Secret   []byte
	Issuer   string
	Duration time.Duration
}

var errInvalidToken = errors.New("invalid session token")

// Issue signs a session token for the user and returns it with its expiry.
func (ts TokenService) Issue(u *User) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ts.Duration)

	claims := &Claims{
		Username: u.Username,
		Email:    u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.Issuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue token: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies signature, expiry and issuer. The parser options carry the
// checks, so a token signed with another method or minted by another issuer
// never reaches the claims.
func (ts TokenService) Parse(raw string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return ts.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(ts.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errInvalidToken
	}
	return &claims, nil
}

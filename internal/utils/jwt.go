package utils // package utils provides helpers for session token creation and verification

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionToken represents a signed HS256 JWT bound to a user id, carried
// in the session cookie (or an Authorization header for API clients).
// The Token field contains the serialized JWT; Exp its UTC expiration.
type SessionToken struct {
	Token string
	Exp   time.Time
}

// SessionClaims is the decoded identity a valid session token asserts.
type SessionClaims struct {
	UserID  uint64
	IsAdmin bool
}

var errInvalidSession = errors.New("invalid session token")

// NewSessionToken builds and signs an HS256 JWT for a user. The claims are
// the subject (sub), an admin flag, expiration (exp) and issued at (iat).
func NewSessionToken(secret string, userID uint64, isAdmin bool, ttlMin int) (SessionToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":   userID,
		"admin": isAdmin,
		"exp":   exp.Unix(),
		"iat":   time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies the signature and expiry of a session token
// and extracts its claims. Tokens signed with a different algorithm are
// rejected.
func ParseSessionToken(secret, raw string) (SessionClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidSession
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return SessionClaims{}, errInvalidSession
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return SessionClaims{}, errInvalidSession
	}
	// Numeric JWT values decode as float64.
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return SessionClaims{}, errInvalidSession
	}
	admin, _ := claims["admin"].(bool)
	return SessionClaims{UserID: uint64(sub), IsAdmin: admin}, nil
}

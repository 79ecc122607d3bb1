package jwt

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type Role string

const (
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

var ErrInvalidRole = errors.New("Invalid role")

func (r Role) Valid() bool {
	return r == RoleEditor || r == RoleViewer
}

type Service interface {
	GenerateAccessToken(subject string, role Role, ttl time.Duration) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

// GenerateAccessToken signs a token for the dashboard API. Editors may
// change data, viewers only read.
func (j *JWTService) GenerateAccessToken(subject string, role Role, ttl time.Duration) (token string, expiresAt int64, err error) {
	if !role.Valid() {
		return "", 0, ErrInvalidRole
	}
	expiresAt = time.Now().Add(ttl).Unix()

	claims := map[string]interface{}{
		"sub":  subject,
		"role": string(role),
		"type": "access",
		"exp":  expiresAt,
	}

	_, token, err = j.tokenAuth.Encode(claims)
	return token, expiresAt, err
}

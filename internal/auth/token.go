package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"os"
	"strings"
	"time"
)

type TokenType string

const (
	TokenTypeUndefined TokenType = ""
	TokenTypeUser      TokenType = "user"
	TokenTypeAdmin     TokenType = "admin"
)

const tokenIssuer = "makarapreneur"

var TokenSecretKey = os.Getenv("TOKEN_AUTH_SECRET")

type TokenClaims struct {
	Type TokenType `json:"type"`
	jwt.RegisteredClaims
}

// UserID is the subject the token was issued for.
func (c *TokenClaims) UserID() string {
	return c.Subject
}

func GenerateToken(userID string, tokenType TokenType, dur time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(dur)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(TokenSecretKey))
}

func VerifyToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			alg, _ := token.Header["alg"].(string)
			return nil, errors.Wrap(ErrInvalidSigningMethod, alg)
		}
		return []byte(TokenSecretKey), nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*TokenClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// ParseBearer verifies the token carried in an Authorization header value.
func ParseBearer(header string) (*TokenClaims, error) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}
	return VerifyToken(strings.TrimSpace(token))
}

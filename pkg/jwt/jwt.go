package jwt

import (
	"errors"
	"fmt"
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// Tipos de token; el claim token_type impide usar un refresh como access y viceversa.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// ErrWrongType el token es válido pero no del tipo esperado.
var ErrWrongType = errors.New("jwt: tipo de token inesperado")

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Subject es el email del usuario; ID (jti) es un ULID único por emisión.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	RoleID    *int64 `json:"role_id,omitempty"`
	TokenType string `json:"token_type"`
}

// Subject datos del usuario que viajan en el token.
type Subject struct {
	UserID int64
	Email  string
	RoleID *int64
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// newTokenID devuelve un ULID monotónico; dos emisiones en el mismo segundo nunca coinciden.
func newTokenID(now time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}

// Generate genera un token HS256 firmado del tipo indicado.
func Generate(secret, issuer, tokenType string, sub Subject, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	if tokenType != TypeAccess && tokenType != TypeRefresh {
		return "", fmt.Errorf("jwt: tipo de token desconocido %q", tokenType)
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        newTokenID(now),
			Issuer:    issuer,
			Subject:   sub.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:    sub.UserID,
		Email:     sub.Email,
		RoleID:    sub.RoleID,
		TokenType: tokenType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma, expiración y tipo, y devuelve los claims.
func Parse(secret, tokenString, expectedType string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if claims.TokenType != expectedType {
		return nil, ErrWrongType
	}
	return claims, nil
}

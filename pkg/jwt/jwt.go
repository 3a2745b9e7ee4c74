package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Propósitos de token. Un token de sesión no sirve para restablecer contraseña y viceversa.
const (
	PurposeSession       = "session"
	PurposePasswordReset = "password_reset"
)

var (
	// ErrExpired el token es válido pero ya venció.
	ErrExpired = errors.New("jwt: token expirado")
	// ErrInvalid firma incorrecta, formato roto o propósito equivocado.
	ErrInvalid = errors.New("jwt: token inválido")
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// El Subject es el id del usuario.
type Claims struct {
	jwt.RegisteredClaims
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose"`
}

// Generate genera un token de sesión firmado para userID con el rol indicado.
func Generate(secret, userID, role, issuer string, expMinutes int) (string, error) {
	return sign(secret, userID, role, issuer, PurposeSession, time.Duration(expMinutes)*time.Minute)
}

// GenerateReset genera un token corto de recuperación de contraseña.
func GenerateReset(secret, userID, issuer string, ttl time.Duration) (string, error) {
	return sign(secret, userID, "", issuer, PurposePasswordReset, ttl)
}

func sign(secret, userID, role, issuer, purpose string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role:    role,
		Purpose: purpose,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y exige el propósito indicado.
// Devuelve ErrExpired si venció y ErrInvalid ante cualquier otro problema.
func Parse(secret, tokenString, purpose string) (*Claims, error) {
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
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalid
	}
	if claims.Purpose != purpose || claims.Subject == "" {
		return nil, ErrInvalid
	}
	return claims, nil
}

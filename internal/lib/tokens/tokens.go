package tokens

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	PurposeEmailVerification = "email_verification"
	PurposePasswordReset     = "password_reset"
)

// NewSessionToken issues the bearer token returned on sign-in.
func NewSessionToken(memberID int64, email, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"memberid": memberID,
		"email":    email,
		"exp":      time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secret))
}

// ParseSessionToken validates a bearer token and returns the member id claim.
func ParseSessionToken(tokenStr, secret string) (int64, error) {
	const op = "tokens.ParseSessionToken"

	claims, err := parseHS256(tokenStr, secret, op)
	if err != nil {
		return 0, err
	}

	if expFloat, ok := claims["exp"].(float64); ok {
		if time.Now().Unix() > int64(expFloat) {
			return 0, fmt.Errorf("%s: token expired", op)
		}
	} else {
		return 0, fmt.Errorf("%s: missing exp claim", op)
	}

	idFloat, ok := claims["memberid"].(float64)
	if !ok {
		return 0, fmt.Errorf("%s: missing memberid claim", op)
	}

	return int64(idFloat), nil
}

// NewEmailToken issues a short-lived token embedded in verification and
// password-reset links.
func NewEmailToken(memberID int64, purpose, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":     memberID,
		"purpose": purpose,
		"exp":     time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secret))
}

func ParseEmailToken(tokenStr, purpose, secret string) (int64, error) {
	const op = "tokens.ParseEmailToken"

	claims, err := parseHS256(tokenStr, secret, op)
	if err != nil {
		return 0, err
	}

	if p, ok := claims["purpose"].(string); !ok || p != purpose {
		return 0, fmt.Errorf("%s: invalid token purpose", op)
	}

	if expFloat, ok := claims["exp"].(float64); ok {
		if time.Now().Unix() > int64(expFloat) {
			return 0, fmt.Errorf("%s: token expired", op)
		}
	} else {
		return 0, fmt.Errorf("%s: missing exp claim", op)
	}

	subFloat, ok := claims["sub"].(float64)
	if !ok {
		return 0, fmt.Errorf("%s: missing sub claim", op)
	}

	return int64(subFloat), nil
}

func parseHS256(tokenStr, secret, op string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}

	parsedToken, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%s: unexpected signing method", op)
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse token: %w", op, err)
	}

	if !parsedToken.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}

	return claims, nil
}

package lib

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"lumino_server/structs"
	"lumino_server/structs/tables"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// GenerateSessionToken mints a session credential for a verified user. The
// assignment_id claim scopes the session to the assignment the magic link
// was issued for.
func GenerateSessionToken(user *tables.User, assignmentID uuid.UUID, secret string, expiry time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(expiry)

	claims := jwt.MapClaims{
		"sub":           user.Id.String(),
		"email":         user.Email,
		"role":          user.Role,
		"assignment_id": assignmentID.String(),
		"iat":           now.Unix(),
		"exp":           expiresAt.Unix(),
		"jti":           uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, expiresAt, nil
}

// ParseToken parses and validates a session token string and returns the claims
func ParseToken(tokenStr string, secret string) (*structs.SessionClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		// Safely extract and validate claims
		subStr, ok := claims["sub"].(string)
		if !ok {
			return nil, fmt.Errorf("invalid sub claim")
		}

		sub, err := uuid.Parse(subStr)
		if err != nil {
			return nil, fmt.Errorf("invalid UUID in sub claim: %w", err)
		}

		email, ok := claims["email"].(string)
		if !ok {
			return nil, fmt.Errorf("invalid email claim")
		}

		role, ok := claims["role"].(string)
		if !ok {
			return nil, fmt.Errorf("invalid role claim")
		}

		assignmentStr, ok := claims["assignment_id"].(string)
		if !ok {
			return nil, fmt.Errorf("invalid assignment_id claim")
		}

		assignmentID, err := uuid.Parse(assignmentStr)
		if err != nil {
			return nil, fmt.Errorf("invalid UUID in assignment_id claim: %w", err)
		}

		iat, ok := claims["iat"].(float64)
		if !ok {
			return nil, fmt.Errorf("invalid iat claim")
		}

		exp, ok := claims["exp"].(float64)
		if !ok {
			return nil, fmt.Errorf("invalid exp claim")
		}

		jtiStr, ok := claims["jti"].(string)
		if !ok {
			return nil, fmt.Errorf("invalid jti claim")
		}

		jti, err := uuid.Parse(jtiStr)
		if err != nil {
			return nil, fmt.Errorf("invalid UUID in jti claim: %w", err)
		}

		return &structs.SessionClaims{
			Sub:          sub,
			Email:        email,
			Role:         role,
			AssignmentId: assignmentID,
			Iat:          time.Unix(int64(iat), 0),
			Exp:          time.Unix(int64(exp), 0),
			Jti:          jti,
		}, nil
	}
	return nil, jwt.ErrInvalidKey
}

// ExtractClaims reads the session credential from the session cookie, falling
// back to an Authorization bearer header for non-browser clients.
func ExtractClaims(r *http.Request, secret string) (*structs.SessionClaims, error) {
	sessionToken, err := GetCookieValue(SessionCookieName, r)
	if err != nil {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return nil, err
		}
		sessionToken = strings.TrimPrefix(header, "Bearer ")
	}

	claims, err := ParseToken(sessionToken, secret)
	if err != nil {
		return nil, err
	}

	return claims, nil
}

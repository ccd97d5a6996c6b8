package middleware

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/golang-jwt/jwt/v4"
)

// UserRole is the role claim issued by the platform's auth service.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleOrganizer UserRole = "organizer"
	RolePlayer    UserRole = "player"
)

// Определяем константы для имен JWT claims
const (
	jwtClaimUserID = "user_id"
	jwtClaimRole   = "role"
)

// GetUserIDFromContext returns the positive integer user_id claim. Numeric and string
// encodings are both accepted.
func GetUserIDFromContext(ctx context.Context) (int, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return 0, errNoClaims
	}

	var userID int
	switch v := claims[jwtClaimUserID].(type) {
	case nil:
		return 0, fmt.Errorf("missing '%s' claim in token", jwtClaimUserID)
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("'%s' claim is not an integer: %v", jwtClaimUserID, v)
		}
		userID = int(v)
	case string:
		id, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("'%s' claim is not an integer: %q", jwtClaimUserID, v)
		}
		userID = id
	default:
		return 0, fmt.Errorf("invalid type for '%s' claim: %T", jwtClaimUserID, v)
	}

	if userID <= 0 {
		return 0, fmt.Errorf("invalid user ID value in '%s' claim: %d", jwtClaimUserID, userID)
	}
	return userID, nil
}

func GetUserRoleFromContext(ctx context.Context) (UserRole, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return "", errNoClaims
	}

	roleClaim, ok := claims[jwtClaimRole]
	if !ok {
		return "", fmt.Errorf("missing '%s' claim in token", jwtClaimRole)
	}

	roleStr, ok := roleClaim.(string)
	if !ok {
		return "", fmt.Errorf("invalid type for '%s' claim: expected string, got %T", jwtClaimRole, roleClaim)
	}

	role := UserRole(roleStr)
	switch role {
	case RoleAdmin, RoleOrganizer, RolePlayer:
		return role, nil
	default:
		return "", fmt.Errorf("invalid role value in claim: %q", roleStr)
	}
}

package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

// GetUserIDFromContext extracts the authenticated user's id from the
// claims placed by Authenticate. JSON numbers decode as float64, so the
// claim is converted back to int here.
func GetUserIDFromContext(ctx context.Context) (int, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return 0, errors.New("user claims not found in context")
	}

	claim, ok := claims[jwtClaimUserID]
	if !ok {
		return 0, fmt.Errorf("missing %q claim in token", jwtClaimUserID)
	}

	idFloat, ok := claim.(float64)
	if !ok {
		return 0, fmt.Errorf("invalid type for %q claim: %T", jwtClaimUserID, claim)
	}
	if idFloat != float64(int(idFloat)) || int(idFloat) <= 0 {
		return 0, fmt.Errorf("invalid user id in %q claim: %v", jwtClaimUserID, claim)
	}
	return int(idFloat), nil
}

// IsAdminFromContext reports whether the authenticated user carries the
// admin flag.
func IsAdminFromContext(ctx context.Context) bool {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return false
	}
	admin, _ := claims[jwtClaimAdmin].(bool)
	return admin
}

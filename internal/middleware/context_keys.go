package middleware

import "context"

// userIDKey is the key used to store the authenticated account's ID in the
// request context.
const userIDKey = contextKey("userID")

// GetUserIDFromCtx retrieves the authenticated account ID from the context.
// It returns the ID and a boolean indicating whether it was found.
func GetUserIDFromCtx(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok
}

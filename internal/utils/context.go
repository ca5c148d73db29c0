package utils

import (
	"context"
)

type contextKey string

const ContextAccountIDKey contextKey = "accountID"

func GetAccountIDFromContext(ctx context.Context) (string, bool) {
	accountID := ctx.Value(ContextAccountIDKey)
	accountIDStr, ok := accountID.(string)
	return accountIDStr, ok
}

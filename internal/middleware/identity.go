package middleware

import (
	"context"
	"net/http"
	"strings"
)

const accountIDKey contextKey = "account_id"

// HeaderAccountID carries the pre-authenticated caller identity. Requests
// reach this service through a trusted edge that has already verified the
// caller's signature, so the header value is taken at face value here.
const HeaderAccountID = "X-Account-ID"

// Identity extracts the caller identity from the request and stores it in the
// context. Handlers that require an identity reject requests without one.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account := strings.TrimSpace(r.Header.Get(HeaderAccountID))
		if account != "" {
			ctx := context.WithValue(r.Context(), accountIDKey, account)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// AccountIDFromContext returns the caller identity, or "" when the request
// carried none.
func AccountIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(accountIDKey).(string); ok {
		return v
	}
	return ""
}

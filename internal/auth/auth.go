// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package auth

import (
	"context"
	"net/http"

	"github.com/curioswitch/go-usegcp/middleware/firebaseauth"
)

type userIDKey struct{}

// Middleware copies the UID of the verified Firebase token into the request
// context. It must run after the firebaseauth middleware.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid := firebaseauth.TokenFromContext(r.Context()).UID
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), uid)))
		})
	}
}

// WithUserID returns a context for the user with id.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

// UserID returns the ID of the signed in user, if any.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	return id, ok && id != ""
}

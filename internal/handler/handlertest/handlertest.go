// Package handlertest serves handlers over a real Connect client for tests.
package handlertest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"

	"github.com/curioswitch/recipeclip/api/clipapi"
	"github.com/curioswitch/recipeclip/internal/auth"
)

const userHeader = "X-Test-User"

type userKey struct{}

// AsUser returns a context whose calls are made as the user with uid.
func AsUser(uid string) context.Context {
	return context.WithValue(context.Background(), userKey{}, uid)
}

// NewClient serves the path and handler returned by clipapi.NewHandler and
// returns a client for it. Calls made with a context from AsUser are served
// as that user.
func NewClient(t *testing.T, path string, handler http.Handler) *clipapi.Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if uid := r.Header.Get(userHeader); uid != "" {
			ctx = auth.WithUserID(ctx, uid)
		}
		mux.ServeHTTP(w, r.WithContext(ctx))
	}))
	t.Cleanup(server.Close)

	return clipapi.NewClient(server.Client(), server.URL, connect.WithInterceptors(userInterceptor{}))
}

type userInterceptor struct{}

func (userInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if uid, ok := ctx.Value(userKey{}).(string); ok {
			req.Header().Set(userHeader, uid)
		}
		return next(ctx, req)
	}
}

func (userInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (userInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return next
}

package middleware

import (
	"context"
	"net/http"

	"github.com/sicea/console/internal/session"
)

type ctxKey string

const stateCtxKey = ctxKey("sessionState")

// StateFrom returns the verified session state injected by RequireSession.
func StateFrom(ctx context.Context) (*session.State, bool) {
	st, ok := ctx.Value(stateCtxKey).(*session.State)
	return st, ok
}

// WithState attaches a verified session state to the context, the same way
// RequireSession does for guarded routes.
func WithState(ctx context.Context, st *session.State) context.Context {
	return context.WithValue(ctx, stateCtxKey, st)
}

// RequireSession is the route guard: pages render only behind a verified
// session, everything else bounces to /login. No return path is preserved;
// after login the user always lands on the home view.
func RequireSession(mgr *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st, ok := mgr.Current(r.Context(), w, r)
			if !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithState(r.Context(), st)))
		})
	}
}

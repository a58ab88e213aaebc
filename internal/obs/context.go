package obs

import "context"

type routePatternKey struct{}

// WithRoutePattern records the matched chi pattern on the context for the
// metrics and tracing middleware further down the chain.
func WithRoutePattern(ctx context.Context, pattern string) context.Context {
	return context.WithValue(ctx, routePatternKey{}, pattern)
}

// RoutePatternFromContext returns the recorded pattern, or "" when the
// request never passed through RoutePatternMiddleware.
func RoutePatternFromContext(ctx context.Context) string {
	v, _ := ctx.Value(routePatternKey{}).(string)
	return v
}

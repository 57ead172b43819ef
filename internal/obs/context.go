package obs

import "context"

type routePatternKey struct{}

// WithRoutePattern stores the matched chi pattern on the context so log lines
// and metric labels report "/api/v1/quotes/{quoteNo}" rather than the raw
// path with a quote number in it.
func WithRoutePattern(ctx context.Context, pattern string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, routePatternKey{}, pattern)
}

// RoutePatternFromContext reads back the stored pattern, empty if none.
func RoutePatternFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(routePatternKey{}).(string); ok {
		return v
	}
	return ""
}

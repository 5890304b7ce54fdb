package envutil

import "context"

type envContextKey string

// WithEnvOverride returns a context in which key reads as value, regardless
// of the process environment. Overrides are visible to every reader in this
// package that is given the context.
func WithEnvOverride(ctx context.Context, key string, value string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, envContextKey(key), value)
}

// WithEnvOverrides applies WithEnvOverride for every entry of values.
func WithEnvOverrides(ctx context.Context, values map[string]string) context.Context {
	for key, value := range values {
		ctx = WithEnvOverride(ctx, key, value)
	}

	return ctx
}

func getEnvOverride(ctx context.Context, key string) (string, bool) {
	if ctx == nil {
		return "", false
	}

	value, ok := ctx.Value(envContextKey(key)).(string)

	return value, ok
}

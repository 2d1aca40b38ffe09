package logging

import "context"

type debugModeKey struct{}

// EnableDebugMode returns a context under which CDebugw logs even when the logger level is above
// debug.
func EnableDebugMode(ctx context.Context) context.Context {
	return context.WithValue(ctx, debugModeKey{}, true)
}

// IsDebugMode returns whether ctx was returned by EnableDebugMode.
func IsDebugMode(ctx context.Context) bool {
	enabled, _ := ctx.Value(debugModeKey{}).(bool)
	return enabled
}

package logging

import (
	"context"
)

// Logger is the structured logger handed to the regression loop and the command line front end.
// The geometry packages never log.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	// CDebugw logs at debug level when either the logger level or ctx (see EnableDebugMode) allows it.
	CDebugw(ctx context.Context, msg string, keysAndValues ...interface{})

	// With returns a logger that adds the key/value pairs to every entry. It shares the level and the
	// appenders of its parent.
	With(keysAndValues ...interface{}) Logger
	// Sublogger returns a logger named `<name>.<subname>` with its own level, starting at the parent's.
	Sublogger(subname string) Logger

	SetLevel(level Level)
	GetLevel() Level
	AddAppender(appender Appender)
	Sync() error
}

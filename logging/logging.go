// Package logging provides the leveled, structured logger used by the regression loop and the
// command line front end. It is a zap SugaredLogger whose core writes to a list of appenders.
package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// NewBlankLogger returns a logger at info level, in UTC, with no appenders yet.
func NewBlankLogger(name string) Logger {
	return newImpl(name, NewAtomicLevelAt(INFO), true)
}

// NewTestLogger returns a debug level logger writing to the test in local time.
func NewTestLogger(tb testing.TB) Logger {
	logger, _ := NewObservedTestLogger(tb)
	return logger
}

// NewObservedTestLogger is like NewTestLogger but also keeps every entry in an observer.
func NewObservedTestLogger(tb testing.TB) (Logger, *observer.ObservedLogs) {
	observerCore, observedLogs := observer.New(zap.LevelEnablerFunc(zapcore.DebugLevel.Enabled))
	return newImpl("", NewAtomicLevelAt(DEBUG), false, &testAppender{tb}, observerCore), observedLogs
}

type testAppender struct {
	tb testing.TB
}

// Write logs the entry through tb so that each line is attributed to the test that wrote it.
func (tapp *testAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	tapp.tb.Helper()
	line, err := formatEntry(entry, fields)
	tapp.tb.Log(line)
	return err
}

func (tapp *testAppender) Sync() error {
	return nil
}

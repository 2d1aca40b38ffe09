package logging

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// impl is a zap SugaredLogger over an appenderCore. The unleveled twin serves CDebugw calls whose
// context is in debug mode.
type impl struct {
	name  string
	level AtomicLevel
	inUTC bool
	out   *[]Appender

	leveled   *zap.SugaredLogger
	unleveled *zap.SugaredLogger
}

func newImpl(name string, level AtomicLevel, inUTC bool, appenders ...Appender) *impl {
	out := append([]Appender{}, appenders...)
	imp := &impl{name: name, level: level, inUTC: inUTC, out: &out}
	imp.leveled = imp.sugar(level)
	imp.unleveled = imp.sugar(zap.LevelEnablerFunc(func(zapcore.Level) bool { return true }))
	return imp
}

func (imp *impl) sugar(enabler zapcore.LevelEnabler) *zap.SugaredLogger {
	core := &appenderCore{LevelEnabler: enabler, out: imp.out, inUTC: imp.inUTC}
	// Skip the impl method so the caller is whoever called the Logger.
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Named(imp.name).Sugar()
}

func (imp *impl) Debugw(msg string, keysAndValues ...interface{}) {
	imp.leveled.Debugw(msg, keysAndValues...)
}

func (imp *impl) CDebugw(ctx context.Context, msg string, keysAndValues ...interface{}) {
	if IsDebugMode(ctx) {
		imp.unleveled.Debugw(msg, keysAndValues...)
		return
	}
	imp.leveled.Debugw(msg, keysAndValues...)
}

func (imp *impl) Infow(msg string, keysAndValues ...interface{}) {
	imp.leveled.Infow(msg, keysAndValues...)
}

func (imp *impl) Warnw(msg string, keysAndValues ...interface{}) {
	imp.leveled.Warnw(msg, keysAndValues...)
}

func (imp *impl) Errorw(msg string, keysAndValues ...interface{}) {
	imp.leveled.Errorw(msg, keysAndValues...)
}

func (imp *impl) With(keysAndValues ...interface{}) Logger {
	child := *imp
	child.leveled = imp.leveled.With(keysAndValues...)
	child.unleveled = imp.unleveled.With(keysAndValues...)
	return &child
}

func (imp *impl) Sublogger(subname string) Logger {
	name := subname
	if imp.name != "" {
		name = imp.name + "." + subname
	}
	return newImpl(name, NewAtomicLevelAt(imp.level.Get()), imp.inUTC, *imp.out...)
}

func (imp *impl) SetLevel(level Level) {
	imp.level.Set(level)
}

func (imp *impl) GetLevel() Level {
	return imp.level.Get()
}

func (imp *impl) AddAppender(appender Appender) {
	*imp.out = append(*imp.out, appender)
}

func (imp *impl) Sync() error {
	return imp.leveled.Sync()
}

// appenderCore is a zapcore.Core fanning entries out to a shared list of appenders.
type appenderCore struct {
	zapcore.LevelEnabler
	out    *[]Appender
	inUTC  bool
	fields []zapcore.Field
}

func (core *appenderCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *core
	clone.fields = append(core.fields[:len(core.fields):len(core.fields)], fields...)
	return &clone
}

func (core *appenderCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if core.Enabled(entry.Level) {
		return checked.AddCore(entry, core)
	}
	return checked
}

func (core *appenderCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if core.inUTC {
		entry.Time = entry.Time.UTC()
	}
	all := append(core.fields[:len(core.fields):len(core.fields)], fields...)
	var errs error
	for _, appender := range *core.out {
		errs = multierr.Append(errs, appender.Write(entry, all))
	}
	return errs
}

func (core *appenderCore) Sync() error {
	var errs error
	for _, appender := range *core.out {
		errs = multierr.Append(errs, appender.Sync())
	}
	return errs
}

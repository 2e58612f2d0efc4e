package logging

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Frames between runtime.Caller and the code that called a Logger method: callerAt, newEntry, the
// log helper and the Logger method itself.
const callerSkip = 4

type impl struct {
	name  string
	level AtomicLevel
	inUTC bool

	appenders []Appender
}

type entry struct {
	zapcore.Entry
	fields []zapcore.Field
}

func newImpl(name string, level Level, inUTC bool, appenders ...Appender) *impl {
	return &impl{
		name:      name,
		level:     NewAtomicLevelAt(level),
		inUTC:     inUTC,
		appenders: appenders,
	}
}

func (imp *impl) AddAppender(appender Appender) {
	imp.appenders = append(imp.appenders, appender)
}

func (imp *impl) SetLevel(level Level) {
	imp.level.Set(level)
}

// Sublogger shares the parent's appenders and starts at the parent's current level.
func (imp *impl) Sublogger(subname string) Logger {
	name := subname
	if imp.name != "" {
		name = imp.name + "." + subname
	}
	return newImpl(name, imp.level.Get(), imp.inUTC, imp.appenders...)
}

func (imp *impl) Sync() error {
	var err error
	for _, appender := range imp.appenders {
		err = multierr.Append(err, appender.Sync())
	}
	return err
}

func (imp *impl) enabled(level Level) bool {
	return level >= imp.level.Get()
}

func (imp *impl) newEntry(level Level, msg string) *entry {
	e := &entry{}
	e.Time = time.Now()
	if imp.inUTC {
		e.Time = e.Time.UTC()
	}
	e.LoggerName = imp.name
	e.Level = level.AsZap()
	e.Message = msg
	e.Caller = callerAt(callerSkip)
	return e
}

func (imp *impl) write(e *entry) {
	for _, appender := range imp.appenders {
		if err := appender.Write(e.Entry, e.fields); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

func (imp *impl) logArgs(level Level, args []interface{}) {
	if imp.enabled(level) {
		imp.write(imp.newEntry(level, fmt.Sprint(args...)))
	}
}

func (imp *impl) logTemplate(level Level, force bool, template string, args []interface{}) {
	if force || imp.enabled(level) {
		imp.write(imp.newEntry(level, fmt.Sprintf(template, args...)))
	}
}

func (imp *impl) logFields(level Level, msg string, keysAndValues []interface{}) {
	if !imp.enabled(level) {
		return
	}
	e := imp.newEntry(level, msg)
	e.fields = toFields(keysAndValues)
	imp.write(e)
}

// toFields pairs up alternating keys and values. A trailing key without a value is kept with an
// error in its place.
func toFields(keysAndValues []interface{}) []zapcore.Field {
	fields := make([]zapcore.Field, 0, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		if i+1 == len(keysAndValues) {
			fields = append(fields, zap.Any(key, errors.New("missing value for log key")))
			break
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}

func (imp *impl) Debug(args ...interface{}) { imp.logArgs(DEBUG, args) }

func (imp *impl) Debugf(template string, args ...interface{}) {
	imp.logTemplate(DEBUG, false, template, args)
}

// CDebugf logs at debug level when either the logger or the context has debug enabled.
func (imp *impl) CDebugf(ctx context.Context, template string, args ...interface{}) {
	imp.logTemplate(DEBUG, IsDebugMode(ctx), template, args)
}

func (imp *impl) Debugw(msg string, keysAndValues ...interface{}) {
	imp.logFields(DEBUG, msg, keysAndValues)
}

func (imp *impl) Info(args ...interface{}) { imp.logArgs(INFO, args) }

func (imp *impl) Infof(template string, args ...interface{}) {
	imp.logTemplate(INFO, false, template, args)
}

func (imp *impl) Infow(msg string, keysAndValues ...interface{}) {
	imp.logFields(INFO, msg, keysAndValues)
}

func (imp *impl) Warn(args ...interface{}) { imp.logArgs(WARN, args) }

func (imp *impl) Warnf(template string, args ...interface{}) {
	imp.logTemplate(WARN, false, template, args)
}

func (imp *impl) Warnw(msg string, keysAndValues ...interface{}) {
	imp.logFields(WARN, msg, keysAndValues)
}

func (imp *impl) Error(args ...interface{}) { imp.logArgs(ERROR, args) }

func (imp *impl) Errorf(template string, args ...interface{}) {
	imp.logTemplate(ERROR, false, template, args)
}

func (imp *impl) Errorw(msg string, keysAndValues ...interface{}) {
	imp.logFields(ERROR, msg, keysAndValues)
}

func callerAt(skip int) zapcore.EntryCaller {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return zapcore.EntryCaller{}
	}
	caller := zapcore.EntryCaller{Defined: true, PC: pc, File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		caller.Function = fn.Name()
	}
	return caller
}

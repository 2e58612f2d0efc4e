package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewBlankLogger("gbur")
	logger.AddAppender(NewWriterAppender(&buf))
	logger.SetLevel(WARN)

	logger.Info("dropped")
	logger.Warnf("kept %d", 1)
	test.That(t, strings.Count(buf.String(), "\n"), test.ShouldEqual, 1)
	test.That(t, buf.String(), test.ShouldContainSubstring, "WARN")
	test.That(t, buf.String(), test.ShouldContainSubstring, "kept 1")
	test.That(t, buf.String(), test.ShouldContainSubstring, "logging/impl_test.go")
}

func TestSubloggerNaming(t *testing.T) {
	var buf bytes.Buffer
	logger := NewBlankLogger("gbur")
	logger.AddAppender(NewWriterAppender(&buf))

	sub := logger.Sublogger("iris")
	sub.Infow("region", "halfspaces", 4)
	test.That(t, buf.String(), test.ShouldContainSubstring, "gbur.iris")
	test.That(t, buf.String(), test.ShouldContainSubstring, `{"halfspaces":4}`)
}

func TestContextDebugMode(t *testing.T) {
	var buf bytes.Buffer
	logger := NewBlankLogger("gbur")
	logger.AddAppender(NewWriterAppender(&buf))
	logger.SetLevel(ERROR)

	logger.CDebugf(context.Background(), "hidden")
	test.That(t, buf.Len(), test.ShouldEqual, 0)

	ctx := EnableDebugMode(context.Background(), "")
	test.That(t, GetName(ctx), test.ShouldEqual, "debug")
	logger.CDebugf(ctx, "shown")
	test.That(t, buf.String(), test.ShouldContainSubstring, "shown")
}

func TestObservedTestLogger(t *testing.T) {
	logger, observed := NewObservedTestLogger(t)
	logger.Debugw("round finished", "round", 2)
	logger.Infof("coverage %.2f", 0.5)

	test.That(t, observed.Len(), test.ShouldEqual, 2)
	test.That(t, observed.FilterMessage("round finished").Len(), test.ShouldEqual, 1)
	test.That(t, observed.FilterMessageSnippet("coverage").Len(), test.ShouldEqual, 1)
}

func TestLevelFromString(t *testing.T) {
	level, err := LevelFromString("Warning")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, level, test.ShouldEqual, WARN)

	_, err = LevelFromString("loud")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestCDebugfCaller(t *testing.T) {
	var buf bytes.Buffer
	logger := NewBlankLogger("gbur")
	logger.AddAppender(NewWriterAppender(&buf))
	logger.SetLevel(INFO)

	logger.CDebugf(EnableDebugMode(context.Background(), "round"), "seed %d", 3)
	test.That(t, buf.String(), test.ShouldContainSubstring, "DEBUG")
	test.That(t, buf.String(), test.ShouldContainSubstring, "seed 3")
	test.That(t, buf.String(), test.ShouldContainSubstring, "logging/impl_test.go")
}

func TestUnpairedKey(t *testing.T) {
	logger, observed := NewObservedTestLogger(t)
	logger.Warnw("bur rejected", "clearance", 0.5, "dangling")

	entries := observed.All()
	test.That(t, len(entries), test.ShouldEqual, 1)
	fields := entries[0].ContextMap()
	test.That(t, fields["clearance"], test.ShouldEqual, 0.5)
	test.That(t, fields["dangling"], test.ShouldNotBeNil)
}

type failingAppender struct {
	err error
}

func (f failingAppender) Write(zapcore.Entry, []zapcore.Field) error { return nil }

func (f failingAppender) Sync() error { return f.err }

func TestSyncCombinesAppenderErrors(t *testing.T) {
	logger := NewBlankLogger("gbur")
	test.That(t, logger.Sync(), test.ShouldBeNil)

	logger.AddAppender(failingAppender{errors.New("disk full")})
	logger.AddAppender(NewWriterAppender(&bytes.Buffer{}))
	logger.AddAppender(failingAppender{errors.New("closed")})
	err := logger.Sync()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "disk full")
	test.That(t, err.Error(), test.ShouldContainSubstring, "closed")
}

func TestSubloggerLevelIsIndependent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewBlankLogger("gbur")
	logger.AddAppender(NewWriterAppender(&buf))
	sub := logger.Sublogger("coverage")

	logger.SetLevel(ERROR)
	sub.Info("still logged")
	logger.Info("filtered")
	test.That(t, buf.String(), test.ShouldContainSubstring, "still logged")
	test.That(t, buf.String(), test.ShouldNotContainSubstring, "filtered")
}

func TestGlobal(t *testing.T) {
	test.That(t, Global(), test.ShouldNotBeNil)
	test.That(t, Global(), test.ShouldEqual, Global())
}

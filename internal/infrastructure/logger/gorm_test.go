package logger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLogger_TraceLogsError(t *testing.T) {
	log, logs := newObservedLogger()
	gl := NewGormLogger(log, gormlogger.Error, WithIgnoreRecordNotFoundError(false))

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM records", 0
	}, assert.AnError)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "SQL Error", entry.Message)
	assert.Equal(t, "SELECT * FROM records", entry.ContextMap()["sql"])
}

func TestGormLogger_IgnoresRecordNotFound(t *testing.T) {
	log, logs := newObservedLogger()
	gl := NewGormLogger(log, gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM records WHERE id = ?", 0
	}, gormlogger.ErrRecordNotFound)

	assert.Equal(t, 0, logs.Len())
}

func TestGormLogger_WarnsOnSlowQuery(t *testing.T) {
	log, logs := newObservedLogger()
	gl := NewGormLogger(log, gormlogger.Warn, WithSlowThreshold(time.Millisecond))

	gl.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) {
		return "SELECT * FROM records", 5
	}, nil)

	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "SLOW SQL")
}

func TestGormLogger_SilentSuppressesEverything(t *testing.T) {
	log, logs := newObservedLogger()
	gl := NewGormLogger(log, gormlogger.Silent)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", 1
	}, assert.AnError)

	assert.Equal(t, 0, logs.Len())
}

func TestGormLogger_TraceIncludesRequestID(t *testing.T) {
	log, logs := newObservedLogger()
	gl := NewGormLogger(log, gormlogger.Error, WithIgnoreRecordNotFoundError(false))

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-42")
	gl.Trace(ctx, time.Now(), func() (string, int64) {
		return "UPDATE records SET is_exclusive = false", 2
	}, assert.AnError)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-42", logs.All()[0].ContextMap()["request_id"])
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("anything"))
}

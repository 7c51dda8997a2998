package observability

import (
	"bytes"
	"errors"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	messages []string
	fields   [][]Field
}

func (r *recordingLogger) Debug(msg string, fields ...Field) { r.record(msg, fields) }
func (r *recordingLogger) Info(msg string, fields ...Field)  { r.record(msg, fields) }
func (r *recordingLogger) Error(msg string, fields ...Field) { r.record(msg, fields) }

func (r *recordingLogger) record(msg string, fields []Field) {
	r.messages = append(r.messages, msg)
	r.fields = append(r.fields, fields)
}

func TestSetLoggerNilRestoresNoop(t *testing.T) {
	rec := &recordingLogger{}
	SetLogger(rec)
	require.Same(t, rec, Log())
	SetLogger(nil)
	require.Equal(t, noopLogger{}, Log())
}

func TestHCLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewHCLogger(hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Debug}))
	log.Info("call completed", F("method", "Team_Get"), F("duration_ms", 12))
	out := buf.String()
	require.Contains(t, out, "call completed")
	require.Contains(t, out, "method=Team_Get")
	require.Contains(t, out, "duration_ms=12")
}

func TestNewHCLoggerNil(t *testing.T) {
	require.Equal(t, noopLogger{}, NewHCLogger(nil))
}

func TestAggregateErrors(t *testing.T) {
	rec := &recordingLogger{}
	require.NoError(t, AggregateErrors(rec, "sync", []error{nil, nil}))
	require.Empty(t, rec.messages)

	first := errors.New("team 1")
	err := AggregateErrors(rec, "sync", []error{first, nil, errors.New("team 2")})
	require.ErrorIs(t, err, first)
	require.Contains(t, err.Error(), "sync failed")
	require.Len(t, rec.messages, 1)
	require.Contains(t, rec.fields[0], Field{Key: "error_count", Value: 2})
}

package events

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/lumina/server/internal/logger"
)

func TestOrDiscard(t *testing.T) {
	assert.Equal(t, Discard{}, OrDiscard(nil))

	rec := &Recorder{}
	assert.Same(t, rec, OrDiscard(rec))

	// must not panic
	OrDiscard(nil).Publish(context.Background(), New(ProjectCreated, "u1", "p1", nil))
}

func TestMulti_FansOutAndSkipsNil(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	multi := NewMulti(a, nil, b)
	require.Len(t, multi, 2)

	multi.Publish(context.Background(), New(TaskCreated, "u1", "t1", nil))

	assert.Equal(t, []string{TaskCreated}, a.Types())
	assert.Equal(t, []string{TaskCreated}, b.Types())
}

func TestLogSink_WritesStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(logger.New(&buf, slog.LevelInfo, true))

	sink.Publish(context.Background(), New(ProjectTransitioned, "u1", "p1", map[string]any{
		"from": "new",
		"to":   "in_progress",
	}))

	out := buf.String()
	assert.Contains(t, out, `"event":"project.transitioned"`)
	assert.Contains(t, out, `"user_id":"u1"`)
	assert.Contains(t, out, `"entity_id":"p1"`)
	assert.Contains(t, out, `"from":"new"`)
	assert.Contains(t, out, `"to":"in_progress"`)
}

func TestNew_StampsTime(t *testing.T) {
	e := New(UserSignedIn, "u1", "", nil)

	assert.Equal(t, UserSignedIn, e.Type)
	assert.False(t, e.At.IsZero())
}

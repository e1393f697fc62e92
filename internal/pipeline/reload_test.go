package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Geun-Oh/uxlog/internal/buffer"
	"github.com/Geun-Oh/uxlog/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReloader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.csv")
	require.NoError(t, os.WriteFile(path, []byte(dataset), 0o644))

	slot := buffer.NewSlot()
	r := NewReloader(Config{Source: source.NewFileSource(path), Slot: slot}, path, 20*time.Millisecond)
	assert.Equal(t, "reloader:"+path, r.String())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx) }()

	require.Eventually(t, func() bool {
		rep, ok := slot.Current()
		return ok && rep.Rows == 3
	}, 5*time.Second, 10*time.Millisecond)

	more := dataset + "u3,2026. 2. 4 오후 12:09:00,업로드1_화면,미션 시작,업로드1_미션시작,,mobile\n"
	require.NoError(t, os.WriteFile(path, []byte(more), 0o644))

	require.Eventually(t, func() bool {
		rep, ok := slot.Current()
		return ok && rep.Rows == 4
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("reloader did not stop")
	}
}

func TestReloader_LoadKeepsPreviousOnEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.csv")
	require.NoError(t, os.WriteFile(path, []byte(dataset), 0o644))

	slot := buffer.NewSlot()
	r := NewReloader(Config{Source: source.NewFileSource(path), Slot: slot}, path, 0)
	require.NoError(t, r.Load(context.Background()))

	require.NoError(t, os.WriteFile(path, []byte(header), 0o644))
	assert.ErrorIs(t, r.Load(context.Background()), ErrEmptyData)

	rep, ok := slot.Current()
	require.True(t, ok)
	assert.Equal(t, 3, rep.Rows)
}

package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestWatcher_FiresOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	target := filepath.Join(dir, "people.json")
	other := filepath.Join(dir, "other.json")
	require.NoError(t, os.WriteFile(target, []byte("[]"), 0o644))

	var calls atomic.Int32
	var gotPath atomic.Value
	w, err := New(target, 20*time.Millisecond, func(_ context.Context, p string) {
		gotPath.Store(p)
		calls.Add(1)
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Writes to a sibling file are ignored.
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, calls.Load())

	// Keep writing until the watcher has registered and fired.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(target, []byte(`[{"name":"a","age":1}]`), 0o644)
		return calls.Load() > 0
	}, 5*time.Second, 100*time.Millisecond)
	assert.Equal(t, target, gotPath.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcher_MissingDir(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := New(filepath.Join(t.TempDir(), "nope", "people.json"), time.Millisecond, func(context.Context, string) {}, nil)
	require.NoError(t, err)
	err = w.Run(context.Background())
	assert.Error(t, err)
}

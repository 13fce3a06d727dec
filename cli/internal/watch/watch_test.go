package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunFiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "seed.sql")
	require.NoError(t, os.WriteFile(file, []byte("SELECT 1;"), 0o644))

	w, err := New(file, 20*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fired := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() error {
			fired <- struct{}{}
			return nil
		}, func(error) {})
	}()

	// Unrelated files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.sql"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(file, []byte("SELECT 2;"), 0o644))

	select {
	case <-fired:
	case <-ctx.Done():
		t.Fatal("callback was not called")
	}

	cancel()
	assert.NoError(t, <-done)
}

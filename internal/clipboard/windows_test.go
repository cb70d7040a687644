package clipboard

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipimg/clipimg/internal/types"
)

var savePathPattern = regexp.MustCompile(`\.Save\('([^']+)'`)

// destFromScript extracts the temp-file path spliced into the PowerShell
// fetch script.
func destFromScript(t *testing.T, args []string) string {
	t.Helper()
	require.Len(t, args, 4)
	m := savePathPattern.FindStringSubmatch(args[3])
	require.NotNil(t, m, "script should contain a Save path")
	return m[1]
}

func TestWindowsFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("NoImageMarker", func(t *testing.T) {
		run := &fakeRunner{onOutput: func(name string, args ...string) ([]byte, error) {
			return []byte(psMarkerNoImage + "\r\n"), nil
		}}
		svc := newWindowsService(testLogger(), run, DefaultOptions())

		_, err := svc.Fetch(ctx)
		assert.ErrorIs(t, err, types.ErrNoImage)
	})

	t.Run("SavedMarkerWithFile", func(t *testing.T) {
		var dest string
		run := &fakeRunner{onOutput: func(name string, args ...string) ([]byte, error) {
			dest = destFromScript(t, args)
			require.NoError(t, os.WriteFile(dest, pngBytes, 0644))
			return []byte(psMarkerSaved + "\r\n"), nil
		}}
		svc := newWindowsService(testLogger(), run, DefaultOptions())

		img, err := svc.Fetch(ctx)
		require.NoError(t, err)
		assert.Equal(t, pngBytes, img.Bytes)
		assert.Equal(t, types.FormatPNG, img.Format)

		// The temp dir is gone on every exit path.
		_, statErr := os.Stat(filepath.Dir(dest))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("SavedMarkerButFileMissing", func(t *testing.T) {
		run := &fakeRunner{onOutput: func(name string, args ...string) ([]byte, error) {
			return []byte(psMarkerSaved), nil
		}}
		svc := newWindowsService(testLogger(), run, DefaultOptions())

		// Success marker with nothing on disk means the clipboard raced
		// away, not that the environment is broken.
		_, err := svc.Fetch(ctx)
		assert.ErrorIs(t, err, types.ErrNoImage)
	})

	t.Run("ScriptFailureIsError", func(t *testing.T) {
		spawnErr := errors.New("powershell blew up")
		var dest string
		run := &fakeRunner{onOutput: func(name string, args ...string) ([]byte, error) {
			dest = destFromScript(t, args)
			return nil, spawnErr
		}}
		svc := newWindowsService(testLogger(), run, DefaultOptions())

		_, err := svc.Fetch(ctx)
		require.Error(t, err)
		assert.NotErrorIs(t, err, types.ErrNoImage)
		assert.ErrorIs(t, err, spawnErr)

		_, statErr := os.Stat(filepath.Dir(dest))
		assert.True(t, os.IsNotExist(statErr), "temp dir must be cleaned up even on error")
	})

	t.Run("UnexpectedMarkerIsError", func(t *testing.T) {
		run := &fakeRunner{onOutput: func(name string, args ...string) ([]byte, error) {
			return []byte("garbage"), nil
		}}
		svc := newWindowsService(testLogger(), run, DefaultOptions())

		_, err := svc.Fetch(ctx)
		require.Error(t, err)
		assert.NotErrorIs(t, err, types.ErrNoImage)
	})
}

func TestWindowsHasImage(t *testing.T) {
	ctx := context.Background()

	t.Run("True", func(t *testing.T) {
		run := &fakeRunner{onOutput: func(string, ...string) ([]byte, error) {
			return []byte("True\r\n"), nil
		}}
		svc := newWindowsService(testLogger(), run, DefaultOptions())
		assert.True(t, svc.HasImage(ctx))
	})

	t.Run("False", func(t *testing.T) {
		run := &fakeRunner{onOutput: func(string, ...string) ([]byte, error) {
			return []byte("False\r\n"), nil
		}}
		svc := newWindowsService(testLogger(), run, DefaultOptions())
		assert.False(t, svc.HasImage(ctx))
	})

	t.Run("ProbeFailureIsFalse", func(t *testing.T) {
		run := &fakeRunner{onOutput: func(string, ...string) ([]byte, error) {
			return nil, errors.New("spawn failure")
		}}
		svc := newWindowsService(testLogger(), run, DefaultOptions())
		assert.False(t, svc.HasImage(ctx))
	})

	t.Run("Idempotent", func(t *testing.T) {
		run := &fakeRunner{onOutput: func(string, ...string) ([]byte, error) {
			return []byte("True"), nil
		}}
		svc := newWindowsService(testLogger(), run, DefaultOptions())
		assert.Equal(t, svc.HasImage(ctx), svc.HasImage(ctx))
	})
}

func TestWindowsBestEffortOps(t *testing.T) {
	ctx := context.Background()
	run := &fakeRunner{onOutput: func(string, ...string) ([]byte, error) {
		return nil, errors.New("always fails")
	}}
	svc := newWindowsService(testLogger(), run, DefaultOptions())

	// Neither panics nor surfaces anything.
	svc.Clear(ctx)
	svc.WarmUp(ctx)
	assert.Len(t, run.calls, 2)
}

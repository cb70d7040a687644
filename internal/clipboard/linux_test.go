package clipboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipimg/clipimg/internal/types"
)

func TestLinuxFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("XclipWins", func(t *testing.T) {
		run := &fakeRunner{onOutput: func(name string, args ...string) ([]byte, error) {
			if name == "xclip" {
				return pngBytes, nil
			}
			t.Fatalf("wl-paste should not run when xclip succeeds")
			return nil, nil
		}}
		svc := newLinuxService(testLogger(), run, DefaultOptions())

		img, err := svc.Fetch(ctx)
		require.NoError(t, err)
		assert.Equal(t, pngBytes, img.Bytes)
		assert.Equal(t, types.FormatPNG, img.Format)
	})

	t.Run("FallsThroughToWlPaste", func(t *testing.T) {
		run := &fakeRunner{
			missing: map[string]bool{"xclip": true},
			onOutput: func(name string, args ...string) ([]byte, error) {
				require.Equal(t, "wl-paste", name)
				return pngBytes, nil
			},
		}
		svc := newLinuxService(testLogger(), run, DefaultOptions())

		img, err := svc.Fetch(ctx)
		require.NoError(t, err)
		assert.Equal(t, pngBytes, img.Bytes, "bytes must be the tool's raw output")
		assert.Equal(t, types.FormatPNG, img.Format)
	})

	t.Run("EmptyOutputIsNotFound", func(t *testing.T) {
		run := &fakeRunner{onOutput: func(string, ...string) ([]byte, error) {
			return nil, nil
		}}
		svc := newLinuxService(testLogger(), run, DefaultOptions())

		_, err := svc.Fetch(ctx)
		assert.ErrorIs(t, err, types.ErrNoImage)
		assert.Equal(t, []string{"xclip", "wl-paste"}, run.calls, "both tools tried in order")
	})

	t.Run("ToolErrorsAreNotFound", func(t *testing.T) {
		run := &fakeRunner{onOutput: func(string, ...string) ([]byte, error) {
			return nil, errors.New("target image/png not available")
		}}
		svc := newLinuxService(testLogger(), run, DefaultOptions())

		_, err := svc.Fetch(ctx)
		assert.ErrorIs(t, err, types.ErrNoImage)
	})

	t.Run("NoToolInstalledIsError", func(t *testing.T) {
		run := &fakeRunner{missing: map[string]bool{"xclip": true, "wl-paste": true}}
		svc := newLinuxService(testLogger(), run, DefaultOptions())

		_, err := svc.Fetch(ctx)
		require.Error(t, err)
		assert.NotErrorIs(t, err, types.ErrNoImage)
	})
}

func TestLinuxHasImage(t *testing.T) {
	ctx := context.Background()

	t.Run("TargetListing", func(t *testing.T) {
		run := &fakeRunner{onOutput: func(name string, args ...string) ([]byte, error) {
			return []byte("TARGETS\nimage/png\ntext/plain\n"), nil
		}}
		svc := newLinuxService(testLogger(), run, DefaultOptions())
		assert.True(t, svc.HasImage(ctx))
	})

	t.Run("NoImageTargets", func(t *testing.T) {
		run := &fakeRunner{onOutput: func(string, ...string) ([]byte, error) {
			return []byte("TARGETS\ntext/plain\nUTF8_STRING\n"), nil
		}}
		svc := newLinuxService(testLogger(), run, DefaultOptions())
		assert.False(t, svc.HasImage(ctx))
	})

	t.Run("SecondToolListsImage", func(t *testing.T) {
		run := &fakeRunner{onOutput: func(name string, args ...string) ([]byte, error) {
			if name == "xclip" {
				return nil, errors.New("no X11 display")
			}
			return []byte("image/png\n"), nil
		}}
		svc := newLinuxService(testLogger(), run, DefaultOptions())
		assert.True(t, svc.HasImage(ctx))
	})

	t.Run("Idempotent", func(t *testing.T) {
		run := &fakeRunner{onOutput: func(string, ...string) ([]byte, error) {
			return []byte("image/png\n"), nil
		}}
		svc := newLinuxService(testLogger(), run, DefaultOptions())
		assert.Equal(t, svc.HasImage(ctx), svc.HasImage(ctx))
	})
}

func TestLinuxBestEffortOps(t *testing.T) {
	ctx := context.Background()
	run := &fakeRunner{
		onRun: func(string, ...string) error { return errors.New("clear failed") },
		onOutput: func(string, ...string) ([]byte, error) {
			return nil, errors.New("warm-up failed")
		},
	}
	svc := newLinuxService(testLogger(), run, DefaultOptions())

	svc.Clear(ctx)
	svc.WarmUp(ctx)
}

package clipboard

import (
	"context"
	"io"
	"os/exec"

	"go.uber.org/zap"
)

// fakeRunner scripts external-process behavior so the platform strategy
// chains can be exercised without the real OS tools.
type fakeRunner struct {
	onOutput func(name string, args ...string) ([]byte, error)
	onRun    func(name string, args ...string) error
	missing  map[string]bool
	calls    []string
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, name)
	if f.missing[name] {
		return nil, exec.ErrNotFound
	}
	if f.onOutput == nil {
		return nil, exec.ErrNotFound
	}
	return f.onOutput(name, args...)
}

func (f *fakeRunner) Run(_ context.Context, _ io.Reader, name string, args ...string) error {
	f.calls = append(f.calls, name)
	if f.missing[name] {
		return exec.ErrNotFound
	}
	if f.onRun == nil {
		return nil
	}
	return f.onRun(name, args...)
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if f.missing[name] {
		return "", exec.ErrNotFound
	}
	return "/usr/bin/" + name, nil
}

func testLogger() *zap.Logger { return zap.NewNop() }

// pngBytes is a minimal payload carrying the PNG magic number.
var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 1, 2, 3, 4}

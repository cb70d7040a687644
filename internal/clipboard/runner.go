package clipboard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
)

// runner abstracts external process invocation so the per-platform strategy
// chains can be exercised in tests without the real OS tools installed.
type runner interface {
	// Output runs the command and returns its raw stdout. Stdout is treated
	// as binary; no trimming or decoding happens here.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)

	// Run runs the command with the given stdin, discarding stdout.
	Run(ctx context.Context, stdin io.Reader, name string, args ...string) error

	// LookPath reports whether the named tool is installed.
	LookPath(name string) (string, error)
}

// execRunner is the production runner backed by os/exec. Every invocation is
// expected to arrive with a deadline already attached to ctx.
type execRunner struct{}

func (execRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s timed out: %w", name, ctx.Err())
		}
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

func (execRunner) Run(ctx context.Context, stdin io.Reader, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s timed out: %w", name, ctx.Err())
		}
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (execRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

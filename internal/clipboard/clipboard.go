// Package clipboard provides cross-platform access to images on the system
// clipboard via external helper processes. Each platform has its own ordered
// list of acquisition strategies; the first one that yields non-empty bytes
// wins. The implementations are plain structs parameterized by a command
// runner, so only the one-time selection in New is build-tagged:
//
//	service_windows.go — PowerShell temp-file protocol
//	service_linux.go   — xclip (X11) then wl-paste (Wayland)
//	service_darwin.go  — osascript primary + per-class coercion fallback
package clipboard

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/clipimg/clipimg/internal/types"
)

// Service is the platform-polymorphic clipboard access contract.
type Service interface {
	// HasImage is a best-effort, non-destructive check whether the clipboard
	// currently holds image-typed content in any supported format. It never
	// fails for the "no image" case; it returns false.
	HasImage(ctx context.Context) bool

	// Fetch attempts retrieval, trying each platform strategy in fixed
	// priority order. It returns the first success, types.ErrNoImage when
	// every strategy yields empty or absent data, and any other error only
	// for genuine infrastructure failure (helper tool missing, spawn
	// failure, timeout).
	Fetch(ctx context.Context) (*types.ImageData, error)

	// Clear empties the clipboard. Best-effort: failures are swallowed.
	Clear(ctx context.Context)

	// WarmUp pre-initializes whatever helper runtime the platform strategy
	// depends on so the first Fetch is not penalized by cold start.
	// Best-effort: failures are swallowed.
	WarmUp(ctx context.Context)

	// Sweep tries every known format identifier on this platform and
	// reports byte length and success per identifier. Used by the diagnose
	// command for field diagnosis of "no image found" reports.
	Sweep(ctx context.Context) []SweepResult
}

// SweepResult is one format identifier probe from Service.Sweep.
type SweepResult struct {
	Identifier string
	Bytes      int
	Err        error
}

// Options carries the per-operation timeouts the config layer resolves. The
// zero value is not usable; start from DefaultOptions.
type Options struct {
	FetchTimeout  time.Duration
	ProbeTimeout  time.Duration
	ClearTimeout  time.Duration
	WarmUpTimeout time.Duration
}

// DefaultOptions returns the stock timeouts: shorter for detection and
// clear, longer for fetch and warm-up.
func DefaultOptions() Options {
	return Options{
		FetchTimeout:  10 * time.Second,
		ProbeTimeout:  3 * time.Second,
		ClearTimeout:  3 * time.Second,
		WarmUpTimeout: 15 * time.Second,
	}
}

// New returns the clipboard service for the running platform. The selection
// happens exactly once; there is no dynamic dispatch beyond this point.
func New(logger *zap.Logger, opts Options) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return newPlatformService(logger, opts)
}

package clipboard

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clipimg/clipimg/internal/types"
)

const (
	psMarkerSaved   = "clipimg-saved"
	psMarkerNoImage = "clipimg-no-image"
)

// fetchScript checks the clipboard's image flag and, if set, serializes the
// image to a PNG file at the path spliced in by psFetchScript. Output is a
// marker string rather than an exit code because PowerShell exits zero even
// when the pipeline produced nothing.
const psFetchScriptTemplate = `Add-Type -AssemblyName System.Windows.Forms
Add-Type -AssemblyName System.Drawing
if (-not [System.Windows.Forms.Clipboard]::ContainsImage()) { Write-Output '` + psMarkerNoImage + `'; exit 0 }
$img = [System.Windows.Forms.Clipboard]::GetImage()
$img.Save('%s', [System.Drawing.Imaging.ImageFormat]::Png)
Write-Output '` + psMarkerSaved + `'`

const psProbeScript = `Add-Type -AssemblyName System.Windows.Forms
if ([System.Windows.Forms.Clipboard]::ContainsImage()) { Write-Output 'True' } else { Write-Output 'False' }`

const psClearScript = `Add-Type -AssemblyName System.Windows.Forms
[System.Windows.Forms.Clipboard]::Clear()`

// warm-up just forces the Forms/Drawing assembly load so the first real
// fetch doesn't pay the cold-start cost.
const psWarmUpScript = `Add-Type -AssemblyName System.Windows.Forms
Add-Type -AssemblyName System.Drawing`

// windowsService acquires clipboard images through a single PowerShell
// strategy: the script writes the image to an exclusively-owned temp file
// which is read back and deleted on every exit path.
type windowsService struct {
	logger *zap.Logger
	run    runner
	opts   Options
	shell  string
}

func newWindowsService(logger *zap.Logger, run runner, opts Options) *windowsService {
	return &windowsService{
		logger: logger,
		run:    run,
		opts:   opts,
		shell:  "powershell",
	}
}

func (s *windowsService) HasImage(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ProbeTimeout)
	defer cancel()

	out, err := s.run.Output(ctx, s.shell, "-NoProfile", "-NonInteractive", "-Command", psProbeScript)
	if err != nil {
		s.logger.Debug("clipboard probe failed", zap.Error(err))
		return false
	}
	return strings.TrimSpace(string(out)) == "True"
}

func (s *windowsService) Fetch(ctx context.Context) (*types.ImageData, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()

	dir, err := os.MkdirTemp("", "clipimg-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	dest := filepath.Join(dir, "clip_"+uuid.NewString()+".png")
	script := fmt.Sprintf(psFetchScriptTemplate, psEscape(dest))

	out, err := s.run.Output(ctx, s.shell, "-NoProfile", "-NonInteractive", "-Command", script)
	if err != nil {
		return nil, fmt.Errorf("clipboard script: %w", err)
	}

	switch marker := strings.TrimSpace(string(out)); marker {
	case psMarkerNoImage:
		return nil, types.ErrNoImage
	case psMarkerSaved:
		data, err := os.ReadFile(dest)
		if err != nil || len(data) == 0 {
			// The script claimed success but produced nothing usable.
			// Treat as absence so the user is told to copy again instead
			// of being shown an infrastructure error.
			s.logger.Debug("script reported success but temp file unusable",
				zap.String("path", dest), zap.Error(err))
			return nil, types.ErrNoImage
		}
		s.logger.Debug("clipboard image fetched", zap.Int("bytes", len(data)))
		return &types.ImageData{Bytes: data, Format: types.FormatPNG}, nil
	default:
		return nil, fmt.Errorf("unexpected clipboard script output %q", marker)
	}
}

func (s *windowsService) Clear(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ClearTimeout)
	defer cancel()

	if _, err := s.run.Output(ctx, s.shell, "-NoProfile", "-NonInteractive", "-Command", psClearScript); err != nil {
		s.logger.Debug("clipboard clear failed", zap.Error(err))
	}
}

func (s *windowsService) WarmUp(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.WarmUpTimeout)
	defer cancel()

	if _, err := s.run.Output(ctx, s.shell, "-NoProfile", "-NonInteractive", "-Command", psWarmUpScript); err != nil {
		s.logger.Debug("clipboard warm-up failed", zap.Error(err))
	}
}

func (s *windowsService) Sweep(ctx context.Context) []SweepResult {
	results := []SweepResult{{Identifier: "ContainsImage"}}
	if s.HasImage(ctx) {
		results[0].Bytes = 1
	}

	img, err := s.Fetch(ctx)
	r := SweepResult{Identifier: "GetImage/png", Err: err}
	if err == nil {
		r.Bytes = len(img.Bytes)
	}
	return append(results, r)
}

// psEscape makes a path safe inside a single-quoted PowerShell string.
func psEscape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

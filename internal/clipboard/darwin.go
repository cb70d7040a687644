package clipboard

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clipimg/clipimg/internal/types"
)

// osaErrPrefix marks script-level failure in the primary strategy's stdout.
// osascript exits zero even when the script body failed, so the exit code
// alone cannot distinguish "no image" from "script crashed".
const osaErrPrefix = "clipimg-error:"

// The primary strategy coerces the pasteboard to PNG directly; failing that
// it coerces to TIFF, writes the temp file, and transcodes it to PNG in
// place with sips. On success the script echoes back the destination path.
const osaFetchScript = `on run argv
	set thePath to item 1 of argv
	try
		set imgData to the clipboard as «class PNGf»
		my writeData(imgData, thePath)
	on error
		try
			set imgData to the clipboard as «class TIFF»
			my writeData(imgData, thePath)
			do shell script "sips -s format png " & quoted form of thePath & " --out " & quoted form of thePath
		on error errMsg
			return "` + osaErrPrefix + `" & errMsg
		end try
	end try
	return thePath
end run

on writeData(imgData, thePath)
	set fileRef to open for access POSIX file thePath with write permission
	try
		set eof fileRef to 0
		write imgData to fileRef
		close access fileRef
	on error errMsg
		close access fileRef
		error errMsg
	end try
end writeData`

const osaProbeScript = `if (clipboard info for «class PNGf») is not {} then return "yes"
if (clipboard info for «class TIFF») is not {} then return "yes"
if (clipboard info for «class JPEG») is not {} then return "yes"
return "no"`

// darwinClass is one (pasteboard class, format) pair for the fallback sweep.
type darwinClass struct {
	class  string
	format types.Format
}

var darwinClasses = []darwinClass{
	{"PNGf", types.FormatPNG},
	{"TIFF", types.FormatTIFF},
	{"JPEG", types.FormatJPEG},
}

// darwinService acquires clipboard images on macOS. The native pasteboard's
// image representation is format-ambiguous and no single command reliably
// extracts every variant, so two strategies run in fixed order: the
// osascript+sips primary, then a per-class coercion sweep.
type darwinService struct {
	logger *zap.Logger
	run    runner
	opts   Options
}

func newDarwinService(logger *zap.Logger, run runner, opts Options) *darwinService {
	return &darwinService{logger: logger, run: run, opts: opts}
}

func (s *darwinService) HasImage(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ProbeTimeout)
	defer cancel()

	out, err := s.run.Output(ctx, "osascript", "-e", osaProbeScript)
	if err == nil {
		return strings.TrimSpace(string(out)) == "yes"
	}
	s.logger.Debug("class membership probe failed, falling back to clipboard info", zap.Error(err))

	// Generic text query: substring-match the known format tokens.
	out, err = s.run.Output(ctx, "osascript", "-e", "clipboard info")
	if err != nil {
		s.logger.Debug("clipboard info probe failed", zap.Error(err))
		return false
	}
	info := string(out)
	for _, c := range darwinClasses {
		if strings.Contains(info, c.class) {
			return true
		}
	}
	return false
}

func (s *darwinService) Fetch(ctx context.Context) (*types.ImageData, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()

	if _, err := s.run.LookPath("osascript"); err != nil {
		return nil, fmt.Errorf("osascript not available: %w", err)
	}

	img, err := s.fetchPrimary(ctx)
	if err == nil {
		return img, nil
	}
	s.logger.Debug("primary strategy failed, trying per-class coercion", zap.Error(err))

	img, ferr := s.fetchByClass(ctx)
	if ferr == nil {
		return img, nil
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("clipboard fetch timed out: %w", ctx.Err())
	}
	return nil, types.ErrNoImage
}

// fetchPrimary runs the osascript+sips strategy against an exclusively-owned
// temp file, deleted on every exit path.
func (s *darwinService) fetchPrimary(ctx context.Context) (*types.ImageData, error) {
	dir, err := os.MkdirTemp("", "clipimg-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	dest := filepath.Join(dir, "clip_"+uuid.NewString()+".png")
	out, err := s.run.Output(ctx, "osascript", "-e", osaFetchScript, dest)
	if err != nil {
		return nil, err
	}

	reply := strings.TrimSpace(string(out))
	if strings.HasPrefix(reply, osaErrPrefix) {
		return nil, fmt.Errorf("pasteboard coercion failed: %s", strings.TrimPrefix(reply, osaErrPrefix))
	}
	if reply != dest {
		return nil, fmt.Errorf("unexpected script output %q", reply)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("script produced an empty file")
	}
	s.logger.Debug("clipboard image fetched via primary strategy", zap.Int("bytes", len(data)))
	return &types.ImageData{Bytes: data, Format: types.FormatPNG}, nil
}

// fetchByClass sweeps the standard image classes in fixed order, returning
// the first non-empty coercion tagged with its own format. No conversion
// happens on this path.
func (s *darwinService) fetchByClass(ctx context.Context) (*types.ImageData, error) {
	for _, c := range darwinClasses {
		out, err := s.run.Output(ctx, "osascript", "-e", fmt.Sprintf("the clipboard as «class %s»", c.class))
		if err != nil {
			s.logger.Debug("class coercion failed", zap.String("class", c.class), zap.Error(err))
			continue
		}
		data, ok := decodeOsaData(out)
		if !ok || len(data) == 0 {
			continue
		}
		s.logger.Debug("clipboard image fetched via class coercion",
			zap.String("class", c.class), zap.Int("bytes", len(data)))
		return &types.ImageData{Bytes: data, Format: c.format}, nil
	}
	return nil, types.ErrNoImage
}

func (s *darwinService) Clear(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ClearTimeout)
	defer cancel()

	if _, err := s.run.Output(ctx, "osascript", "-e", `set the clipboard to ""`); err != nil {
		s.logger.Debug("clipboard clear failed", zap.Error(err))
	}
}

func (s *darwinService) WarmUp(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.WarmUpTimeout)
	defer cancel()

	// Any script primes the AppleScript component load; clipboard info is
	// harmless and read-only.
	if _, err := s.run.Output(ctx, "osascript", "-e", "clipboard info"); err != nil {
		s.logger.Debug("clipboard warm-up failed", zap.Error(err))
	}
}

func (s *darwinService) Sweep(ctx context.Context) []SweepResult {
	var results []SweepResult
	for _, c := range darwinClasses {
		r := SweepResult{Identifier: "class " + c.class}
		out, err := s.run.Output(ctx, "osascript", "-e", fmt.Sprintf("the clipboard as «class %s»", c.class))
		if err != nil {
			r.Err = err
		} else if data, ok := decodeOsaData(out); ok {
			r.Bytes = len(data)
		}
		results = append(results, r)
	}
	return results
}

// decodeOsaData extracts raw bytes from an osascript data descriptor such
// as «data PNGf89504E47...». The four characters after "data " are the
// class code; the rest is hex.
func decodeOsaData(out []byte) ([]byte, bool) {
	s := strings.TrimSpace(string(out))
	start := strings.Index(s, "«data ")
	end := strings.LastIndex(s, "»")
	if start < 0 || end <= start {
		return nil, false
	}
	payload := s[start+len("«data ") : end]
	if len(payload) <= 4 {
		return nil, false
	}
	raw, err := hex.DecodeString(payload[4:])
	if err != nil {
		return nil, false
	}
	return raw, true
}

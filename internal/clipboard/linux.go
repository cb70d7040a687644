package clipboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/clipimg/clipimg/internal/types"
)

// errNoTool distinguishes "nothing to run" from "clipboard has no image":
// a missing environment is an infrastructure failure, not absence.
var errNoTool = errors.New("no clipboard tool available (install xclip or wl-clipboard)")

// linuxTool is one clipboard CLI candidate. xclip serves X11 selections,
// wl-paste serves Wayland; the two are tried in that fixed order.
type linuxTool struct {
	name      string
	fetchArgs []string
	listArgs  []string
}

var linuxTools = []linuxTool{
	{
		name:      "xclip",
		fetchArgs: []string{"-selection", "clipboard", "-t", "image/png", "-o"},
		listArgs:  []string{"-selection", "clipboard", "-t", "TARGETS", "-o"},
	},
	{
		name:      "wl-paste",
		fetchArgs: []string{"--type", "image/png"},
		listArgs:  []string{"--list-types"},
	},
}

// linuxService reads image bytes directly from the candidate tool's stdout
// in binary mode, falling through on process failure or empty output.
type linuxService struct {
	logger *zap.Logger
	run    runner
	opts   Options
	tools  []linuxTool
}

func newLinuxService(logger *zap.Logger, run runner, opts Options) *linuxService {
	return &linuxService{
		logger: logger,
		run:    run,
		opts:   opts,
		tools:  linuxTools,
	}
}

func (s *linuxService) HasImage(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ProbeTimeout)
	defer cancel()

	for _, tool := range s.tools {
		out, err := s.run.Output(ctx, tool.name, tool.listArgs...)
		if err != nil {
			s.logger.Debug("target listing failed", zap.String("tool", tool.name), zap.Error(err))
			continue
		}
		if strings.Contains(string(out), "image/") {
			return true
		}
	}
	return false
}

func (s *linuxService) Fetch(ctx context.Context) (*types.ImageData, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()

	installed := 0
	for _, tool := range s.tools {
		if _, err := s.run.LookPath(tool.name); err != nil {
			s.logger.Debug("clipboard tool not installed", zap.String("tool", tool.name))
			continue
		}
		installed++

		out, err := s.run.Output(ctx, tool.name, tool.fetchArgs...)
		if err != nil {
			s.logger.Debug("clipboard read failed", zap.String("tool", tool.name), zap.Error(err))
			continue
		}
		if len(out) == 0 {
			s.logger.Debug("clipboard read returned no data", zap.String("tool", tool.name))
			continue
		}
		s.logger.Debug("clipboard image fetched",
			zap.String("tool", tool.name), zap.Int("bytes", len(out)))
		return &types.ImageData{Bytes: out, Format: types.FormatPNG}, nil
	}

	if installed == 0 {
		return nil, errNoTool
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("clipboard fetch timed out: %w", ctx.Err())
	}
	return nil, types.ErrNoImage
}

func (s *linuxService) Clear(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ClearTimeout)
	defer cancel()

	// Same two-tool fallback as fetch, errors discarded. xclip takes over
	// the selection with empty input; wl-copy drops ownership outright.
	if err := s.run.Run(ctx, strings.NewReader(""), "xclip", "-selection", "clipboard", "-i"); err == nil {
		return
	}
	if err := s.run.Run(ctx, nil, "wl-copy", "--clear"); err != nil {
		s.logger.Debug("clipboard clear failed", zap.Error(err))
	}
}

func (s *linuxService) WarmUp(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.WarmUpTimeout)
	defer cancel()

	for _, tool := range s.tools {
		if _, err := s.run.LookPath(tool.name); err != nil {
			continue
		}
		// A target listing is the cheapest call that exercises the tool
		// end to end.
		if _, err := s.run.Output(ctx, tool.name, tool.listArgs...); err != nil {
			s.logger.Debug("warm-up call failed", zap.String("tool", tool.name), zap.Error(err))
		}
		return
	}
	s.logger.Debug("no clipboard tool installed, nothing to warm up")
}

func (s *linuxService) Sweep(ctx context.Context) []SweepResult {
	var results []SweepResult
	for _, tool := range s.tools {
		for _, mime := range []string{"image/png", "image/jpeg", "image/tiff"} {
			args := make([]string, len(tool.fetchArgs))
			copy(args, tool.fetchArgs)
			for i, a := range args {
				if a == "image/png" {
					args[i] = mime
				}
			}

			r := SweepResult{Identifier: tool.name + ":" + mime}
			out, err := s.run.Output(ctx, tool.name, args...)
			r.Bytes, r.Err = len(out), err
			results = append(results, r)
		}
	}
	return results
}

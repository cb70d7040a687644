//go:build !darwin && !linux && !windows

package clipboard

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/clipimg/clipimg/internal/types"
)

func newPlatformService(logger *zap.Logger, _ Options) Service {
	return &unsupportedService{logger: logger}
}

// unsupportedService keeps the binary buildable on platforms without a
// clipboard strategy. Fetch always reports an infrastructure error.
type unsupportedService struct {
	logger *zap.Logger
}

func (s *unsupportedService) HasImage(context.Context) bool { return false }

func (s *unsupportedService) Fetch(context.Context) (*types.ImageData, error) {
	return nil, errors.New("clipboard image access is not supported on this platform")
}

func (s *unsupportedService) Clear(context.Context)               {}
func (s *unsupportedService) WarmUp(context.Context)              {}
func (s *unsupportedService) Sweep(context.Context) []SweepResult { return nil }

//go:build windows

package clipboard

import "go.uber.org/zap"

func newPlatformService(logger *zap.Logger, opts Options) Service {
	return newWindowsService(logger, execRunner{}, opts)
}

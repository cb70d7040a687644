//go:build linux

package clipboard

import "go.uber.org/zap"

func newPlatformService(logger *zap.Logger, opts Options) Service {
	return newLinuxService(logger, execRunner{}, opts)
}

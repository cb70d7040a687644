//go:build darwin

package clipboard

import "go.uber.org/zap"

func newPlatformService(logger *zap.Logger, opts Options) Service {
	return newDarwinService(logger, execRunner{}, opts)
}

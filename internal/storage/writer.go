package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/clipimg/clipimg/internal/types"
)

// imageNamePattern matches files the writer produced: image_<epoch-ms>.<ext>.
// The timestamp embedded in the name is the retention clock; nothing else in
// the assets directory is ever touched.
var imageNamePattern = regexp.MustCompile(`^image_(\d+)\.(png|tiff|jpeg)$`)

// Writer persists clipboard images into the workspace assets directory and
// applies the retention policy.
type Writer struct {
	dir           string
	retentionDays int
	logger        *zap.Logger
	now           func() time.Time
}

// NewWriter creates a writer rooted at dir. retentionDays of 0 disables
// cleanup.
func NewWriter(dir string, retentionDays int, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{
		dir:           dir,
		retentionDays: retentionDays,
		logger:        logger,
		now:           time.Now,
	}
}

// Save writes the image under the assets directory as
// image_<epoch-ms>.<format>, creating the directory as needed.
func (w *Writer) Save(img *types.ImageData) (*types.SaveRecord, error) {
	if img == nil || len(img.Bytes) == 0 {
		return nil, fmt.Errorf("no image data to save")
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create assets directory: %w", err)
	}

	created := w.now()
	name := fmt.Sprintf("image_%d.%s", created.UnixMilli(), img.Format.Ext())
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, img.Bytes, 0644); err != nil {
		return nil, fmt.Errorf("failed to write image file: %w", err)
	}

	w.logger.Debug("image saved",
		zap.String("path", path),
		zap.String("format", string(img.Format)),
		zap.Int("bytes", len(img.Bytes)))

	return &types.SaveRecord{
		Path:    path,
		Format:  img.Format,
		Size:    int64(len(img.Bytes)),
		Created: created,
	}, nil
}

// Cleanup deletes saved images older than the retention window, parsing the
// timestamp back out of each filename. Individual deletion failures are
// logged and skipped; cleanup is hygiene, not correctness. It returns the
// cutoff applied and how many files were removed.
func (w *Writer) Cleanup() (time.Time, int) {
	if w.retentionDays <= 0 {
		return time.Time{}, 0
	}
	cutoff := w.now().AddDate(0, 0, -w.retentionDays)

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			w.logger.Debug("cleanup scan failed", zap.Error(err))
		}
		return cutoff, 0
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := imageNamePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		ms, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		if !time.UnixMilli(ms).Before(cutoff) {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			w.logger.Debug("failed to remove stale image", zap.String("path", path), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		w.logger.Debug("retention cleanup removed files", zap.Int("count", removed))
	}
	return cutoff, removed
}

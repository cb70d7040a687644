package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/clipimg/clipimg/internal/types"
)

const savesBucket = "saves"

// History records every saved image in a bolt database so past pastes can
// be listed and pruned alongside the files themselves.
type History struct {
	db     *bbolt.DB
	logger *zap.Logger
}

// OpenHistory opens (or creates) the history database at path.
func OpenHistory(path string, logger *zap.Logger) (*History, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(savesBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}
	return &History{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (h *History) Close() error {
	return h.db.Close()
}

// Record stores one save, keyed by its millisecond timestamp.
func (h *History) Record(rec *types.SaveRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	return h.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(savesBucket)).Put(tsKey(rec.Created), data)
	})
}

// Recent returns up to limit records, newest first. A limit of 0 means all.
func (h *History) Recent(limit int) ([]types.SaveRecord, error) {
	var records []types.SaveRecord
	err := h.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(savesBucket)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var rec types.SaveRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				h.logger.Debug("skipping corrupt history record", zap.Error(err))
				continue
			}
			records = append(records, rec)
			if limit > 0 && len(records) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Prune removes records created before the cutoff, returning the count.
func (h *History) Prune(cutoff time.Time) (int, error) {
	removed := 0
	err := h.db.Update(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(savesBucket)).Cursor()
		bound := tsKey(cutoff)
		for k, _ := c.First(); k != nil && string(k) < string(bound); k, _ = c.First() {
			if err := c.Delete(); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	return removed, err
}

// tsKey encodes a timestamp as a sortable big-endian millisecond key.
func tsKey(t time.Time) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(t.UnixMilli()))
	return key
}

package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipimg/clipimg/internal/types"
)

func openTestHistory(t *testing.T) *History {
	t.Helper()
	hist, err := OpenHistory(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { hist.Close() })
	return hist
}

func record(created time.Time) *types.SaveRecord {
	return &types.SaveRecord{
		Path:    "/ws/assets/image_" + created.Format("150405") + ".png",
		Format:  types.FormatPNG,
		Size:    128,
		Created: created,
	}
}

func TestHistoryRecordAndRecent(t *testing.T) {
	hist := openTestHistory(t)
	base := time.Now().Add(-time.Hour)

	for i := 0; i < 5; i++ {
		require.NoError(t, hist.Record(record(base.Add(time.Duration(i)*time.Minute))))
	}

	t.Run("NewestFirst", func(t *testing.T) {
		records, err := hist.Recent(0)
		require.NoError(t, err)
		require.Len(t, records, 5)
		for i := 1; i < len(records); i++ {
			assert.True(t, records[i].Created.Before(records[i-1].Created))
		}
	})

	t.Run("LimitApplies", func(t *testing.T) {
		records, err := hist.Recent(2)
		require.NoError(t, err)
		assert.Len(t, records, 2)
		assert.WithinDuration(t, base.Add(4*time.Minute), records[0].Created, time.Second)
	})
}

func TestHistoryPrune(t *testing.T) {
	hist := openTestHistory(t)
	base := time.Now().Add(-10 * 24 * time.Hour)

	require.NoError(t, hist.Record(record(base)))
	require.NoError(t, hist.Record(record(base.Add(24*time.Hour))))
	require.NoError(t, hist.Record(record(time.Now())))

	removed, err := hist.Prune(base.Add(48 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	records, err := hist.Recent(0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestHistoryEmpty(t *testing.T) {
	hist := openTestHistory(t)

	records, err := hist.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, records)

	removed, err := hist.Prune(time.Now())
	require.NoError(t, err)
	assert.Zero(t, removed)
}

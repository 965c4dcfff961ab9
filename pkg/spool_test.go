package pkg

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spoolItem struct {
	Name  string
	Count int
}

func spoolPath(t *testing.T) string {
	t.Helper()

	return filepath.Join(t.TempDir(), "items.gob")
}

func TestSpoolAppendAndRange(t *testing.T) {
	spool, err := NewSpool[spoolItem](spoolPath(t))
	require.NoError(t, err)

	t.Cleanup(func() { _ = spool.Close() })

	require.NoError(t, spool.Append(spoolItem{Name: "a", Count: 1}))
	require.NoError(t, spool.AppendBatch([]spoolItem{
		{Name: "b", Count: 2},
		{Name: "c", Count: 3},
	}))

	assert.Equal(t, uint64(3), spool.Len())

	var seen []spoolItem

	err = spool.Range(func(index uint64, item spoolItem) error {
		assert.Equal(t, uint64(len(seen)), index)
		seen = append(seen, item)

		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []spoolItem{
		{Name: "a", Count: 1},
		{Name: "b", Count: 2},
		{Name: "c", Count: 3},
	}, seen)
}

func TestSpoolRangeStopsOnCallbackError(t *testing.T) {
	spool, err := NewSpool[spoolItem](spoolPath(t))
	require.NoError(t, err)

	t.Cleanup(func() { _ = spool.Close() })

	require.NoError(t, spool.AppendBatch([]spoolItem{{Name: "a"}, {Name: "b"}}))

	calls := 0
	err = spool.Range(func(uint64, spoolItem) error {
		calls++

		return assert.AnError
	})

	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, calls)
}

func TestOpenSpool(t *testing.T) {
	path := spoolPath(t)

	writer, err := NewSpool[spoolItem](path)
	require.NoError(t, err)
	require.NoError(t, writer.AppendBatch([]spoolItem{{Name: "a"}, {Name: "b"}}))
	require.NoError(t, writer.Close())

	t.Run("recounts items on open", func(t *testing.T) {
		reader, err := OpenSpool[spoolItem](path)
		require.NoError(t, err)

		t.Cleanup(func() { _ = reader.Close() })

		assert.Equal(t, uint64(2), reader.Len())

		var names []string

		require.NoError(t, reader.Range(func(_ uint64, item spoolItem) error {
			names = append(names, item.Name)

			return nil
		}))
		assert.Equal(t, []string{"a", "b"}, names)
	})

	t.Run("opened spool is read-only", func(t *testing.T) {
		reader, err := OpenSpool[spoolItem](path)
		require.NoError(t, err)

		t.Cleanup(func() { _ = reader.Close() })

		err = reader.Append(spoolItem{Name: "c"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read-only")
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := OpenSpool[spoolItem](filepath.Join(t.TempDir(), "absent.gob"))
		require.Error(t, err)
	})
}

func TestNewSpoolTruncatesExisting(t *testing.T) {
	path := spoolPath(t)

	first, err := NewSpool[spoolItem](path)
	require.NoError(t, err)
	require.NoError(t, first.Append(spoolItem{Name: "old"}))
	require.NoError(t, first.Close())

	second, err := NewSpool[spoolItem](path)
	require.NoError(t, err)
	require.NoError(t, second.Append(spoolItem{Name: "new"}))
	require.NoError(t, second.Close())

	reader, err := OpenSpool[spoolItem](path)
	require.NoError(t, err)

	t.Cleanup(func() { _ = reader.Close() })

	assert.Equal(t, uint64(1), reader.Len())
}

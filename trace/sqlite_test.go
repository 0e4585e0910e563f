package trace

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSQLiteSink_PersistsEntriesInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.db")
	sink, err := OpenSQLiteSink(path)
	require.NoError(t, err)
	defer sink.Close()

	entries := []Entry{
		{IsRead: true, SizeBytes: 4096, OffsetBytes: 0},
		{IsRead: false, SizeBytes: 8192, OffsetBytes: 4096},
		{IsRead: true, SizeBytes: 4096, OffsetBytes: 8192},
	}
	require.NoError(t, sink.WriteAll(entries))

	rows, err := sink.db.Query(`SELECT op, size, offset FROM trace ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	i := 0
	for rows.Next() {
		var op int
		var size, offset int64
		require.NoError(t, rows.Scan(&op, &size, &offset))
		require.Equal(t, entries[i].Op(), op, "row %d", i)
		require.Equal(t, entries[i].SizeBytes, size, "row %d", i)
		require.Equal(t, entries[i].OffsetBytes, offset, "row %d", i)
		i++
	}
	require.NoError(t, rows.Err())
	require.Equal(t, len(entries), i)
}

func TestSQLiteSink_AppendsAcrossWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.db")
	sink, err := OpenSQLiteSink(path)
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.WriteAll([]Entry{{IsRead: true, SizeBytes: 1, OffsetBytes: 0}}))
	require.NoError(t, sink.WriteAll([]Entry{{IsRead: false, SizeBytes: 2, OffsetBytes: 4}}))

	var count int
	require.NoError(t, sink.db.QueryRow(`SELECT COUNT(*) FROM trace`).Scan(&count))
	require.Equal(t, 2, count)
}

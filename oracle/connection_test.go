package oracle

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fennelq/oraclescan/engine"
	"github.com/fennelq/oraclescan/execution"
)

// fakeRows replays canned driver rows through the rowSource interface.
type fakeRows struct {
	rows    [][]interface{}
	pos     int
	scanErr error
	iterErr error
}

func (f *fakeRows) Next() bool {
	return f.pos < len(f.rows)
}

func (f *fakeRows) Scan(dest ...interface{}) error {
	if f.scanErr != nil {
		return f.scanErr
	}
	row := f.rows[f.pos]
	f.pos++
	for i := range dest {
		*dest[i].(*interface{}) = row[i]
	}
	return nil
}

func (f *fakeRows) Err() error {
	return f.iterErr
}

func makeRows(n int) [][]interface{} {
	rows := make([][]interface{}, n)
	for i := range rows {
		rows[i] = []interface{}{int64(i), fmt.Sprintf("name-%d", i)}
	}
	return rows
}

var scanTypes = []engine.Type{engine.Bigint, engine.Varchar}

func TestStreamChunksPacksFullChunks(t *testing.T) {
	total := execution.VectorSize + 17
	rows := &fakeRows{rows: makeRows(total)}

	var sizes []int
	var firstOfChunk []engine.Value
	err := streamChunks(rows, 2, scanTypes, nil, func(chunk *execution.Chunk) bool {
		sizes = append(sizes, chunk.Size())
		firstOfChunk = append(firstOfChunk, chunk.Value(0, 0))
		return true
	})
	require.NoError(t, err)

	assert.Equal(t, []int{execution.VectorSize, 17}, sizes)
	assert.Equal(t, int64(0), firstOfChunk[0].Int64)
	assert.Equal(t, int64(execution.VectorSize), firstOfChunk[1].Int64)
}

func TestStreamChunksEarlyTermination(t *testing.T) {
	rows := &fakeRows{rows: makeRows(3 * execution.VectorSize)}

	calls := 0
	err := streamChunks(rows, 2, scanTypes, nil, func(chunk *execution.Chunk) bool {
		calls++
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	// The fetch stopped right after the rejected chunk.
	assert.Equal(t, execution.VectorSize, rows.pos)
}

func TestStreamChunksFlushesPartial(t *testing.T) {
	rows := &fakeRows{rows: makeRows(5)}

	var got [][]string
	err := streamChunks(rows, 2, scanTypes, nil, func(chunk *execution.Chunk) bool {
		for r := 0; r < chunk.Size(); r++ {
			got = append(got, []string{chunk.Value(0, r).String(), chunk.Value(1, r).String()})
		}
		return true
	})
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, []string{"0", "name-0"}, got[0])
	assert.Equal(t, []string{"4", "name-4"}, got[4])
}

func TestStreamChunksNullCells(t *testing.T) {
	rows := &fakeRows{rows: [][]interface{}{
		{nil, nil},
		{int64(1), "x"},
	}}

	var values []engine.Value
	err := streamChunks(rows, 2, scanTypes, nil, func(chunk *execution.Chunk) bool {
		for r := 0; r < chunk.Size(); r++ {
			values = append(values, chunk.Value(0, r), chunk.Value(1, r))
		}
		return true
	})
	require.NoError(t, err)

	assert.True(t, values[0].IsNull())
	assert.Equal(t, engine.Bigint, values[0].Type)
	assert.True(t, values[1].IsNull())
	assert.Equal(t, engine.Varchar, values[1].Type)
	assert.False(t, values[2].IsNull())
}

func TestStreamChunksSurfacesFetchErrors(t *testing.T) {
	t.Run("scan error", func(t *testing.T) {
		rows := &fakeRows{rows: makeRows(1), scanErr: errors.New("ORA-01013")}
		err := streamChunks(rows, 2, scanTypes, nil, func(chunk *execution.Chunk) bool { return true })

		var oraErr *Error
		require.ErrorAs(t, err, &oraErr)
		assert.Equal(t, FetchError, oraErr.Kind)
		assert.Equal(t, "ExecuteQuery::fetch", oraErr.Context)
	})

	t.Run("iteration error after rows", func(t *testing.T) {
		rows := &fakeRows{rows: makeRows(2), iterErr: errors.New("ORA-03113")}
		delivered := 0
		err := streamChunks(rows, 2, scanTypes, nil, func(chunk *execution.Chunk) bool {
			delivered++
			return true
		})

		var oraErr *Error
		require.ErrorAs(t, err, &oraErr)
		assert.Equal(t, FetchError, oraErr.Kind)
		// The failing call surfaced before any partial chunk was delivered.
		assert.Equal(t, 0, delivered)
	})
}

// Result columns beyond the projected types are ignored.
func TestStreamChunksArityMismatch(t *testing.T) {
	rows := &fakeRows{rows: [][]interface{}{{int64(1), "a", "extra"}}}
	err := streamChunks(rows, 3, scanTypes, nil, func(chunk *execution.Chunk) bool {
		assert.Equal(t, 2, chunk.ColumnCount())
		return true
	})
	require.NoError(t, err)
}

func TestErrorFormatting(t *testing.T) {
	err := errorf(PrepareError, "ExecuteQuery::prepare", "ORA-00942: table or view does not exist")
	assert.Equal(t,
		"Oracle prepare error in ExecuteQuery::prepare: ORA-00942: table or view does not exist",
		err.Error())

	wrapped := newError(ConnectError, "Connection::Open", errors.New("dial tcp: refused"))
	assert.ErrorContains(t, wrapped, "Connection::Open")
	assert.NotNil(t, wrapped.Unwrap())
}

package execution

import (
	"github.com/fennelq/oraclescan/engine"
)

// VectorSize is the engine's standard chunk capacity in rows.
const VectorSize = 2048

// Chunk is a bounded columnar batch of rows. Values are packed in fetch
// order starting at row 0; the cardinality is set once the chunk is full or
// flushed.
type Chunk struct {
	types   []engine.Type
	columns [][]engine.Value
	size    int
}

func NewChunk(types []engine.Type) *Chunk {
	columns := make([][]engine.Value, len(types))
	for i := range columns {
		columns[i] = make([]engine.Value, VectorSize)
	}
	return &Chunk{types: types, columns: columns}
}

func (c *Chunk) ColumnCount() int {
	return len(c.columns)
}

func (c *Chunk) Types() []engine.Type {
	return c.types
}

func (c *Chunk) SetValue(col, row int, v engine.Value) {
	c.columns[col][row] = v
}

func (c *Chunk) Value(col, row int) engine.Value {
	return c.columns[col][row]
}

func (c *Chunk) SetCardinality(n int) {
	c.size = n
}

func (c *Chunk) Size() int {
	return c.size
}

// Reset clears the cardinality so the buffer can be refilled. Cell contents
// are overwritten by the next fill pass.
func (c *Chunk) Reset() {
	c.size = 0
}

// ProduceFn receives each filled chunk. Returning false is the engine's
// early-termination signal: the producer must stop and deliver nothing more.
type ProduceFn func(chunk *Chunk) bool

package execution

import (
	"testing"

	"github.com/fennelq/oraclescan/engine"
)

func TestChunkFillAndReset(t *testing.T) {
	chunk := NewChunk([]engine.Type{engine.Bigint, engine.Varchar})

	if chunk.ColumnCount() != 2 {
		t.Fatalf("ColumnCount() = %d", chunk.ColumnCount())
	}

	chunk.SetValue(0, 0, engine.NewBigint(7))
	chunk.SetValue(1, 0, engine.NewVarchar("a"))
	chunk.SetCardinality(1)

	if chunk.Size() != 1 {
		t.Fatalf("Size() = %d", chunk.Size())
	}
	if got := chunk.Value(0, 0).Int64; got != 7 {
		t.Errorf("Value(0,0) = %d", got)
	}

	chunk.Reset()
	if chunk.Size() != 0 {
		t.Errorf("Size() after Reset = %d", chunk.Size())
	}
}

func TestChunkCapacityIsVectorSize(t *testing.T) {
	chunk := NewChunk([]engine.Type{engine.Integer})
	for i := 0; i < VectorSize; i++ {
		chunk.SetValue(0, i, engine.NewInteger(int32(i)))
	}
	chunk.SetCardinality(VectorSize)
	if chunk.Size() != VectorSize {
		t.Errorf("Size() = %d, want %d", chunk.Size(), VectorSize)
	}
}

package engine

import (
	"math/big"
	"testing"
	"time"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		name string
		val  Value
		want string
	}{
		{"null", NewNull(Integer), "NULL"},
		{"boolean", NewBoolean(true), "true"},
		{"bigint", NewBigint(-42), "-42"},
		{"hugeint", NewHugeint(big.NewInt(1234567890)), "1234567890"},
		{"double", NewDouble(1.5), "1.5"},
		{"decimal", NewDecimal(12345, 10, 2), "123.45"},
		{"decimal negative", NewDecimal(-5, 10, 2), "-0.05"},
		{"decimal zero scale", NewDecimal(7, 10, 0), "7"},
		{"varchar", NewVarchar("hello"), "hello"},
		{"blob", NewBlob([]byte{0xde, 0xad}), "\\xdead"},
		{"timestamp", NewTimestamp(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC).UnixMicro()), "2024-01-02 03:04:05"},
		{"interval", NewInterval(1, 2, 3), "1 months 2 days 3 us"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.val.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypedNullKeepsType(t *testing.T) {
	v := NewNull(Decimal(10, 2))
	if !v.IsNull() {
		t.Fatal("expected null")
	}
	if v.Type.ID != TypeIDDecimal || v.Type.Width != 10 || v.Type.Scale != 2 {
		t.Errorf("typed null lost its type: %+v", v.Type)
	}
}

func TestTypeString(t *testing.T) {
	if got := Decimal(10, 2).String(); got != "DECIMAL(10,2)" {
		t.Errorf("Decimal.String() = %q", got)
	}
	if got := TimestampTZ.String(); got != "TIMESTAMP WITH TIME ZONE" {
		t.Errorf("TimestampTZ.String() = %q", got)
	}
	if !Integer.IsInteger() || Double.IsInteger() {
		t.Error("IsInteger misclassifies")
	}
}

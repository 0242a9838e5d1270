package tabular

import (
	"bytes"
	"testing"
	"time"

	"github.com/apache/arrow/go/v13/arrow"
	"github.com/apache/arrow/go/v13/arrow/array"
	"github.com/apache/arrow/go/v13/arrow/ipc"
	"github.com/apache/arrow/go/v13/arrow/memory"
	"github.com/stretchr/testify/require"
	"github.com/ydb-platform/clickhouse-adapter/app/adapter"
	"github.com/ydb-platform/clickhouse-adapter/library/go/ptr"
)

func TestArrowType(t *testing.T) {
	type testCase struct {
		typeName string
		dataType arrow.DataType
		nullable bool
	}

	tcs := []testCase{
		{typeName: "Bool", dataType: arrow.FixedWidthTypes.Boolean},
		{typeName: "Int32", dataType: arrow.PrimitiveTypes.Int32},
		{typeName: "UInt8", dataType: arrow.PrimitiveTypes.Uint8},
		{typeName: "UInt64", dataType: arrow.PrimitiveTypes.Uint64},
		{typeName: "Float64", dataType: arrow.PrimitiveTypes.Float64},
		{typeName: "String", dataType: arrow.BinaryTypes.String},
		{typeName: "Nullable(Int64)", dataType: arrow.PrimitiveTypes.Int64, nullable: true},
		{typeName: "LowCardinality(String)", dataType: arrow.BinaryTypes.String},
		{typeName: "LowCardinality(Nullable(String))", dataType: arrow.BinaryTypes.String, nullable: true},
		{typeName: "DateTime", dataType: arrow.FixedWidthTypes.Timestamp_us},
		{typeName: "DateTime64(3, 'UTC')", dataType: arrow.FixedWidthTypes.Timestamp_us},
		{typeName: "Date32", dataType: arrow.FixedWidthTypes.Timestamp_us},
		{typeName: "Decimal(10, 2)", dataType: arrow.BinaryTypes.String},
		{typeName: "Array(UInt8)", dataType: arrow.BinaryTypes.String},
		{typeName: "UInt128", dataType: arrow.BinaryTypes.String},
	}

	for _, tc := range tcs {
		tc := tc

		t.Run(tc.typeName, func(t *testing.T) {
			dataType, nullable := arrowType(tc.typeName)
			require.True(t, arrow.TypeEqual(tc.dataType, dataType), "got %s", dataType)
			require.Equal(t, tc.nullable, nullable)
		})
	}
}

func TestNewRecord(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	columns := []adapter.Column{
		{Name: "id", Type: "UInt32"},
		{Name: "name", Type: "Nullable(String)"},
		{Name: "score", Type: "Float64"},
		{Name: "created", Type: "DateTime"},
		{Name: "tags", Type: "Array(String)"},
	}
	rows := [][]any{
		{uint32(1), "alice", 1.5, ts, []string{"a", "b"}},
		{uint32(2), nil, float32(2), ts, []string{}},
		{ptr.T(uint32(3)), ptr.T("bob"), int64(3), ts, []string{"c"}},
	}

	record, err := NewRecord(mem, columns, rows)
	require.NoError(t, err)

	defer record.Release()

	require.EqualValues(t, 3, record.NumRows())
	require.EqualValues(t, 5, record.NumCols())

	ids := record.Column(0).(*array.Uint32)
	require.Equal(t, []uint32{1, 2, 3}, ids.Uint32Values())

	names := record.Column(1).(*array.String)
	require.Equal(t, "alice", names.Value(0))
	require.True(t, names.IsNull(1))
	require.Equal(t, "bob", names.Value(2))

	scores := record.Column(2).(*array.Float64)
	require.Equal(t, []float64{1.5, 2, 3}, scores.Float64Values())

	created := record.Column(3).(*array.Timestamp)
	require.Equal(t, arrow.Timestamp(ts.UnixMicro()), created.Value(0))

	tags := record.Column(4).(*array.String)
	require.Equal(t, "[a b]", tags.Value(0))

	field := record.Schema().Field(1)
	require.True(t, field.Nullable)

	idx := field.Metadata.FindKey(MetadataKeyClickHouseType)
	require.GreaterOrEqual(t, idx, 0)
	require.Equal(t, "Nullable(String)", field.Metadata.Values()[idx])
}

func TestNewRecordErrors(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	columns := []adapter.Column{{Name: "n", Type: "UInt8"}}

	t.Run("row width", func(t *testing.T) {
		_, err := NewRecord(mem, columns, [][]any{{uint8(1), uint8(2)}})
		require.Error(t, err)
	})

	t.Run("value type", func(t *testing.T) {
		_, err := NewRecord(mem, columns, [][]any{{"one"}})
		require.Error(t, err)
		require.Contains(t, err.Error(), "column `n`")
	})

	t.Run("negative unsigned", func(t *testing.T) {
		_, err := NewRecord(mem, columns, [][]any{{int64(-1)}})
		require.Error(t, err)
	})
}

func TestDeref(t *testing.T) {
	require.Nil(t, Deref(nil))
	require.Nil(t, Deref((*string)(nil)))
	require.Equal(t, "x", Deref(ptr.T("x")))
	require.Equal(t, int8(1), Deref(ptr.T(ptr.T(int8(1)))))
	require.Equal(t, 5, Deref(5))
}

func TestWriteIPC(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	columns := []adapter.Column{{Name: "a", Type: "UInt8"}, {Name: "b", Type: "String"}}

	record, err := NewRecord(mem, columns, [][]any{{uint8(1), "x"}, {uint8(2), "y"}})
	require.NoError(t, err)

	defer record.Release()

	var buf bytes.Buffer
	require.NoError(t, WriteIPC(&buf, mem, record))

	reader, err := ipc.NewReader(&buf, ipc.WithAllocator(mem))
	require.NoError(t, err)

	defer reader.Release()

	require.True(t, reader.Next())

	got := reader.Record()
	require.True(t, array.RecordEqual(record, got))
	require.False(t, reader.Next())
	require.NoError(t, reader.Err())
}

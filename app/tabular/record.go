package tabular

import (
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/apache/arrow/go/v13/arrow"
	"github.com/apache/arrow/go/v13/arrow/array"
	"github.com/apache/arrow/go/v13/arrow/ipc"
	"github.com/apache/arrow/go/v13/arrow/memory"
	"github.com/ydb-platform/clickhouse-adapter/app/adapter"
)

// MetadataKeyClickHouseType holds the raw server type of a field.
const MetadataKeyClickHouseType = "clickhouse.type"

// NewSchema builds the Arrow schema of a result shape.
func NewSchema(columns []adapter.Column) *arrow.Schema {
	fields := make([]arrow.Field, 0, len(columns))

	for _, col := range columns {
		dataType, nullable := arrowType(col.Type)

		fields = append(fields, arrow.Field{
			Name:     col.Name,
			Type:     dataType,
			Nullable: nullable,
			Metadata: arrow.NewMetadata([]string{MetadataKeyClickHouseType}, []string{col.Type}),
		})
	}

	return arrow.NewSchema(fields, nil)
}

// NewRecord converts fetched rows into a single Arrow record.
// The caller owns the record and must release it.
func NewRecord(alloc memory.Allocator, columns []adapter.Column, rows [][]any) (arrow.Record, error) {
	schema := NewSchema(columns)

	builders := make([]array.Builder, 0, len(columns))
	for _, field := range schema.Fields() {
		builders = append(builders, array.NewBuilder(alloc, field.Type))
	}

	defer func() {
		for _, b := range builders {
			b.Release()
		}
	}()

	for i, row := range rows {
		if len(row) != len(builders) {
			return nil, fmt.Errorf("row %d: expected %d values, got %d", i, len(builders), len(row))
		}

		for j, value := range row {
			if err := appendValue(builders[j], value); err != nil {
				return nil, fmt.Errorf("row %d, column `%s`: %w", i, columns[j].Name, err)
			}
		}
	}

	chunk := make([]arrow.Array, 0, len(builders))
	for _, b := range builders {
		chunk = append(chunk, b.NewArray())
	}

	record := array.NewRecord(schema, chunk, int64(len(rows)))

	for _, col := range chunk {
		col.Release()
	}

	return record, nil
}

// WriteIPC writes the record to w as an Arrow IPC stream.
func WriteIPC(w io.Writer, alloc memory.Allocator, record arrow.Record) error {
	writer := ipc.NewWriter(w, ipc.WithSchema(record.Schema()), ipc.WithAllocator(alloc))

	if err := writer.Write(record); err != nil {
		return fmt.Errorf("write record: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("close arrow writer: %w", err)
	}

	return nil
}

func appendValue(builder array.Builder, value any) error {
	value = Deref(value)
	if value == nil {
		builder.AppendNull()

		return nil
	}

	switch b := builder.(type) {
	case *array.BooleanBuilder:
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("unexpected value type %T for boolean", value)
		}

		b.Append(v)
	case *array.Int8Builder:
		v, err := toInt64(value)
		if err != nil {
			return err
		}

		b.Append(int8(v))
	case *array.Int16Builder:
		v, err := toInt64(value)
		if err != nil {
			return err
		}

		b.Append(int16(v))
	case *array.Int32Builder:
		v, err := toInt64(value)
		if err != nil {
			return err
		}

		b.Append(int32(v))
	case *array.Int64Builder:
		v, err := toInt64(value)
		if err != nil {
			return err
		}

		b.Append(v)
	case *array.Uint8Builder:
		v, err := toUint64(value)
		if err != nil {
			return err
		}

		b.Append(uint8(v))
	case *array.Uint16Builder:
		v, err := toUint64(value)
		if err != nil {
			return err
		}

		b.Append(uint16(v))
	case *array.Uint32Builder:
		v, err := toUint64(value)
		if err != nil {
			return err
		}

		b.Append(uint32(v))
	case *array.Uint64Builder:
		v, err := toUint64(value)
		if err != nil {
			return err
		}

		b.Append(v)
	case *array.Float32Builder:
		v, err := toFloat64(value)
		if err != nil {
			return err
		}

		b.Append(float32(v))
	case *array.Float64Builder:
		v, err := toFloat64(value)
		if err != nil {
			return err
		}

		b.Append(v)
	case *array.TimestampBuilder:
		v, ok := value.(time.Time)
		if !ok {
			return fmt.Errorf("unexpected value type %T for timestamp", value)
		}

		b.Append(arrow.Timestamp(v.UnixMicro()))
	case *array.StringBuilder:
		b.Append(toString(value))
	default:
		return fmt.Errorf("unsupported builder %T", builder)
	}

	return nil
}

// Deref unwraps pointers the driver uses for nullable values.
func Deref(value any) any {
	for value != nil {
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Pointer {
			return value
		}

		if rv.IsNil() {
			return nil
		}

		value = rv.Elem().Interface()
	}

	return nil
}

func toInt64(value any) (int64, error) {
	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), nil
	default:
		return 0, fmt.Errorf("unexpected value type %T for integer", value)
	}
}

func toUint64(value any) (uint64, error) {
	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.Int() < 0 {
			return 0, fmt.Errorf("negative value %d for unsigned integer", rv.Int())
		}

		return uint64(rv.Int()), nil
	default:
		return 0, fmt.Errorf("unexpected value type %T for unsigned integer", value)
	}
}

func toFloat64(value any) (float64, error) {
	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	default:
		return 0, fmt.Errorf("unexpected value type %T for float", value)
	}
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

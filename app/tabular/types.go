package tabular

import (
	"regexp"

	"github.com/apache/arrow/go/v13/arrow"
)

var (
	isNullable       = regexp.MustCompile(`^Nullable\((?P<Internal>.+)\)$`)
	isLowCardinality = regexp.MustCompile(`^LowCardinality\((?P<Internal>.+)\)$`)
	isDateTime       = regexp.MustCompile(`^DateTime(64)?(\(.*\))?$`)
)

// arrowType maps a ClickHouse type name to the Arrow type used for the column.
// Types without a lossless Arrow counterpart are rendered as strings.
func arrowType(typeName string) (arrow.DataType, bool) {
	var nullable bool

	for {
		if matches := isLowCardinality.FindStringSubmatch(typeName); len(matches) > 0 {
			typeName = matches[1]

			continue
		}

		if matches := isNullable.FindStringSubmatch(typeName); len(matches) > 0 {
			nullable = true
			typeName = matches[1]

			continue
		}

		break
	}

	switch {
	case typeName == "Bool" || typeName == "Boolean":
		return arrow.FixedWidthTypes.Boolean, nullable
	case typeName == "Int8":
		return arrow.PrimitiveTypes.Int8, nullable
	case typeName == "Int16":
		return arrow.PrimitiveTypes.Int16, nullable
	case typeName == "Int32":
		return arrow.PrimitiveTypes.Int32, nullable
	case typeName == "Int64":
		return arrow.PrimitiveTypes.Int64, nullable
	case typeName == "UInt8":
		return arrow.PrimitiveTypes.Uint8, nullable
	case typeName == "UInt16":
		return arrow.PrimitiveTypes.Uint16, nullable
	case typeName == "UInt32":
		return arrow.PrimitiveTypes.Uint32, nullable
	case typeName == "UInt64":
		return arrow.PrimitiveTypes.Uint64, nullable
	case typeName == "Float32":
		return arrow.PrimitiveTypes.Float32, nullable
	case typeName == "Float64":
		return arrow.PrimitiveTypes.Float64, nullable
	case typeName == "Date" || typeName == "Date32" || isDateTime.MatchString(typeName):
		return arrow.FixedWidthTypes.Timestamp_us, nullable
	default:
		return arrow.BinaryTypes.String, nullable
	}
}

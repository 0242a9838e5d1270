package clickhouse

import "strings"

const unknownTypeLabel = "?"

// typeLabels maps a ClickHouse type keyword to the glyph shown next to columns.
var typeLabels = map[string]string{
	"UInt8":   "#",
	"UInt16":  "#",
	"UInt32":  "#",
	"UInt64":  "##",
	"UInt128": "##",
	"UInt256": "##",
	"Int8":    "#",
	"Int16":   "#",
	"Int32":   "#",
	"Int64":   "##",
	"Int128":  "##",
	"Int256":  "##",

	"Float32": "#.#",
	"Float64": "#.#",
	"Decimal": "#.#",

	"Boolean": "t/f",
	"Bool":    "t/f",

	"String":      "s",
	"FixedString": "s",

	"Date":       "d",
	"Date32":     "d",
	"DateTime":   "ts",
	"DateTime64": "ts",
	"Interval":   "|-|",

	"JSON": "{}",
	"UUID": "uid",
	"Enum": "e",
	"IPv4": "ip",
	"IPv6": "ip",

	"LowCardinality":          "lc",
	"Array":                   "[]",
	"Map":                     "{}->{}",
	"SimpleAggregateFunction": "saf",
	"AggregateFunction":       "af",
	"Nested":                  "tbl",
	"Tuple":                   "()",
	"Nullable":                "?",

	"Point":        "•",
	"Ring":         "○",
	"Polygon":      "▽",
	"MultiPolygon": "▽▽",

	"Expression": "expr",
	"Set":        "set",
	"Nothing":    "nil",
}

// ShortType derives the display glyph of a raw server type name.
// Only the outermost keyword matters: "Nullable(String)" is "?", "Decimal(10, 2)" is "#.#".
// Unknown keywords map to "?".
func ShortType(rawType string) string {
	keyword, _, _ := strings.Cut(rawType, "(")
	keyword, _, _ = strings.Cut(keyword, " ")

	if label, ok := typeLabels[keyword]; ok {
		return label
	}

	return unknownTypeLabel
}

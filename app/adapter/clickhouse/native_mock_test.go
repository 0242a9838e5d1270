package clickhouse

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/stretchr/testify/mock"
)

var _ nativeConn = (*nativeConnMock)(nil)

type nativeConnMock struct {
	mock.Mock
}

func (m *nativeConnMock) Query(_ context.Context, query string, params ...any) (driver.Rows, error) {
	called := []any{query}
	called = append(called, params...)
	args := m.Called(called...)

	rows, _ := args.Get(0).(driver.Rows)

	return rows, args.Error(1)
}

func (m *nativeConnMock) Exec(_ context.Context, query string, params ...any) error {
	called := []any{query}
	called = append(called, params...)

	return m.Called(called...).Error(0)
}

func (m *nativeConnMock) Close() error {
	return m.Called().Error(0)
}

var _ driver.ColumnType = columnTypeStub{}

type columnTypeStub struct {
	name         string
	databaseType string
	scanType     reflect.Type
}

func (c columnTypeStub) Name() string             { return c.name }
func (c columnTypeStub) Nullable() bool           { return strings.HasPrefix(c.databaseType, "Nullable(") }
func (c columnTypeStub) ScanType() reflect.Type   { return c.scanType }
func (c columnTypeStub) DatabaseTypeName() string { return c.databaseType }

var _ driver.Rows = (*rowsMock)(nil)

// rowsMock serves PredefinedData through Next and Scan; Close and Err are mocked.
type rowsMock struct {
	mock.Mock
	columnTypes    []driver.ColumnType
	PredefinedData [][]any
	nextCalls      int
}

func newRowsMock(columnTypes []driver.ColumnType, data ...[]any) *rowsMock {
	return &rowsMock{columnTypes: columnTypes, PredefinedData: data}
}

func (m *rowsMock) Next() bool {
	if m.nextCalls >= len(m.PredefinedData) {
		return false
	}

	m.nextCalls++

	return true
}

func (m *rowsMock) Scan(dest ...any) error {
	row := m.PredefinedData[m.nextCalls-1]

	// mutate acceptors by reference
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()

		if row[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}

		target.Set(reflect.ValueOf(row[i]))
	}

	return nil
}

func (m *rowsMock) ScanStruct(any) error { return errors.New("not implemented") }

func (m *rowsMock) ColumnTypes() []driver.ColumnType { return m.columnTypes }

func (m *rowsMock) Totals(...any) error { return errors.New("not implemented") }

func (m *rowsMock) Columns() []string {
	names := make([]string, 0, len(m.columnTypes))
	for _, ct := range m.columnTypes {
		names = append(names, ct.Name())
	}

	return names
}

func (m *rowsMock) Close() error {
	return m.Called().Error(0)
}

func (m *rowsMock) Err() error {
	return m.Called().Error(0)
}

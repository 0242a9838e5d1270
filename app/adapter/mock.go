package adapter

import (
	"context"

	"github.com/stretchr/testify/mock"
)

var _ Connection = (*ConnectionMock)(nil)

type ConnectionMock struct {
	mock.Mock
}

func (m *ConnectionMock) Execute(ctx context.Context, query string) (Cursor, error) {
	args := m.Called(query)

	cursor, _ := args.Get(0).(Cursor)

	return cursor, args.Error(1)
}

func (m *ConnectionMock) GetCatalog(ctx context.Context) (*Catalog, error) {
	args := m.Called()

	catalog, _ := args.Get(0).(*Catalog)

	return catalog, args.Error(1)
}

func (m *ConnectionMock) GetCompletions(ctx context.Context) ([]Completion, error) {
	args := m.Called()

	completions, _ := args.Get(0).([]Completion)

	return completions, args.Error(1)
}

func (m *ConnectionMock) InitMessage() string {
	return m.Called().String(0)
}

func (m *ConnectionMock) Close() error {
	return m.Called().Error(0)
}

var _ Cursor = (*CursorMock)(nil)

type CursorMock struct {
	mock.Mock
}

func (m *CursorMock) Columns() []Column {
	return m.Called().Get(0).([]Column)
}

func (m *CursorMock) SetLimit(limit int) Cursor {
	m.Called(limit)

	return m
}

func (m *CursorMock) FetchAll(ctx context.Context) ([][]any, error) {
	args := m.Called()

	rows, _ := args.Get(0).([][]any)

	return rows, args.Error(1)
}

func (m *CursorMock) Close() error {
	return m.Called().Error(0)
}

package adapter

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindConnection Kind = iota + 1
	KindQuery
)

const (
	titleConnection = "Could not connect to your ClickHouse with clickhouse-go."
	titleQuery      = "Encountered an error while executing your query."
)

var (
	ErrConnection = errors.New("connection error")
	ErrQuery      = errors.New("query error")
)

// Error is the only error kind the adapter surfaces to hosts.
// Msg carries the driver message verbatim.
type Error struct {
	Kind  Kind
	Title string
	Msg   string
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s", e.Title, e.Msg)
}

func (e *Error) Unwrap() error { return e.cause }

// Is makes errors.Is(err, ErrConnection) and errors.Is(err, ErrQuery) work.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindConnection:
		return target == ErrConnection
	case KindQuery:
		return target == ErrQuery
	default:
		return false
	}
}

func NewConnectionError(cause error) *Error {
	return newError(KindConnection, titleConnection, cause)
}

func NewQueryError(cause error) *Error {
	return newError(KindQuery, titleQuery, cause)
}

func newError(kind Kind, title string, cause error) *Error {
	var msg string
	if cause != nil {
		msg = cause.Error()
	}

	return &Error{Kind: kind, Title: title, Msg: msg, cause: cause}
}

// AsError extracts the adapter error from a chain.
func AsError(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}

	return nil, false
}

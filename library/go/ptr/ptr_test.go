package ptr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestT(t *testing.T) {
	p := T("value")
	require.Equal(t, "value", *p)

	q := T(int64(42))
	require.Equal(t, int64(42), *q)
}

func TestFrom(t *testing.T) {
	require.Equal(t, "value", From(T("value")))
	require.Equal(t, 0, From[int](nil))
}

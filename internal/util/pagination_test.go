package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseIntDefault(t *testing.T) {
	require.Equal(t, 1, ParseIntDefault("", 1))
	require.Equal(t, 5, ParseIntDefault("5", 1))
	require.Equal(t, 1, ParseIntDefault("abc", 1))
	require.Equal(t, -3, ParseIntDefault("-3", 1))
}

func TestCalculate(t *testing.T) {
	offset, limit := Calculate(1, 10)
	require.Equal(t, 0, offset)
	require.Equal(t, 10, limit)

	offset, limit = Calculate(3, 10)
	require.Equal(t, 20, offset)
	require.Equal(t, 10, limit)

	// out-of-range inputs fall back to sane values
	offset, limit = Calculate(0, 0)
	require.Equal(t, 0, offset)
	require.Equal(t, DefaultPageSize, limit)

	offset, limit = Calculate(-5, 1000)
	require.Equal(t, 0, offset)
	require.Equal(t, MaxPageSize, limit)
}

func TestMeta(t *testing.T) {
	meta := Meta(2, 10, 10, 25)
	require.Equal(t, 2, meta["page"])
	require.Equal(t, 10, meta["size"])
	require.EqualValues(t, 25, meta["total"])
	require.EqualValues(t, 3, meta["total_pages"])
	require.Equal(t, true, meta["has_prev"])
	require.Equal(t, true, meta["has_next"])

	last := Meta(3, 10, 20, 25)
	require.Equal(t, false, last["has_next"])
	require.Equal(t, true, last["has_prev"])
}

package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	cases := []struct {
		page, size    int
		offset, limit int
	}{
		{1, 10, 0, 10},
		{3, 20, 40, 20},
		{0, 10, 0, 10},
		{-4, 0, 0, DefaultPageSize},
		{2, 1000, MaxPageSize, MaxPageSize},
	}
	for _, tc := range cases {
		offset, limit := Calculate(tc.page, tc.size)
		assert.Equal(t, tc.offset, offset, "page=%d size=%d", tc.page, tc.size)
		assert.Equal(t, tc.limit, limit, "page=%d size=%d", tc.page, tc.size)
	}
}

func TestTotalPages(t *testing.T) {
	assert.EqualValues(t, 0, TotalPages(0, 10))
	assert.EqualValues(t, 1, TotalPages(10, 10))
	assert.EqualValues(t, 2, TotalPages(11, 10))
	assert.EqualValues(t, 0, TotalPages(5, 0))
}

func TestWindow(t *testing.T) {
	lo, hi := Window(5, 0, 2)
	assert.Equal(t, []int{0, 2}, []int{lo, hi})
	lo, hi = Window(5, 4, 10)
	assert.Equal(t, []int{4, 5}, []int{lo, hi})
	lo, hi = Window(5, 10, 10)
	assert.Equal(t, []int{5, 5}, []int{lo, hi})
}

func TestParseHelpers(t *testing.T) {
	v, err := ParseIntDefault("", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	_, err = ParseIntDefault("abc", 7)
	require.Error(t, err)

	id, err := ParseID("42")
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
	_, err = ParseID("0")
	require.Error(t, err)
	_, err = ParseID("-1")
	require.Error(t, err)

	f, err := ParseOptionalFloat("")
	require.NoError(t, err)
	assert.Nil(t, f)

	d, err := ParseOptionalDecimal("19.90")
	require.NoError(t, err)
	assert.Equal(t, "19.9", d.String())
	_, err = ParseOptionalDecimal("1,5")
	require.Error(t, err)

	b, err := ParseOptionalBool("true")
	require.NoError(t, err)
	assert.True(t, *b)
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseTime("2024-03-15T10:30:00-03:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 13, 30, 0, 0, time.UTC), got)

	_, err = ParseTime("15/03/2024")
	require.Error(t, err)

	end, err := ParseOptionalEndTime("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 23, 59, 59, 999999999, time.UTC), *end)

	end, err = ParseOptionalEndTime("2024-03-15T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), *end)
}

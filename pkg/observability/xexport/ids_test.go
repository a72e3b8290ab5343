package xexport

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSonyflakeIDs(t *testing.T) {
	t.Parallel()

	next, err := SonyflakeIDs(7)
	require.NoError(t, err)

	var prev int64
	seen := make(map[string]struct{})
	for range 100 {
		id := next()
		n, err := strconv.ParseInt(id, 10, 64)
		require.NoError(t, err)
		assert.Greater(t, n, prev)
		prev = n
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 100)
}

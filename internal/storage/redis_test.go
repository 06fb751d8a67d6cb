package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordKeyStableAndBounded(t *testing.T) {
	k1 := recordKey("标题一", "2024-06-01 10:00:00")
	k2 := recordKey("标题一", "2024-06-01 10:00:00")
	k3 := recordKey("标题二", "2024-06-01 10:00:00")

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.True(t, strings.HasPrefix(k1, redisKeyPrefix))
	assert.Len(t, k1, len(redisKeyPrefix)+32)
}

func TestRecordKeySeparatesTitleAndTime(t *testing.T) {
	// "ab"+"c" must not collide with "a"+"bc"
	assert.NotEqual(t, recordKey("ab", "c"), recordKey("a", "bc"))
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-30")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, 30, d.Day())

	_, err = ParseDate("30.06.2024")
	assert.Error(t, err)
}

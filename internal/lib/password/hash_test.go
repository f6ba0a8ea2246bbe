package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHashAndCompareHash(t *testing.T) {
	hash, err := GetHash("s3curePassw0rd")
	require.NoError(t, err)
	assert.NotEqual(t, "s3curePassw0rd", hash)

	assert.NoError(t, CompareHash(hash, "s3curePassw0rd"))
	assert.Error(t, CompareHash(hash, "wrongPassword"))
}

func TestCompareHash_InvalidHash(t *testing.T) {
	assert.Error(t, CompareHash("not-a-bcrypt-hash", "whatever"))
}

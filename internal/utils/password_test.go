package utils_test

import (
	"testing"

	"github.com/griyakita/ipl_ledger_app/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := utils.HashPassword("warga-rt05-secret")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "warga-rt05-secret", hash)

	assert.True(t, utils.CheckPasswordHash("warga-rt05-secret", hash))
	assert.False(t, utils.CheckPasswordHash("wrong-password", hash))
	assert.False(t, utils.CheckPasswordHash("warga-rt05-secret", "not-a-bcrypt-hash"))
}
